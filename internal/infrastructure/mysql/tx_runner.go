package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción InnoDB.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TxRunner) RunTransfer(ctx context.Context, fn func(repository.LocationStockRepository, repository.TransferRepository) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewLocationStockRepository(tx), NewTransferRepository(tx))
	})
}

func (r *TxRunner) RunAdjustment(ctx context.Context, fn func(repository.ItemRepository, repository.LocationStockRepository, repository.StockAdjustmentRepository) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewItemRepository(tx), NewLocationStockRepository(tx), NewStockAdjustmentRepository(tx))
	})
}

func (r *TxRunner) RunSale(ctx context.Context, fn func(billing.SaleTxRepos) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(billing.SaleTxRepos{
			Items:     NewItemRepository(tx),
			Stock:     NewLocationStockRepository(tx),
			Customers: NewCustomerRepository(tx),
			Sales:     NewSaleRepository(tx),
			Payments:  NewPaymentRepository(tx),
		})
	})
}

func (r *TxRunner) RunPayment(ctx context.Context, fn func(repository.SaleRepository, repository.PaymentRepository, repository.RefundRepository) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewSaleRepository(tx), NewPaymentRepository(tx), NewRefundRepository(tx))
	})
}
