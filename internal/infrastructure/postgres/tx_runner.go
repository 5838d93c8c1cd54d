package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia la transacción, ejecuta fn y hace Commit solo si fn no falla. El Rollback diferido es no-op tras Commit.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTransfer repos de stock por ubicación y traslados atados a una tx.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(repository.LocationStockRepository, repository.TransferRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewLocationStockRepository(tx), NewTransferRepository(tx))
	})
}

// RunAdjustment ítems, stock y auditoría de ajustes en una tx.
func (r *TxRunner) RunAdjustment(ctx context.Context, fn func(repository.ItemRepository, repository.LocationStockRepository, repository.StockAdjustmentRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewItemRepository(tx), NewLocationStockRepository(tx), NewStockAdjustmentRepository(tx))
	})
}

// RunSale todo lo que toca una venta: inventario, cliente, venta y pago inicial.
func (r *TxRunner) RunSale(ctx context.Context, fn func(billing.SaleTxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(billing.SaleTxRepos{
			Items:     NewItemRepository(tx),
			Stock:     NewLocationStockRepository(tx),
			Customers: NewCustomerRepository(tx),
			Sales:     NewSaleRepository(tx),
			Payments:  NewPaymentRepository(tx),
		})
	})
}

// RunPayment pagos y reembolsos contra una venta bloqueada.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(repository.SaleRepository, repository.PaymentRepository, repository.RefundRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewPaymentRepository(tx), NewRefundRepository(tx))
	})
}
