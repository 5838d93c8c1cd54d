package billing

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleTxRepos repositorios atados a la transacción de una venta.
type SaleTxRepos struct {
	Items     repository.ItemRepository
	Stock     repository.LocationStockRepository
	Customers repository.CustomerRepository
	Sales     repository.SaleRepository
	Payments  repository.PaymentRepository
}

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
type BillingTxRunner interface {
	RunSale(ctx context.Context, fn func(r SaleTxRepos) error) error
	RunPayment(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		refundRepo repository.RefundRepository,
	) error) error
}
