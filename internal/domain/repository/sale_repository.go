package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleRepository ventas con sus líneas.
type SaleRepository interface {
	// Create inserta cabecera y líneas (sale.Items).
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID incluye las líneas.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetByInvoiceNumber(ctx context.Context, number string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	// UpdatePayment persiste paid_amount y payment_status.
	UpdatePayment(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, sale *entity.Sale) error
}

// PaymentRepository pagos registrados contra ventas.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, int, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error)
	// Update persiste status, refunded_amount y external_id.
	Update(ctx context.Context, p *entity.Payment) error
}

// RefundRepository reembolsos.
type RefundRepository interface {
	Create(ctx context.Context, r *entity.Refund) error
	List(ctx context.Context, paymentID string, p Page) ([]*entity.Refund, int, error)
}
