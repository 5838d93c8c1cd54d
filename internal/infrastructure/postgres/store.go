package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reúne los repositorios sobre el pool y el runner de transacciones.
// Expone los mismos accesores que el store en memoria para que el cableado no dependa del driver.
type Store struct {
	*TxRunner
	pool *pgxpool.Pool
}

// NewStore construye el store sobre un pool ya abierto.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{TxRunner: NewTxRunner(pool), pool: pool}
}

func (s *Store) Users() *UserRepo                   { return NewUserRepository(s.pool) }
func (s *Store) Sessions() *SessionRepo             { return NewSessionRepository(s.pool) }
func (s *Store) Customers() *CustomerRepo           { return NewCustomerRepository(s.pool) }
func (s *Store) Partners() *PartnerRepo             { return NewPartnerRepository(s.pool) }
func (s *Store) Locations() *LocationRepo           { return NewLocationRepository(s.pool) }
func (s *Store) Stock() *LocationStockRepo          { return NewLocationStockRepository(s.pool) }
func (s *Store) Transfers() *TransferRepo           { return NewTransferRepository(s.pool) }
func (s *Store) Items() *ItemRepo                   { return NewItemRepository(s.pool) }
func (s *Store) Adjustments() *StockAdjustmentRepo  { return NewStockAdjustmentRepository(s.pool) }
func (s *Store) Categories() *CategoryRepo          { return NewCategoryRepository(s.pool) }
func (s *Store) Suppliers() *SupplierRepo           { return NewSupplierRepository(s.pool) }
func (s *Store) Sales() *SaleRepo                   { return NewSaleRepository(s.pool) }
func (s *Store) Payments() *PaymentRepo             { return NewPaymentRepository(s.pool) }
func (s *Store) Refunds() *RefundRepo               { return NewRefundRepository(s.pool) }
func (s *Store) TaxRates() *TaxRateRepo             { return NewTaxRateRepository(s.pool) }
func (s *Store) PaymentMethods() *PaymentMethodRepo { return NewPaymentMethodRepository(s.pool) }
func (s *Store) Settings() *SettingRepo             { return NewSettingRepository(s.pool) }
func (s *Store) MessageLogs() *MessageLogRepo       { return NewMessageLogRepository(s.pool) }
func (s *Store) TimeEntries() *TimeEntryRepo        { return NewTimeEntryRepository(s.pool) }
func (s *Store) Reports() *ReportRepo               { return NewReportRepository(s.pool) }

// Close cierra el pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
