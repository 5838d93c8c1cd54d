package mysql

import (
	"database/sql"
)

// Store repositorios sobre *sql.DB; mismos accesores que los stores de PostgreSQL y memoria.
type Store struct {
	*TxRunner
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{TxRunner: NewTxRunner(db), db: db}
}

func (s *Store) Users() *UserRepo                   { return NewUserRepository(s.db) }
func (s *Store) Sessions() *SessionRepo             { return NewSessionRepository(s.db) }
func (s *Store) Customers() *CustomerRepo           { return NewCustomerRepository(s.db) }
func (s *Store) Partners() *PartnerRepo             { return NewPartnerRepository(s.db) }
func (s *Store) Locations() *LocationRepo           { return NewLocationRepository(s.db) }
func (s *Store) Stock() *LocationStockRepo          { return NewLocationStockRepository(s.db) }
func (s *Store) Transfers() *TransferRepo           { return NewTransferRepository(s.db) }
func (s *Store) Items() *ItemRepo                   { return NewItemRepository(s.db) }
func (s *Store) Adjustments() *StockAdjustmentRepo  { return NewStockAdjustmentRepository(s.db) }
func (s *Store) Categories() *CategoryRepo          { return NewCategoryRepository(s.db) }
func (s *Store) Suppliers() *SupplierRepo           { return NewSupplierRepository(s.db) }
func (s *Store) Sales() *SaleRepo                   { return NewSaleRepository(s.db) }
func (s *Store) Payments() *PaymentRepo             { return NewPaymentRepository(s.db) }
func (s *Store) Refunds() *RefundRepo               { return NewRefundRepository(s.db) }
func (s *Store) TaxRates() *TaxRateRepo             { return NewTaxRateRepository(s.db) }
func (s *Store) PaymentMethods() *PaymentMethodRepo { return NewPaymentMethodRepository(s.db) }
func (s *Store) Settings() *SettingRepo             { return NewSettingRepository(s.db) }
func (s *Store) MessageLogs() *MessageLogRepo       { return NewMessageLogRepository(s.db) }
func (s *Store) TimeEntries() *TimeEntryRepo        { return NewTimeEntryRepository(s.db) }
func (s *Store) Reports() *ReportRepo               { return NewReportRepository(s.db) }

func (s *Store) Close() error {
	return s.db.Close()
}
