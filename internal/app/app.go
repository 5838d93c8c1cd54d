// Package app arma el grafo de casos de uso sobre un conjunto de repositorios.
// main lo usa con el driver configurado y los tests de punta a punta con el store en memoria.
package app

import (
	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/integrations"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/application/setup"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/mysql"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/internal/infrastructure/rabbitmq"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// TxRunner transacciones de inventario y facturación.
type TxRunner interface {
	inventory.TxRunner
	billing.BillingTxRunner
}

// Repositories puertos de persistencia, independientes del driver.
type Repositories struct {
	Tx             TxRunner
	Users          repository.UserRepository
	Sessions       repository.SessionRepository
	Customers      repository.CustomerRepository
	Partners       repository.PartnerRepository
	Locations      repository.LocationRepository
	Stock          repository.LocationStockRepository
	Transfers      repository.TransferRepository
	Items          repository.ItemRepository
	Adjustments    repository.StockAdjustmentRepository
	Categories     repository.CategoryRepository
	Suppliers      repository.SupplierRepository
	Sales          repository.SaleRepository
	Payments       repository.PaymentRepository
	Refunds        repository.RefundRepository
	TaxRates       repository.TaxRateRepository
	PaymentMethods repository.PaymentMethodRepository
	Settings       repository.SettingRepository
	MessageLogs    repository.MessageLogRepository
	TimeEntries    repository.TimeEntryRepository
	Reports        repository.ReportRepository
}

// FromPostgres repositorios sobre pgx.
func FromPostgres(s *postgres.Store) Repositories {
	return Repositories{
		Tx: s, Users: s.Users(), Sessions: s.Sessions(), Customers: s.Customers(), Partners: s.Partners(),
		Locations: s.Locations(), Stock: s.Stock(), Transfers: s.Transfers(), Items: s.Items(),
		Adjustments: s.Adjustments(), Categories: s.Categories(), Suppliers: s.Suppliers(),
		Sales: s.Sales(), Payments: s.Payments(), Refunds: s.Refunds(), TaxRates: s.TaxRates(),
		PaymentMethods: s.PaymentMethods(), Settings: s.Settings(), MessageLogs: s.MessageLogs(),
		TimeEntries: s.TimeEntries(), Reports: s.Reports(),
	}
}

// FromMySQL repositorios sobre database/sql + go-sql-driver/mysql.
func FromMySQL(s *mysql.Store) Repositories {
	return Repositories{
		Tx: s, Users: s.Users(), Sessions: s.Sessions(), Customers: s.Customers(), Partners: s.Partners(),
		Locations: s.Locations(), Stock: s.Stock(), Transfers: s.Transfers(), Items: s.Items(),
		Adjustments: s.Adjustments(), Categories: s.Categories(), Suppliers: s.Suppliers(),
		Sales: s.Sales(), Payments: s.Payments(), Refunds: s.Refunds(), TaxRates: s.TaxRates(),
		PaymentMethods: s.PaymentMethods(), Settings: s.Settings(), MessageLogs: s.MessageLogs(),
		TimeEntries: s.TimeEntries(), Reports: s.Reports(),
	}
}

// FromMemory repositorios en memoria.
func FromMemory(s *memory.Store) Repositories {
	return Repositories{
		Tx: s, Users: s.Users(), Sessions: s.Sessions(), Customers: s.Customers(), Partners: s.Partners(),
		Locations: s.Locations(), Stock: s.Stock(), Transfers: s.Transfers(), Items: s.Items(),
		Adjustments: s.Adjustments(), Categories: s.Categories(), Suppliers: s.Suppliers(),
		Sales: s.Sales(), Payments: s.Payments(), Refunds: s.Refunds(), TaxRates: s.TaxRates(),
		PaymentMethods: s.PaymentMethods(), Settings: s.Settings(), MessageLogs: s.MessageLogs(),
		TimeEntries: s.TimeEntries(), Reports: s.Reports(),
	}
}

// Services adaptadores externos. Blacklist, Gateway y Messenger pueden ser nil;
// sin Events se usa el publicador no-op.
type Services struct {
	Blacklist ports.TokenBlacklist
	Events    ports.EventPublisher
	Gateway   ports.PaymentGateway
	Messenger ports.Messenger
	PDF       ports.ReportPDFRenderer
	Barcode   ports.BarcodeRenderer
}

// Container casos de uso listos para el router, más lo que main necesita aparte.
type Container struct {
	Auth   *auth.AuthUseCase
	Deps   apphttp.RouterDeps
	Seeder *setup.Seeder
}

// New construye todos los casos de uso.
func New(r Repositories, svc Services, jwt auth.JWTConfig, log *logger.Logger) *Container {
	if log == nil {
		log = logger.Nop()
	}
	if svc.Events == nil {
		svc.Events = rabbitmq.NewNoopPublisher(log.Component("events"))
	}
	settings := usecase.NewSettingsUseCase(r.Settings)
	authUC := auth.NewAuthUseCase(r.Users, r.Sessions, svc.Blacklist, jwt, log.Component("auth"))

	deps := apphttp.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(r.Users, r.Sessions, jwt.BcryptCost),
		CustomerUC:    usecase.NewCustomerUseCase(r.Customers, r.Sales, settings),
		PartnerUC:     usecase.NewPartnerUseCase(r.Partners),
		LocationUC:    usecase.NewLocationUseCase(r.Locations, r.Stock, r.Items),
		EmployeeUC:    usecase.NewEmployeeUseCase(r.TimeEntries, r.Users),
		BarcodeUC:     usecase.NewBarcodeUseCase(r.Items, svc.Barcode),
		TaxRateUC:     usecase.NewTaxRateUseCase(r.TaxRates),
		PaymentMethUC: usecase.NewPaymentMethodUseCase(r.PaymentMethods),
		SettingsUC:    settings,
		ItemUC:        inventory.NewItemUseCase(r.Tx, r.Items, r.Adjustments),
		CategoryUC:    inventory.NewCategoryUseCase(r.Categories, r.Suppliers),
		TransferUC: inventory.NewTransferUseCase(r.Tx, r.Items, r.Locations, r.Transfers,
			svc.Events, log.Component("transfers")),
		SaleUC: billing.NewSaleUseCase(r.Tx, r.Sales, r.Payments, r.Customers, r.Locations, r.TaxRates,
			r.PaymentMethods, settings, svc.Events, log.Component("sales")),
		PaymentUC: billing.NewPaymentUseCase(r.Tx, r.Sales, r.Payments, r.Refunds, r.PaymentMethods,
			svc.Gateway, settings, svc.Events, log.Component("payments")),
		ReportUC:    analytics.NewReportUseCase(r.Reports, svc.PDF),
		DashboardUC: analytics.NewDashboardUseCase(r.Reports, r.Items, r.Sales),
		NotificationUC: notifications.NewNotificationUseCase(r.Customers, r.Sales, r.MessageLogs,
			svc.Messenger, settings, log.Component("notifications")),
		IntegrationUC: integrations.NewIntegrationUseCase(r.Sales, r.Items, r.Customers, r.Categories, r.Suppliers),
		Log:           log.Component("http"),
	}

	return &Container{
		Auth: authUC,
		Deps: deps,
		Seeder: &setup.Seeder{
			Users: r.Users, Methods: r.PaymentMethods, Settings: r.Settings,
			TaxRates: r.TaxRates, Locations: r.Locations, Log: log.Component("seed"),
		},
	}
}
