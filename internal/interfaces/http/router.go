package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/integrations"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CustomerUC     *usecase.CustomerUseCase
	PartnerUC      *usecase.PartnerUseCase
	LocationUC     *usecase.LocationUseCase
	EmployeeUC     *usecase.EmployeeUseCase
	BarcodeUC      *usecase.BarcodeUseCase
	TaxRateUC      *usecase.TaxRateUseCase
	PaymentMethUC  *usecase.PaymentMethodUseCase
	SettingsUC     *usecase.SettingsUseCase
	ItemUC         *inventory.ItemUseCase
	CategoryUC     *inventory.CategoryUseCase
	TransferUC     *inventory.TransferUseCase
	SaleUC         *billing.SaleUseCase
	PaymentUC      *billing.PaymentUseCase
	ReportUC       *analytics.ReportUseCase
	DashboardUC    *analytics.DashboardUseCase
	NotificationUC *notifications.NotificationUseCase
	IntegrationUC  *integrations.IntegrationUseCase
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Públicas
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	paymentHandler := NewPaymentHandler(deps.PaymentUC, log)
	api.Post("/webhooks/stripe", paymentHandler.StripeWebhook)

	// Rutas protegidas (requieren Bearer Token). Todo lo registrado antes queda público.
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	session := protected.Group("/auth")
	session.Post("/logout", authHandler.Logout)
	session.Get("/me", authHandler.Me)
	session.Put("/password", authHandler.ChangePassword)
	session.Post("/register", RequireRole(entity.RoleAdmin), authHandler.Register)

	// Users
	userHandler := NewUserHandler(deps.UserUC, log)
	users := protected.Group("/users", RequirePermission(entity.PermUsersManage))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/permissions", userHandler.UpdatePermissions)
	users.Post("/:id/reset-password", userHandler.ResetPassword)
	users.Delete("/:id", userHandler.Deactivate)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC, log)
	customers := protected.Group("/customers")
	customers.Get("/", RequirePermission(entity.PermCustomersView), customerHandler.List)
	customers.Post("/", RequirePermission(entity.PermCustomersManage), customerHandler.Create)
	customers.Get("/:id", RequirePermission(entity.PermCustomersView), customerHandler.GetByID)
	customers.Put("/:id", RequirePermission(entity.PermCustomersManage), customerHandler.Update)
	customers.Delete("/:id", RequirePermission(entity.PermCustomersManage), customerHandler.Deactivate)
	customers.Get("/:id/sales", RequirePermission(entity.PermSalesView), customerHandler.Sales)
	customers.Get("/:id/loyalty", RequirePermission(entity.PermCustomersView), customerHandler.Loyalty)
	customers.Post("/:id/loyalty/adjust", RequirePermission(entity.PermCustomersManage), customerHandler.AdjustLoyalty)

	// Partners
	partnerHandler := NewPartnerHandler(deps.PartnerUC, log)
	partners := protected.Group("/partners", RequirePermission(entity.PermPartnersManage))
	partners.Get("/", partnerHandler.List)
	partners.Post("/", partnerHandler.Create)
	partners.Get("/:id", partnerHandler.GetByID)
	partners.Put("/:id", partnerHandler.Update)
	partners.Delete("/:id", partnerHandler.Deactivate)
	partners.Post("/:id/investments", partnerHandler.AddInvestment)
	partners.Get("/:id/investments", partnerHandler.ListInvestments)

	// Locations
	locationHandler := NewLocationHandler(deps.LocationUC, log)
	locations := protected.Group("/locations")
	locations.Get("/", RequirePermission(entity.PermInventoryView), locationHandler.List)
	locations.Post("/", RequirePermission(entity.PermInventoryManage), locationHandler.Create)
	locations.Get("/:id", RequirePermission(entity.PermInventoryView), locationHandler.GetByID)
	locations.Put("/:id", RequirePermission(entity.PermInventoryManage), locationHandler.Update)
	locations.Delete("/:id", RequirePermission(entity.PermInventoryManage), locationHandler.Deactivate)
	locations.Get("/:id/inventory", RequirePermission(entity.PermInventoryView), locationHandler.Inventory)
	locations.Put("/:id/inventory/:itemId", RequirePermission(entity.PermInventoryManage), locationHandler.SetStock)

	// Inventory: rutas fijas antes de /:id
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.CategoryUC, deps.TransferUC, log)
	inv := protected.Group("/inventory")
	view := RequirePermission(entity.PermInventoryView)
	manage := RequirePermission(entity.PermInventoryManage)
	inv.Get("/low-stock", view, inventoryHandler.LowStock)
	inv.Get("/categories", view, inventoryHandler.ListCategories)
	inv.Post("/categories", manage, inventoryHandler.CreateCategory)
	inv.Put("/categories/:id", manage, inventoryHandler.UpdateCategory)
	inv.Get("/suppliers", view, inventoryHandler.ListSuppliers)
	inv.Post("/suppliers", manage, inventoryHandler.CreateSupplier)
	inv.Put("/suppliers/:id", manage, inventoryHandler.UpdateSupplier)
	inv.Post("/transfers", RequirePermission(entity.PermInventoryTransfer), inventoryHandler.Transfer)
	inv.Get("/transfers", view, inventoryHandler.ListTransfers)
	inv.Get("/transfers/:id", view, inventoryHandler.GetTransfer)
	inv.Get("/", view, inventoryHandler.ListItems)
	inv.Post("/", manage, inventoryHandler.CreateItem)
	inv.Get("/:id", view, inventoryHandler.GetItem)
	inv.Put("/:id", manage, inventoryHandler.UpdateItem)
	inv.Delete("/:id", manage, inventoryHandler.DeactivateItem)
	inv.Post("/:id/adjust", manage, inventoryHandler.Adjust)
	inv.Get("/:id/adjustments", view, inventoryHandler.Adjustments)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.PaymentUC, log)
	sales := protected.Group("/sales")
	sales.Post("/", RequirePermission(entity.PermSalesCreate), saleHandler.Create)
	sales.Get("/", RequirePermission(entity.PermSalesView), saleHandler.List)
	sales.Get("/invoice/:number", RequirePermission(entity.PermSalesView), saleHandler.GetByInvoice)
	sales.Get("/:id", RequirePermission(entity.PermSalesView), saleHandler.GetByID)
	sales.Get("/:id/payments", RequirePermission(entity.PermSalesView), saleHandler.Payments)
	sales.Post("/:id/void", RequireMinRole(entity.RoleManager), RequirePermission(entity.PermSalesVoid), saleHandler.Void)

	// Payments y refunds
	payments := protected.Group("/payments")
	payments.Post("/", RequirePermission(entity.PermPaymentsProcess), paymentHandler.Create)
	payments.Get("/", RequirePermission(entity.PermSalesView), paymentHandler.List)
	payments.Get("/:id", RequirePermission(entity.PermSalesView), paymentHandler.GetByID)
	payments.Post("/:id/confirm", RequirePermission(entity.PermPaymentsProcess), paymentHandler.Confirm)
	payments.Post("/:id/refunds", RequirePermission(entity.PermPaymentsRefund), paymentHandler.Refund)
	protected.Get("/refunds", RequirePermission(entity.PermSalesView), paymentHandler.ListRefunds)

	// Catálogos de configuración
	catalogHandler := NewCatalogHandler(deps.TaxRateUC, deps.PaymentMethUC, deps.SettingsUC, log)
	settingsManage := RequirePermission(entity.PermSettingsManage)
	taxRates := protected.Group("/tax-rates")
	taxRates.Get("/", catalogHandler.ListTaxRates)
	taxRates.Post("/", settingsManage, catalogHandler.CreateTaxRate)
	taxRates.Put("/:id", settingsManage, catalogHandler.UpdateTaxRate)
	taxRates.Delete("/:id", settingsManage, catalogHandler.DeactivateTaxRate)

	methods := protected.Group("/payment-methods")
	methods.Get("/", catalogHandler.ListPaymentMethods)
	methods.Post("/", settingsManage, catalogHandler.CreatePaymentMethod)
	methods.Put("/:id", settingsManage, catalogHandler.UpdatePaymentMethod)
	methods.Patch("/:id/toggle", settingsManage, catalogHandler.TogglePaymentMethod)

	settings := protected.Group("/settings")
	settings.Get("/", catalogHandler.ListSettings)
	settings.Get("/:key", catalogHandler.GetSetting)
	settings.Put("/:key", RequireRole(entity.RoleAdmin), catalogHandler.PutSetting)

	// Employees: timesheet antes de /:id
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, log)
	employees := protected.Group("/employees")
	employees.Post("/clock-in", employeeHandler.ClockIn)
	employees.Post("/clock-out", employeeHandler.ClockOut)
	employees.Get("/timesheet", RequireMinRole(entity.RoleManager), employeeHandler.Timesheet)
	employees.Get("/", RequirePermission(entity.PermEmployeesManage), employeeHandler.Staff)
	employees.Get("/:id/time-entries", employeeHandler.Entries)

	// Barcodes
	barcodeHandler := NewBarcodeHandler(deps.BarcodeUC, log)
	barcodes := protected.Group("/barcodes")
	barcodes.Get("/lookup/:code", view, barcodeHandler.Lookup)
	barcodes.Post("/items/:id/generate", manage, barcodeHandler.Generate)
	barcodes.Get("/items/:id/image", view, barcodeHandler.Image)

	// Reports: dashboard antes de /:name
	reportHandler := NewReportHandler(deps.ReportUC, deps.DashboardUC, log)
	reports := protected.Group("/reports", RequirePermission(entity.PermReportsView))
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/:name", reportHandler.Report)

	// Notifications
	notificationHandler := NewNotificationHandler(deps.NotificationUC, log)
	notif := protected.Group("/notifications")
	notif.Get("/templates", notificationHandler.Templates)
	notif.Get("/logs", RequirePermission(entity.PermCustomersView), notificationHandler.Logs)
	notif.Post("/send", RequirePermission(entity.PermNotificationsSend), notificationHandler.Send)
	notif.Post("/sales/:id/receipt", RequirePermission(entity.PermNotificationsSend), notificationHandler.SendReceipt)

	// Integrations
	integrationHandler := NewIntegrationHandler(deps.IntegrationUC, log)
	integ := protected.Group("/integrations", RequirePermission(entity.PermIntegrations))
	integ.Get("/quickbooks/sales", integrationHandler.QuickBooksSales)
	integ.Get("/woocommerce/products", integrationHandler.WooCommerceProducts)
	integ.Get("/shopify/products", integrationHandler.ShopifyProducts)
	integ.Get("/mailchimp/members", integrationHandler.MailchimpMembers)
}
