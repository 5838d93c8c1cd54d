package entity

// Permission capacidad nombrada que se puede conceder o negar a un usuario.
type Permission string

const (
	PermInventoryView     Permission = "inventory.view"
	PermInventoryManage   Permission = "inventory.manage"
	PermInventoryTransfer Permission = "inventory.transfer"
	PermSalesView         Permission = "sales.view"
	PermSalesCreate       Permission = "sales.create"
	PermSalesVoid         Permission = "sales.void"
	PermPaymentsProcess   Permission = "payments.process"
	PermPaymentsRefund    Permission = "payments.refund"
	PermCustomersView     Permission = "customers.view"
	PermCustomersManage   Permission = "customers.manage"
	PermReportsView       Permission = "reports.view"
	PermReportsExport     Permission = "reports.export"
	PermUsersManage       Permission = "users.manage"
	PermSettingsManage    Permission = "settings.manage"
	PermEmployeesManage   Permission = "employees.manage"
	PermIntegrations      Permission = "integrations.access"
	PermNotificationsSend Permission = "notifications.send"
	PermPartnersManage    Permission = "partners.manage"
)

// AllPermissions catálogo completo, en orden estable.
var AllPermissions = []Permission{
	PermInventoryView, PermInventoryManage, PermInventoryTransfer,
	PermSalesView, PermSalesCreate, PermSalesVoid,
	PermPaymentsProcess, PermPaymentsRefund,
	PermCustomersView, PermCustomersManage,
	PermReportsView, PermReportsExport,
	PermUsersManage, PermSettingsManage, PermEmployeesManage,
	PermIntegrations, PermNotificationsSend, PermPartnersManage,
}

// KnownPermission indica si p pertenece al catálogo.
func KnownPermission(p Permission) bool {
	for _, k := range AllPermissions {
		if k == p {
			return true
		}
	}
	return false
}

// PermissionSet mapa de overrides por usuario (persistido como objeto JSON de booleanos).
// Una clave ausente significa "usar el valor por defecto del rol".
type PermissionSet map[Permission]bool
