package policy

import (
	"sort"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// roleDefaults capacidades concedidas por rol antes de aplicar overrides del usuario.
// admin no aparece: pasa todas las verificaciones.
var roleDefaults = map[string][]entity.Permission{
	entity.RoleManager: {
		entity.PermInventoryView, entity.PermInventoryManage, entity.PermInventoryTransfer,
		entity.PermSalesView, entity.PermSalesCreate, entity.PermSalesVoid,
		entity.PermPaymentsProcess, entity.PermPaymentsRefund,
		entity.PermCustomersView, entity.PermCustomersManage,
		entity.PermReportsView, entity.PermReportsExport,
		entity.PermEmployeesManage, entity.PermIntegrations, entity.PermNotificationsSend,
	},
	entity.RoleCashier: {
		entity.PermInventoryView,
		entity.PermSalesView, entity.PermSalesCreate,
		entity.PermPaymentsProcess,
		entity.PermCustomersView, entity.PermCustomersManage,
		entity.PermNotificationsSend,
	},
	entity.RoleEmployee: {
		entity.PermInventoryView, entity.PermSalesView, entity.PermCustomersView,
	},
}

// Allows decide si el rol, con los overrides del usuario, tiene la capacidad perm.
func Allows(role string, overrides entity.PermissionSet, perm entity.Permission) bool {
	if role == entity.RoleAdmin {
		return true
	}
	if v, ok := overrides[perm]; ok {
		return v
	}
	for _, p := range roleDefaults[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Effective lista ordenada de capacidades efectivas; es lo que viaja en el JWT.
func Effective(role string, overrides entity.PermissionSet) []string {
	out := make([]string, 0, len(entity.AllPermissions))
	for _, p := range entity.AllPermissions {
		if Allows(role, overrides, p) {
			out = append(out, string(p))
		}
	}
	sort.Strings(out)
	return out
}

// RoleAtLeast compara jerarquía admin > manager > cashier > employee.
func RoleAtLeast(role, min string) bool {
	return rank(role) >= rank(min)
}

func rank(role string) int {
	switch role {
	case entity.RoleAdmin:
		return 4
	case entity.RoleManager:
		return 3
	case entity.RoleCashier:
		return 2
	case entity.RoleEmployee:
		return 1
	}
	return 0
}
