package dto

import (
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// FromUser convierte la entidad en respuesta (sin hash de password).
func FromUser(u *entity.User, effective []string) UserResponse {
	var perms map[string]bool
	if len(u.Permissions) > 0 {
		perms = make(map[string]bool, len(u.Permissions))
		for k, v := range u.Permissions {
			perms[string(k)] = v
		}
	}
	if effective == nil {
		effective = []string{}
	}
	return UserResponse{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone,
		Role: u.Role, Status: u.Status,
		Permissions: perms, EffectivePermissions: effective,
		LastLogin: u.LastLogin, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func FromCustomer(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID: c.ID, CustomerCode: c.CustomerCode, FirstName: c.FirstName, LastName: c.LastName,
		Email: c.Email, Phone: c.Phone, Address: c.Address, City: c.City, Notes: c.Notes,
		LoyaltyPoints: c.LoyaltyPoints, TotalSpent: c.TotalSpent, VisitCount: c.VisitCount,
		LastVisit: c.LastVisit, MarketingOptIn: c.MarketingOptIn, Status: c.Status,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func FromLocation(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID: l.ID, Name: l.Name, Address: l.Address, City: l.City, Phone: l.Phone,
		IsMain: l.IsMain, Status: l.Status, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

func FromLocationStock(s *entity.LocationStock) LocationStockResponse {
	return LocationStockResponse{
		LocationID: s.LocationID, ItemID: s.ItemID, SKU: s.ItemSKU, Name: s.ItemName,
		Quantity: s.Quantity, MinQuantity: s.MinQuantity,
		LowStock: s.Quantity <= s.MinQuantity, UpdatedAt: s.UpdatedAt,
	}
}

func FromItem(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID: i.ID, SKU: i.SKU, Barcode: i.Barcode, Name: i.Name, Description: i.Description,
		CategoryID: i.CategoryID, SupplierID: i.SupplierID, TaxRateID: i.TaxRateID,
		Price: i.Price, Cost: i.Cost, Quantity: i.Quantity, MinQuantity: i.MinQuantity,
		Unit: i.Unit, Status: i.Status, LowStock: i.IsLowStock(),
		CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt,
	}
}

func FromCategory(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, Status: c.Status, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromSupplier(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID: s.ID, Name: s.Name, ContactName: s.ContactName, Email: s.Email, Phone: s.Phone,
		Address: s.Address, Status: s.Status, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func FromTransfer(t *entity.InventoryTransfer) TransferResponse {
	return TransferResponse{
		ID: t.ID, ItemID: t.ItemID, FromLocationID: t.FromLocationID, ToLocationID: t.ToLocationID,
		Quantity: t.Quantity, Notes: t.Notes, TransferredBy: t.TransferredBy, CreatedAt: t.CreatedAt,
	}
}

// FromSale incluye líneas si están cargadas; los pagos se agregan aparte.
func FromSale(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID: s.ID, InvoiceNumber: s.InvoiceNumber, CustomerID: s.CustomerID, LocationID: s.LocationID,
		UserID: s.UserID, Subtotal: s.Subtotal, TaxAmount: s.TaxAmount, DiscountAmount: s.DiscountAmount,
		Total: s.Total, PaidAmount: s.PaidAmount, Balance: s.Balance(),
		PaymentStatus: s.PaymentStatus, Status: s.Status, Notes: s.Notes, LoyaltyEarned: s.LoyaltyPointsEarned,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID: it.ID, ItemID: it.ItemID, SKU: it.SKU, Name: it.Name, Quantity: it.Quantity,
			UnitPrice: it.UnitPrice, Discount: it.Discount, TaxRate: it.TaxRate,
			TaxAmount: it.TaxAmount, LineTotal: it.LineTotal,
		})
	}
	return out
}

func FromPayment(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID: p.ID, SaleID: p.SaleID, PaymentMethodID: p.PaymentMethodID, Method: p.Method,
		Amount: p.Amount, RefundedAmount: p.RefundedAmount, Status: p.Status,
		Reference: p.Reference, ExternalID: p.ExternalID, ProcessedBy: p.ProcessedBy,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func FromRefund(r *entity.Refund) RefundResponse {
	return RefundResponse{
		ID: r.ID, PaymentID: r.PaymentID, SaleID: r.SaleID, Amount: r.Amount, Reason: r.Reason,
		Status: r.Status, ExternalID: r.ExternalID, ProcessedBy: r.ProcessedBy, CreatedAt: r.CreatedAt,
	}
}

func FromTaxRate(t *entity.TaxRate) TaxRateResponse {
	return TaxRateResponse{ID: t.ID, Name: t.Name, Rate: t.Rate, IsDefault: t.IsDefault, Status: t.Status, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func FromPaymentMethod(m *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID: m.ID, Code: m.Code, Name: m.Name, IsActive: m.IsActive,
		RequiresReference: m.RequiresReference, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func FromSetting(s *entity.Setting) SettingResponse {
	return SettingResponse{Key: s.Key, Value: s.Value, Description: s.Description, UpdatedAt: s.UpdatedAt}
}

func FromTimeEntry(e *entity.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID: e.ID, UserID: e.UserID, LocationID: e.LocationID, ClockIn: e.ClockIn, ClockOut: e.ClockOut,
		BreakMinutes: e.BreakMinutes, Hours: e.Hours, Notes: e.Notes,
	}
}

func FromMessageLog(m *entity.MessageLog) MessageLogResponse {
	return MessageLogResponse{
		ID: m.ID, CustomerID: m.CustomerID, Phone: m.Phone, Channel: m.Channel, Template: m.Template,
		Body: m.Body, Status: m.Status, ProviderID: m.ProviderID, Error: m.Error, SentBy: m.SentBy,
		CreatedAt: m.CreatedAt,
	}
}

func FromPartner(p *entity.Partner) PartnerResponse {
	return PartnerResponse{
		ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, OwnershipPct: p.OwnershipPct,
		Status: p.Status, Notes: p.Notes, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func FromInvestment(i *entity.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID: i.ID, PartnerID: i.PartnerID, Amount: i.Amount, InvestedAt: i.InvestedAt,
		Notes: i.Notes, CreatedBy: i.CreatedBy, CreatedAt: i.CreatedAt,
	}
}
