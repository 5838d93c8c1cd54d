// Package integrations proyecta ventas, productos y clientes a los formatos de
// QuickBooks, WooCommerce, Shopify y Mailchimp. Solo lectura.
package integrations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const pageSize = 100

// IntegrationUseCase arma las proyecciones a partir de los repositorios.
type IntegrationUseCase struct {
	saleRepo     repository.SaleRepository
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	now          func() time.Time
}

// NewIntegrationUseCase construye el caso de uso.
func NewIntegrationUseCase(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) *IntegrationUseCase {
	return &IntegrationUseCase{
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		now:          time.Now,
	}
}

// QuickBooksSales ventas completadas del período como SalesReceipt de QuickBooks Online.
func (uc *IntegrationUseCase) QuickBooksSales(ctx context.Context, q dto.IntegrationQuery) ([]dto.QBSalesReceipt, error) {
	sales, customers, err := uc.salesWithCustomers(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QBSalesReceipt, 0, len(sales))
	for _, s := range sales {
		r := dto.QBSalesReceipt{
			DocNumber:   s.InvoiceNumber,
			TxnDate:     s.CreatedAt.Format("2006-01-02"),
			TotalAmt:    s.Total.InexactFloat64(),
			TxnTaxTotal: s.TaxAmount.InexactFloat64(),
			PrivateNote: s.Notes,
		}
		if s.CustomerID != nil {
			if c, ok := customers[*s.CustomerID]; ok {
				r.CustomerRef = &dto.QBRef{Value: c.CustomerCode, Name: c.FullName()}
			}
		}
		for i, it := range s.Items {
			taxCode := "NON"
			if it.TaxRate.IsPositive() {
				taxCode = "TAX"
			}
			r.Line = append(r.Line, dto.QBLine{
				LineNum:     i + 1,
				Description: it.Name,
				Amount:      it.LineTotal.Sub(it.TaxAmount).InexactFloat64(),
				DetailType:  "SalesItemLineDetail",
				SalesItemLineDetail: dto.QBSalesItemLineDetail{
					ItemRef:   dto.QBRef{Value: it.SKU, Name: it.Name},
					UnitPrice: it.UnitPrice.InexactFloat64(),
					Qty:       it.Quantity,
					TaxCode:   dto.QBRef{Value: taxCode},
				},
			})
		}
		out = append(out, r)
	}
	return out, nil
}

// QuickBooksSalesXML mismas ventas como documento qbXML de SalesReceiptAddRq (QuickBooks Desktop).
func (uc *IntegrationUseCase) QuickBooksSalesXML(ctx context.Context, q dto.IntegrationQuery) ([]byte, error) {
	sales, customers, err := uc.salesWithCustomers(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildQBXML(sales, customers)
}

// WooCommerceProducts ítems activos como productos de WooCommerce.
func (uc *IntegrationUseCase) WooCommerceProducts(ctx context.Context) ([]dto.WooProduct, error) {
	items, err := uc.activeItems(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WooProduct, 0, len(items))
	for _, it := range items {
		p := dto.WooProduct{
			SKU:           it.SKU,
			Name:          it.Name,
			Type:          "simple",
			Status:        "publish",
			Description:   it.Description,
			RegularPrice:  it.Price.StringFixed(2),
			ManageStock:   true,
			StockQuantity: it.Quantity,
			StockStatus:   "instock",
		}
		if it.Quantity <= 0 {
			p.StockStatus = "outofstock"
		}
		if it.CategoryID != nil {
			if name, ok := categories[*it.CategoryID]; ok {
				p.Categories = []dto.WooID{{Name: name}}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// ShopifyProducts ítems activos como productos de Shopify con una variante.
func (uc *IntegrationUseCase) ShopifyProducts(ctx context.Context) ([]dto.ShopifyProduct, error) {
	items, err := uc.activeItems(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := uc.supplierNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopifyProduct, 0, len(items))
	for _, it := range items {
		v := dto.ShopifyVariant{
			SKU:               it.SKU,
			Price:             it.Price.StringFixed(2),
			InventoryQuantity: it.Quantity,
			InventoryPolicy:   "deny",
			Taxable:           it.TaxRateID != nil,
		}
		if it.Barcode != nil {
			v.Barcode = *it.Barcode
		}
		p := dto.ShopifyProduct{
			Title:    it.Name,
			BodyHTML: it.Description,
			Status:   "active",
			Variants: []dto.ShopifyVariant{v},
		}
		if it.CategoryID != nil {
			p.ProductType = categories[*it.CategoryID]
		}
		if it.SupplierID != nil {
			p.Vendor = vendors[*it.SupplierID]
		}
		out = append(out, p)
	}
	return out, nil
}

// MailchimpMembers clientes activos con email como miembros de lista.
func (uc *IntegrationUseCase) MailchimpMembers(ctx context.Context) ([]dto.MailchimpMember, error) {
	customers, err := collect(func(p repository.Page) ([]*entity.Customer, int, error) {
		return uc.customerRepo.List(ctx, repository.CustomerFilter{Status: entity.StatusActive, Page: p})
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MailchimpMember, 0, len(customers))
	for _, c := range customers {
		if strings.TrimSpace(c.Email) == "" {
			continue
		}
		status := "unsubscribed"
		if c.MarketingOptIn {
			status = "subscribed"
		}
		out = append(out, dto.MailchimpMember{
			EmailAddress: c.Email,
			Status:       status,
			MergeFields: map[string]string{
				"FNAME":  c.FirstName,
				"LNAME":  c.LastName,
				"PHONE":  c.Phone,
				"CODE":   c.CustomerCode,
				"POINTS": fmt.Sprintf("%d", c.LoyaltyPoints),
			},
			Tags: []string{"pos"},
		})
	}
	return out, nil
}

// salesWithCustomers ventas completadas del período con sus líneas y los clientes referenciados.
func (uc *IntegrationUseCase) salesWithCustomers(ctx context.Context, q dto.IntegrationQuery) ([]*entity.Sale, map[string]*entity.Customer, error) {
	from, to, err := dto.ParsePeriod(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, nil, err
	}
	headers, err := collect(func(p repository.Page) ([]*entity.Sale, int, error) {
		return uc.saleRepo.List(ctx, repository.SaleFilter{From: &from, To: &to, Status: entity.SaleStatusCompleted, Page: p})
	})
	if err != nil {
		return nil, nil, err
	}
	sales := make([]*entity.Sale, 0, len(headers))
	customers := map[string]*entity.Customer{}
	for _, h := range headers {
		s, err := uc.saleRepo.GetByID(ctx, h.ID)
		if err != nil {
			return nil, nil, err
		}
		if s == nil {
			continue
		}
		sales = append(sales, s)
		if s.CustomerID == nil {
			continue
		}
		if _, ok := customers[*s.CustomerID]; ok {
			continue
		}
		c, err := uc.customerRepo.GetByID(ctx, *s.CustomerID)
		if err != nil {
			return nil, nil, err
		}
		if c != nil {
			customers[c.ID] = c
		}
	}
	return sales, customers, nil
}

func (uc *IntegrationUseCase) activeItems(ctx context.Context) ([]*entity.Item, error) {
	return collect(func(p repository.Page) ([]*entity.Item, int, error) {
		return uc.itemRepo.List(ctx, repository.ItemFilter{Status: entity.StatusActive, Page: p})
	})
}

func (uc *IntegrationUseCase) categoryNames(ctx context.Context) (map[string]string, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.ID] = c.Name
	}
	return out, nil
}

func (uc *IntegrationUseCase) supplierNames(ctx context.Context) (map[string]string, error) {
	list, err := uc.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.ID] = s.Name
	}
	return out, nil
}

// collect recorre todas las páginas de un listado.
func collect[T any](fetch func(p repository.Page) ([]T, int, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		page, total, err := fetch(repository.Page{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize || len(all) >= total {
			return all, nil
		}
	}
}
