package pricing

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput datos de una línea antes de calcular.
type LineInput struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
}

// Line montos calculados de una línea.
type Line struct {
	Gross     decimal.Decimal // cantidad * precio
	Discount  decimal.Decimal // limitado a Gross
	Net       decimal.Decimal // Gross - Discount
	TaxAmount decimal.Decimal
	Total     decimal.Decimal // Net + TaxAmount
}

// ComputeLine aplica descuento e impuesto a una línea. Redondeo a 2 decimales.
func ComputeLine(in LineInput) Line {
	gross := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)
	disc := in.Discount
	if disc.IsNegative() {
		disc = decimal.Zero
	}
	if disc.GreaterThan(gross) {
		disc = gross
	}
	net := gross.Sub(disc)
	tax := net.Mul(in.TaxRate).Div(hundred).Round(2)
	return Line{Gross: gross, Discount: disc, Net: net, TaxAmount: tax, Total: net.Add(tax)}
}

// Totals totales de la venta.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Summarize suma las líneas y aplica el descuento global sobre el total (nunca negativo).
func Summarize(lines []Line, saleDiscount decimal.Decimal) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Gross)
		t.Discount = t.Discount.Add(l.Discount)
		t.Tax = t.Tax.Add(l.TaxAmount)
	}
	before := t.Subtotal.Sub(t.Discount).Add(t.Tax)
	if saleDiscount.IsPositive() {
		if saleDiscount.GreaterThan(before) {
			saleDiscount = before
		}
		t.Discount = t.Discount.Add(saleDiscount)
		before = before.Sub(saleDiscount)
	}
	t.Total = before
	return t
}

// LoyaltyPoints puntos ganados: floor(total * rate).
func LoyaltyPoints(total, rate decimal.Decimal) int {
	if !total.IsPositive() || !rate.IsPositive() {
		return 0
	}
	return int(total.Mul(rate).Floor().IntPart())
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = codeAlphabet[time.Now().UnixNano()%int64(len(codeAlphabet))]
			continue
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b)
}

// InvoiceNumber genera INV-YYYYMMDD-XXXXXX. La unicidad final la garantiza la constraint de la tabla.
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), randomCode(6))
}

// CustomerCode genera CUST-XXXXXXXX.
func CustomerCode() string {
	return "CUST-" + randomCode(8)
}
