package notifications

import (
	"regexp"
	"sort"
)

// Plantillas disponibles.
const (
	TemplateReceipt         = "receipt"
	TemplateOrderReady      = "order_ready"
	TemplatePaymentReminder = "payment_reminder"
	TemplateLoyaltyUpdate   = "loyalty_update"
	TemplatePromotion       = "promotion"
)

var templates = map[string]string{
	TemplateReceipt:         "Hola {{customer_name}}, gracias por tu compra en {{store_name}}. Factura {{invoice_number}} por {{total}}. Saldo pendiente: {{balance}}.",
	TemplateOrderReady:      "Hola {{customer_name}}, tu pedido {{invoice_number}} está listo para recoger en {{store_name}}.",
	TemplatePaymentReminder: "Hola {{customer_name}}, te recordamos que la factura {{invoice_number}} tiene un saldo pendiente de {{balance}}. {{store_name}}",
	TemplateLoyaltyUpdate:   "Hola {{customer_name}}, ahora tienes {{points}} puntos de lealtad en {{store_name}}.",
	TemplatePromotion:       "Hola {{customer_name}}, {{message}} - {{store_name}}",
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Render sustituye los {{placeholder}}; los que no tienen valor quedan vacíos.
func Render(body string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		return vars[key]
	})
}

// Placeholders lista ordenada y sin repetidos de los placeholders de una plantilla.
func Placeholders(body string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out
}
