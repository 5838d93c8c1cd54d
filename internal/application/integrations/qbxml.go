package integrations

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

const qbxmlVersion = "13.0"

// BuildQBXML genera un QBXML con un SalesReceiptAddRq por venta.
func BuildQBXML(sales []*entity.Sale, customers map[string]*entity.Customer) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.CreateProcInst("qbxml", `version="`+qbxmlVersion+`"`)
	msgs := doc.CreateElement("QBXML").CreateElement("QBXMLMsgsRq")
	msgs.CreateAttr("onError", "continueOnError")

	for i, s := range sales {
		rq := msgs.CreateElement("SalesReceiptAddRq")
		rq.CreateAttr("requestID", strconv.Itoa(i+1))
		add := rq.CreateElement("SalesReceiptAdd")
		if s.CustomerID != nil {
			if c, ok := customers[*s.CustomerID]; ok {
				add.CreateElement("CustomerRef").CreateElement("FullName").SetText(c.FullName())
			}
		}
		add.CreateElement("TxnDate").SetText(s.CreatedAt.Format("2006-01-02"))
		add.CreateElement("RefNumber").SetText(s.InvoiceNumber)
		if s.Notes != "" {
			add.CreateElement("Memo").SetText(s.Notes)
		}
		for _, it := range s.Items {
			line := add.CreateElement("SalesReceiptLineAdd")
			line.CreateElement("ItemRef").CreateElement("FullName").SetText(it.SKU)
			line.CreateElement("Desc").SetText(it.Name)
			line.CreateElement("Quantity").SetText(strconv.Itoa(it.Quantity))
			line.CreateElement("Rate").SetText(it.UnitPrice.StringFixed(2))
			line.CreateElement("Amount").SetText(it.LineTotal.Sub(it.TaxAmount).StringFixed(2))
		}
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("qbxml: serializar: %w", err)
	}
	return b, nil
}
