package ports

import "github.com/jhoicas/pos-api/internal/application/dto"

// ReportPDFRenderer dibuja una tabla de reporte como PDF.
type ReportPDFRenderer interface {
	Render(table *dto.ReportTable) ([]byte, error)
}

// Formatos de código de barras soportados.
const (
	BarcodeCode128 = "code128"
	BarcodeEAN13   = "ean13"
)

// BarcodeRenderer genera la imagen PNG de un código.
type BarcodeRenderer interface {
	PNG(code, format string, width, height int) ([]byte, error)
}
