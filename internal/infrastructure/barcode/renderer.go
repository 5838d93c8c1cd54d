// Package barcode genera imágenes PNG de códigos de barras con boombuler/barcode.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"

	"github.com/jhoicas/pos-api/internal/application/ports"
)

var _ ports.BarcodeRenderer = (*Renderer)(nil)

// Renderer implementa ports.BarcodeRenderer.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// PNG codifica y escala. Si el ancho pedido es menor que el mínimo del código se usa el mínimo.
func (r *Renderer) PNG(code, format string, width, height int) ([]byte, error) {
	var (
		img bc.Barcode
		err error
	)
	switch format {
	case ports.BarcodeCode128, "":
		img, err = code128.Encode(code)
	case ports.BarcodeEAN13:
		if len(code) != 13 {
			return nil, fmt.Errorf("barcode: EAN-13 requiere 13 dígitos, recibido %q", code)
		}
		img, err = ean.Encode(code)
	default:
		return nil, fmt.Errorf("barcode: formato no soportado %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("barcode: codificar %q: %w", code, err)
	}

	if minW := img.Bounds().Dx(); width < minW {
		width = minW
	}
	if height < 1 {
		height = 1
	}
	scaled, err := bc.Scale(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("barcode: escalar: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("barcode: png: %w", err)
	}
	return buf.Bytes(), nil
}
