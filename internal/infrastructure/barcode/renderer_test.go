package barcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/ports"
)

func TestPNG_Code128(t *testing.T) {
	out, err := NewRenderer().PNG("SKU-0001", ports.BarcodeCode128, 300, 100)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestPNG_EAN13(t *testing.T) {
	out, err := NewRenderer().PNG("2000000000015", ports.BarcodeEAN13, 250, 80)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
}

func TestPNG_AnchoMenorQueElMinimo(t *testing.T) {
	out, err := NewRenderer().PNG("CODIGO-MUY-LARGO-PARA-UN-ANCHO-CHICO", ports.BarcodeCode128, 10, 50)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 10)
}

func TestPNG_Errores(t *testing.T) {
	r := NewRenderer()

	_, err := r.PNG("123", ports.BarcodeEAN13, 200, 80)
	assert.ErrorContains(t, err, "13 dígitos")

	_, err = r.PNG("ABC", "qr", 200, 80)
	assert.ErrorContains(t, err, "no soportado")
}
