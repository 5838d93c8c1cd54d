package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

func sampleTable(columns int) *dto.ReportTable {
	t := &dto.ReportTable{
		Name:        "sales",
		Title:       "Ventas por día",
		From:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
		GeneratedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		Summary:     []dto.SummaryEntry{{Label: "Total", Value: "15234.50"}, {Label: "Ventas", Value: "42"}},
	}
	for i := 0; i < columns; i++ {
		t.Columns = append(t.Columns, "col")
	}
	row := make([]string, columns)
	for i := range row {
		row[i] = "1234.50"
	}
	t.Rows = [][]string{row, row[:1]}
	return t
}

func TestRender_GeneraPDF(t *testing.T) {
	r := NewReportRenderer("usd", "en-US")

	out, err := r.Render(sampleTable(4))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_TablaAnchaEnHorizontal(t *testing.T) {
	out, err := NewReportRenderer("USD", "en-US").Render(sampleTable(9))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_SinColumnasNiFilas(t *testing.T) {
	out, err := NewReportRenderer("USD", "en-US").Render(&dto.ReportTable{Name: "vacío", Title: "Vacío"})

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRender_NilEsError(t *testing.T) {
	_, err := NewReportRenderer("USD", "en-US").Render(nil)
	assert.Error(t, err)
}

func TestNumber_FormatoPorLocale(t *testing.T) {
	en := NewReportRenderer("USD", "en-US")
	got, ok := en.number("1234567.50")
	assert.True(t, ok)
	assert.Equal(t, "1,234,567.50", got)

	es := NewReportRenderer("EUR", "es-ES")
	got, ok = es.number("1234567.50")
	assert.True(t, ok)
	assert.Equal(t, "1.234.567,50", got)
}

func TestNumber_TextoYEnterosNoCambian(t *testing.T) {
	r := NewReportRenderer("USD", "en-US")
	for _, in := range []string{"SKU-001", "42", "", "v1.2.3", "2026-01-01"} {
		got, ok := r.number(in)
		assert.False(t, ok, in)
		assert.Equal(t, in, got)
	}
}

func TestNewReportRenderer_LocaleInvalido(t *testing.T) {
	r := NewReportRenderer("USD", "??")
	got, ok := r.number("1000.5")
	assert.True(t, ok)
	assert.Equal(t, "1,000.5", got)
}
