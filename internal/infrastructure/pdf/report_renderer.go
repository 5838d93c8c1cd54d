// Package pdf dibuja los reportes tabulares como PDF con Maroto v2.
//
// Layout de la página A4 (horizontal si hay más de 6 columnas):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte   │  Rango + fecha de generación │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una columna por Columns, filas cebra                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: etiqueta / valor                                   │
//	│  FOOTER: moneda + leyenda                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
)

var _ ports.ReportPDFRenderer = (*ReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorZebra   = &props.Color{Red: 240, Green: 244, Blue: 248}
)

const landscapeFrom = 7

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa ports.ReportPDFRenderer.
type ReportRenderer struct {
	currency string
	printer  *message.Printer
}

// NewReportRenderer locale BCP 47 (p. ej. "en-US", "es-CO"); uno inválido cae a inglés.
func NewReportRenderer(currency, locale string) *ReportRenderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &ReportRenderer{currency: strings.ToUpper(currency), printer: message.NewPrinter(tag)}
}

// Render genera el PDF y devuelve sus bytes.
func (r *ReportRenderer) Render(t *dto.ReportTable) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	grid := len(t.Columns)
	if grid == 0 {
		grid = 1
	}

	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(grid).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithCreationDate(t.GeneratedAt)
	if len(t.Columns) >= landscapeFrom {
		b = b.WithOrientation(orientation.Horizontal)
	}
	m := maroto.New(b.Build())

	m.AddRows(headerRow(t, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(t.Columns) > 0 {
		m.AddRows(tableHeaderRow(t.Columns))
		for i, cells := range t.Rows {
			m.AddRows(r.tableRow(cells, len(t.Columns), i%2 == 1))
		}
	}
	if len(t.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(grid).Add(
			text.New("Sin datos para el período", props.Text{Size: 8, Top: 2, Align: align.Center, Color: colorGray}),
		)))
	}

	if len(t.Summary) > 0 {
		m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
		for _, s := range t.Summary {
			m.AddRows(r.summaryRow(s, grid))
		}
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("Importes en %s. Reporte %s generado automáticamente.", r.currency, t.Name),
			props.Text{Size: 6.5, Top: 2, Color: colorGray}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte %s: %w", t.Name, err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(t *dto.ReportTable, grid int) core.Row {
	left := grid * 2 / 3
	if left == 0 {
		left = grid
	}
	right := grid - left

	rangeText := "Período: -"
	if !t.From.IsZero() && !t.To.IsZero() {
		rangeText = fmt.Sprintf("Período: %s a %s", t.From.Format("2006-01-02"), t.To.Format("2006-01-02"))
	}

	info := []core.Component{
		text.New(rangeText, props.Text{Size: 8, Top: 2, Align: align.Right, Color: colorGray}),
		text.New("Generado: "+t.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
			Size: 8, Top: 8, Align: align.Right, Color: colorGray,
		}),
	}
	title := text.New(t.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2})

	if right == 0 {
		return row.New(16).Add(col.New(grid).Add(append([]core.Component{title}, info...)...))
	}
	return row.New(16).Add(col.New(left).Add(title), col.New(right).Add(info...))
}

func tableHeaderRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(1).Add(text.New(c, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRow rellena con celdas vacías si la fila trae menos valores que columnas.
func (r *ReportRenderer) tableRow(cells []string, width int, zebra bool) core.Row {
	cols := make([]core.Col, 0, width)
	for i := 0; i < width; i++ {
		var v string
		if i < len(cells) {
			v = cells[i]
		}
		p := props.Text{Size: 7.5, Top: 1.5, Left: 1, Right: 1}
		if formatted, ok := r.number(v); ok {
			v = formatted
			p.Align = align.Right
		}
		cols = append(cols, col.New(1).Add(text.New(v, p)))
	}
	rw := row.New(6).Add(cols...)
	if zebra {
		rw = rw.WithStyle(&props.Cell{BackgroundColor: colorZebra})
	}
	return rw
}

func (r *ReportRenderer) summaryRow(s dto.SummaryEntry, grid int) core.Row {
	label := text.New(s.Label+":", props.Text{Style: fontstyle.Bold, Size: 8.5, Top: 1, Align: align.Right, Right: 2})
	value := s.Value
	if formatted, ok := r.number(value); ok {
		value = formatted
	}
	val := text.New(value, props.Text{Size: 8.5, Top: 1, Align: align.Right, Right: 1})

	if grid < 2 {
		return row.New(6).Add(col.New(grid).Add(text.New(s.Label+": "+value, props.Text{Size: 8.5, Top: 1})))
	}
	half := grid / 2
	return row.New(6).Add(col.New(half).Add(label), col.New(grid-half).Add(val))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// number formatea según el locale las celdas decimales ("1234.50" → "1,234.50" en en-US).
// Enteros y texto pasan sin cambios: códigos, SKU y cantidades no se agrupan.
func (r *ReportRenderer) number(s string) (string, bool) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s, false
	}
	scale := len(s) - dot - 1
	return r.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(scale))), true
}
