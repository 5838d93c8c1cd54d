package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// RenderCSV escribe la cabecera (Columns) y las filas tal cual; el resumen no se incluye
// para que el CSV se pueda volver a leer como las filas del JSON.
func RenderCSV(t *dto.ReportTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
