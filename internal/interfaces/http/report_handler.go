package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// ReportHandler reportes tabulares y dashboard.
type ReportHandler struct {
	reports   *analytics.ReportUseCase
	dashboard *analytics.DashboardUseCase
	log       *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *analytics.ReportUseCase, dashboard *analytics.DashboardUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, dashboard: dashboard, log: log}
}

// Report godoc
// @Summary      Reporte tabular
// @Description  JSON, CSV y PDF renderizan la misma tabla (columnas, filas y resumen).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        name        path   string  true   "sales|products|customers|inventory|tax|financial"
// @Param        start_date  query  string  false  "YYYY-MM-DD. Default: primer día del mes"
// @Param        end_date    query  string  false  "YYYY-MM-DD. Default: hoy"
// @Param        format      query  string  false  "json|csv|pdf"  default(json)
// @Param        group_by    query  string  false  "day|month (solo sales)"
// @Param        limit       query  int     false  "Top N (products, customers)"
// @Success      200  {object}  dto.ReportTable
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{name} [get]
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	name := c.Params("name")
	table, err := h.reports.Build(c.UserContext(), name, q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if q.Format == "" || q.Format == dto.FormatJSON {
		return c.JSON(table)
	}

	body, contentType, err := h.reports.Export(table, q.Format)
	if err != nil {
		return respondError(c, h.log, err)
	}
	filename := fmt.Sprintf("%s_%s_%s.%s", name, table.From.Format("20060102"), table.To.Format("20060102"), q.Format)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Dashboard godoc
// @Summary      KPIs del día y del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
