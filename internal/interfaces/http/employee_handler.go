package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// EmployeeHandler control de jornadas.
type EmployeeHandler struct {
	uc  *usecase.EmployeeUseCase
	log *logger.Logger
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, log: log}
}

// ClockIn godoc
// @Summary      Marcar entrada
// @Description  400 si ya hay una jornada abierta.
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClockInRequest  false  "location_id, notes"
// @Success      201   {object}  dto.TimeEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/employees/clock-in [post]
func (h *EmployeeHandler) ClockIn(c *fiber.Ctx) error {
	var in dto.ClockInRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.ClockIn(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ClockOut godoc
// @Summary      Marcar salida
// @Description  Horas = salida − entrada − descanso, redondeado a 2 decimales.
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClockOutRequest  false  "break_minutes, notes"
// @Success      200   {object}  dto.TimeEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/employees/clock-out [post]
func (h *EmployeeHandler) ClockOut(c *fiber.Ctx) error {
	var in dto.ClockOutRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.ClockOut(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Staff godoc
// @Summary      Personal activo
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) Staff(c *fiber.Ctx) error {
	out, err := h.uc.Staff(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Entries godoc
// @Summary      Jornadas de un empleado
// @Description  Un empleado solo puede ver las propias salvo manager/admin.
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del usuario"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.TimeEntriesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employees/{id}/time-entries [get]
func (h *EmployeeHandler) Entries(c *fiber.Ctx) error {
	var q dto.TimeRangeQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Entries(c.UserContext(), *GetPrincipal(c), c.Params("id"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Timesheet godoc
// @Summary      Horas por empleado
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.TimesheetResponse
// @Router       /api/employees/timesheet [get]
func (h *EmployeeHandler) Timesheet(c *fiber.Ctx) error {
	var q dto.TimeRangeQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Timesheet(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
