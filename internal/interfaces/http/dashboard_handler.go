package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/despensa-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de la despensa y del mes en curso.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (conteos por estado, por vencer en 3 días,
// gasto del mes frente al presupuesto, costo de desperdicio, top 5 productos,
// básicos por reponer).
// No requiere parámetros; las fechas se calculan automáticamente en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	summary, err := h.uc.GetSummary(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
