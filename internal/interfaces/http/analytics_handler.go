package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/despensa-api/internal/application/analytics"
	"github.com/jhoicas/despensa-api/internal/application/dto"
)

// AnalyticsHandler maneja reportes de gasto, presupuestos y libro de precios.
type AnalyticsHandler struct {
	reports   *appanalytics.ReportUseCase
	budgets   *appanalytics.BudgetUseCase
	priceBook *appanalytics.PriceBookUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(
	reports *appanalytics.ReportUseCase,
	budgets *appanalytics.BudgetUseCase,
	priceBook *appanalytics.PriceBookUseCase,
) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, budgets: budgets, priceBook: priceBook}
}

// SpendReport godoc
// @Summary      Gasto por categoría y ranking de productos (Pareto 80/20)
// @Description  Agrupa las compras del período por categoría y ordena los productos por gasto,
//               marcando los que concentran el 80 % del total.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Param        top_n       query  int     false  "Máx. productos en el ranking (default 20, max 200)."
// @Success      200  {object}  dto.SpendReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/spend [get]
func (h *AnalyticsHandler) SpendReport(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var req dto.SpendReportRequest
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	out, err := h.reports.SpendReport(c.UserContext(), householdID, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SetBudget godoc
// @Summary      Definir presupuesto mensual
// @Description  Sin categoría el monto es el presupuesto total del mes.
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetBudgetRequest  true  "mes, categoría y monto"
// @Success      200   {object}  dto.BudgetResponse
// @Router       /api/budgets [put]
func (h *AnalyticsHandler) SetBudget(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.SetBudgetRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.budgets.Set(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListBudgets godoc
// @Summary      Presupuestos del mes
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes (YYYY-MM). Default: mes actual."
// @Success      200    {array}  dto.BudgetResponse
// @Router       /api/budgets [get]
func (h *AnalyticsHandler) ListBudgets(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	month, err := queryMonth(c)
	if err != nil {
		return err
	}
	out, err := h.budgets.List(c.UserContext(), householdID, month)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteBudget godoc
// @Summary      Eliminar presupuesto
// @Tags         budgets
// @Security     Bearer
// @Param        id   path  string  true  "ID del presupuesto"
// @Success      204
// @Router       /api/budgets/{id} [delete]
func (h *AnalyticsHandler) DeleteBudget(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.budgets.Delete(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BudgetStatus godoc
// @Summary      Estado del presupuesto
// @Description  Gasto del mes frente al presupuesto, ritmo diario y proyección al cierre.
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes (YYYY-MM). Default: mes actual."
// @Success      200    {object}  dto.BudgetStatusDTO
// @Router       /api/budgets/status [get]
func (h *AnalyticsHandler) BudgetStatus(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	month, err := queryMonth(c)
	if err != nil {
		return err
	}
	out, err := h.budgets.Status(c.UserContext(), householdID, month)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PriceBook godoc
// @Summary      Libro de precios de un producto
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PriceBookDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [get]
func (h *AnalyticsHandler) PriceBook(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.priceBook.GetPriceBook(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PriceBookPDF godoc
// @Summary      Libro de precios en PDF
// @Tags         prices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Router       /api/products/{id}/prices/pdf [get]
func (h *AnalyticsHandler) PriceBookPDF(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.priceBook.PriceBookPDF(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return sendPDF(c, "precios-"+id+".pdf", doc)
}

// queryMonth mes YYYY-MM de la query; por defecto el mes actual.
func queryMonth(c *fiber.Ctx) (string, error) {
	month := c.Query("month")
	if month == "" {
		return time.Now().Format("2006-01"), nil
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return "", badRequest("INVALID_MONTH", "month debe tener formato YYYY-MM")
	}
	return month, nil
}
