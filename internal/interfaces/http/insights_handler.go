package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/insights"
)

// InsightsHandler sugerencias inteligentes y patrones de compra.
type InsightsHandler struct {
	uc *insights.UseCase
}

// NewInsightsHandler construye el handler.
func NewInsightsHandler(uc *insights.UseCase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// Suggestions godoc
// @Summary      Sugerencias de compra
// @Description  Combina reposición de básicos, reabastecimiento previsto, productos que suelen comprarse juntos
//               y temporada. Excluye lo que ya está en la lista activa.
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Param        horizon_days  query  int  false  "Ventana de previsión en días"  default(7)
// @Param        limit         query  int  false  "Máx. sugerencias"              default(20)
// @Success      200           {object}  dto.SuggestionsResponse
// @Router       /api/insights/suggestions [get]
func (h *InsightsHandler) Suggestions(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var req dto.SuggestionsRequest
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	out, err := h.uc.GetSuggestions(c.UserContext(), householdID, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddToList godoc
// @Summary      Copiar sugerencias a una lista
// @Tags         insights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddSuggestionsRequest  true  "lista y productos"
// @Success      200   {object}  dto.AddToListResult
// @Router       /api/insights/suggestions/to-list [post]
func (h *InsightsHandler) AddToList(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.AddSuggestionsRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddSuggestionsToList(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Patterns godoc
// @Summary      Patrones de compra por producto
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PurchasePatternDTO
// @Router       /api/insights/patterns [get]
func (h *InsightsHandler) Patterns(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetPatterns(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Companions godoc
// @Summary      Productos que se compran junto a otro
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Máx. resultados"  default(5)
// @Success      200    {array}  dto.CompanionDTO
// @Router       /api/insights/companions/{id} [get]
func (h *InsightsHandler) Companions(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		return badRequest("INVALID_LIMIT", "limit debe estar entre 1 y 50")
	}
	out, err := h.uc.GetCompanions(c.UserContext(), householdID, id, limit)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Seasonal godoc
// @Summary      Productos de temporada
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SeasonalDTO
// @Router       /api/insights/seasonal [get]
func (h *InsightsHandler) Seasonal(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetSeasonal(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Predictions godoc
// @Summary      Próximas compras previstas
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PredictionDTO
// @Router       /api/insights/predictions [get]
func (h *InsightsHandler) Predictions(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetPredictions(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
