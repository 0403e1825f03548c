package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/mealplan"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
)

// MealPlanHandler plan de comidas, faltantes y resumen nutricional.
type MealPlanHandler struct {
	uc        *mealplan.UseCase
	nutrition *usecase.NutritionUseCase
}

// NewMealPlanHandler construye el handler.
func NewMealPlanHandler(uc *mealplan.UseCase, nutrition *usecase.NutritionUseCase) *MealPlanHandler {
	return &MealPlanHandler{uc: uc, nutrition: nutrition}
}

// Create godoc
// @Summary      Agregar comida al plan
// @Tags         meal-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MealPlanRequest  true  "fecha, tipo, título e ingredientes"
// @Success      201   {object}  dto.MealPlanResponse
// @Router       /api/meal-plans [post]
func (h *MealPlanHandler) Create(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.MealPlanRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Comidas en un rango de fechas
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD). Default: hoy."
// @Param        to    query  string  false  "Hasta, inclusive (YYYY-MM-DD). Default: hoy + 6 días."
// @Success      200   {array}  dto.MealPlanResponse
// @Router       /api/meal-plans [get]
func (h *MealPlanHandler) List(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" {
		from = time.Now().Format(time.DateOnly)
	}
	if to == "" {
		start, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return badRequest("INVALID_DATE", "from debe tener formato YYYY-MM-DD")
		}
		to = start.AddDate(0, 0, 6).Format(time.DateOnly)
	}
	out, err := h.uc.List(c.UserContext(), householdID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de una comida
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la comida"
// @Success      200  {object}  dto.MealPlanResponse
// @Router       /api/meal-plans/{id} [get]
func (h *MealPlanHandler) Get(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar una comida
// @Tags         meal-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la comida"
// @Param        body  body  dto.MealPlanRequest  true  "comida completa"
// @Success      200   {object}  dto.MealPlanResponse
// @Router       /api/meal-plans/{id} [put]
func (h *MealPlanHandler) Update(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.MealPlanRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), householdID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comida
// @Tags         meal-plans
// @Security     Bearer
// @Param        id   path  string  true  "ID de la comida"
// @Success      204
// @Router       /api/meal-plans/{id} [delete]
func (h *MealPlanHandler) Delete(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Shortfall godoc
// @Summary      Llevar faltantes del plan a una lista de compras
// @Description  Suma los ingredientes del rango, descuenta las existencias y agrega lo que falta.
// @Tags         meal-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShortfallRequest  true  "rango y lista destino"
// @Success      200   {object}  dto.ShortfallResult
// @Router       /api/meal-plans/shortfall [post]
func (h *MealPlanHandler) Shortfall(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.ShortfallRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ShortfallToShoppingList(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Nutrition godoc
// @Summary      Resumen nutricional del plan
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD). Default: hoy."
// @Param        to    query  string  false  "Hasta, inclusive (YYYY-MM-DD). Default: from + 6 días."
// @Success      200   {object}  dto.MealPlanNutritionDTO
// @Router       /api/meal-plans/nutrition [get]
func (h *MealPlanHandler) Nutrition(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, err := queryDate(c, "from", today)
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to", from.AddDate(0, 0, 6))
	if err != nil {
		return err
	}
	out, err := h.nutrition.SummarizeMealPlan(c.UserContext(), householdID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
