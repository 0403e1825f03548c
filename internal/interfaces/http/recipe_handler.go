package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/mealplan"
)

// RecipeHandler maneja la captura de recetas web y las recetas sugeridas por IA.
type RecipeHandler struct {
	uc *mealplan.UseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *mealplan.UseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// Clip godoc
// @Summary      Capturar receta desde una URL
// @Description  Lee el JSON-LD Recipe de la página o, en su defecto, las listas de ingredientes.
//               Con date y meal_type la receta se guarda como comida del plan.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClipRecipeRequest  true  "url y, opcional, fecha y tipo de comida"
// @Success      200   {object}  dto.ClipRecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/recipes/clip [post]
func (h *RecipeHandler) Clip(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var req dto.ClipRecipeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	out, err := h.uc.ClipRecipe(c.UserContext(), householdID, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Suggest godoc
// @Summary      Recetas sugeridas con lo que hay en la despensa
// @Description  Envía al modelo los productos disponibles, primero los que están por vencer.
//               Timeout interno configurable (10 s por defecto).
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecipeSuggestionRequest  false  "máximo de recetas y preferencias"
// @Success      200   {array}  dto.RecipeSuggestionDTO
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/recipes/suggestions [post]
func (h *RecipeHandler) Suggest(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var req dto.RecipeSuggestionRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}
	out, err := h.uc.SuggestRecipes(c.UserContext(), householdID, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
