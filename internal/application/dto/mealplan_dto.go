package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MealPlanRequest alta o reemplazo de una comida planificada.
type MealPlanRequest struct {
	Date        string                  `json:"date" validate:"required,datetime=2006-01-02"`
	MealType    string                  `json:"meal_type" validate:"required,mealtype"`
	Title       string                  `json:"title" validate:"required,min=1,max=200"`
	Servings    int                     `json:"servings" validate:"omitempty,min=1,max=100"`
	Notes       string                  `json:"notes" validate:"omitempty,max=2000"`
	SourceURL   string                  `json:"source_url" validate:"omitempty,url"`
	Ingredients []MealIngredientRequest `json:"ingredients" validate:"omitempty,dive"`
}

// MealIngredientRequest ingrediente de una comida.
type MealIngredientRequest struct {
	ProductID string          `json:"product_id" validate:"omitempty,uuid"`
	Name      string          `json:"name" validate:"required_without=ProductID,max=200"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit" validate:"unit"`
}

// MealPlanResponse comida planificada.
type MealPlanResponse struct {
	ID          string                   `json:"id"`
	Date        string                   `json:"date"`
	MealType    string                   `json:"meal_type"`
	Title       string                   `json:"title"`
	Servings    int                      `json:"servings"`
	Notes       string                   `json:"notes,omitempty"`
	SourceURL   string                   `json:"source_url,omitempty"`
	Ingredients []MealIngredientResponse `json:"ingredients"`
}

// MealIngredientResponse ingrediente de una comida.
type MealIngredientResponse struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// ShortfallRequest pasa a una lista lo que falta para cubrir el plan de comidas.
type ShortfallRequest struct {
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
	ListID string `json:"list_id" validate:"required,uuid"`
}

// ShortfallResult resumen de faltantes.
type ShortfallResult struct {
	ListID  string         `json:"list_id"`
	Added   []ShortfallDTO `json:"added"`
	Covered int            `json:"covered"` // ingredientes cubiertos por la despensa
	Skipped []SkippedLine  `json:"skipped,omitempty"`
}

// ShortfallDTO faltante de un ingrediente.
type ShortfallDTO struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Needed    decimal.Decimal `json:"needed"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Missing   decimal.Decimal `json:"missing"`
	Unit      string          `json:"unit"`
}

// ClipRecipeRequest URL de la receta a importar.
type ClipRecipeRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	MealType string `json:"meal_type" validate:"omitempty,mealtype"`
}

// ClippedRecipe receta extraída de una página web.
type ClippedRecipe struct {
	Title       string   `json:"title"`
	SourceURL   string   `json:"source_url"`
	Servings    int      `json:"servings,omitempty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps,omitempty"`
}

// ClipRecipeResponse receta importada; MealPlan está presente si se pidió agendarla.
type ClipRecipeResponse struct {
	Recipe   ClippedRecipe     `json:"recipe"`
	MealPlan *MealPlanResponse `json:"meal_plan,omitempty"`
}

// RecipeSuggestionRequest parámetros para pedir ideas de recetas.
type RecipeSuggestionRequest struct {
	MaxRecipes  int    `json:"max_recipes" validate:"omitempty,min=1,max=10"`
	Preferences string `json:"preferences" validate:"omitempty,max=500"`
}

// RecipePrompt datos que se envían al modelo de lenguaje.
type RecipePrompt struct {
	Expiring    []string
	OnHand      []string
	MaxRecipes  int
	Preferences string
}

// RecipeSuggestionDTO receta sugerida por el modelo.
type RecipeSuggestionDTO struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
	UsesExpiring []string `json:"uses_expiring"`
}

// NutritionRequest valores por 100 g.
type NutritionRequest struct {
	Calories         decimal.Decimal `json:"calories"`
	Protein          decimal.Decimal `json:"protein"`
	Carbohydrates    decimal.Decimal `json:"carbohydrates"`
	Fat              decimal.Decimal `json:"fat"`
	Fiber            decimal.Decimal `json:"fiber"`
	Sugar            decimal.Decimal `json:"sugar"`
	Sodium           decimal.Decimal `json:"sodium"`
	ServingSizeGrams decimal.Decimal `json:"serving_size_grams"`
}

// NutritionResponse valores por 100 g de un producto.
type NutritionResponse struct {
	ProductID        string          `json:"product_id,omitempty"`
	Calories         decimal.Decimal `json:"calories"`
	Protein          decimal.Decimal `json:"protein"`
	Carbohydrates    decimal.Decimal `json:"carbohydrates"`
	Fat              decimal.Decimal `json:"fat"`
	Fiber            decimal.Decimal `json:"fiber"`
	Sugar            decimal.Decimal `json:"sugar"`
	Sodium           decimal.Decimal `json:"sodium"`
	ServingSizeGrams decimal.Decimal `json:"serving_size_grams"`
	Source           string          `json:"source,omitempty"`
}

// NutritionTotalsDTO totales nutricionales de un conjunto de comidas.
type NutritionTotalsDTO struct {
	Calories      decimal.Decimal `json:"calories"`
	Protein       decimal.Decimal `json:"protein"`
	Carbohydrates decimal.Decimal `json:"carbohydrates"`
	Fat           decimal.Decimal `json:"fat"`
	Fiber         decimal.Decimal `json:"fiber"`
	Sugar         decimal.Decimal `json:"sugar"`
	Sodium        decimal.Decimal `json:"sodium"`
}

// MealPlanNutritionDTO resumen nutricional del plan en un rango de fechas.
type MealPlanNutritionDTO struct {
	From        string                        `json:"from"`
	To          string                        `json:"to"`
	Totals      NutritionTotalsDTO            `json:"totals"`
	ByDate      map[string]NutritionTotalsDTO `json:"by_date"`
	MissingData []string                      `json:"missing_data,omitempty"` // ingredientes sin datos
	GeneratedAt time.Time                     `json:"generated_at"`
}
