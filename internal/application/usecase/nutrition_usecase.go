package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// NutritionUseCase información nutricional por producto y resumen del plan de comidas.
type NutritionUseCase struct {
	repo     repository.NutritionRepository
	products repository.ProductRepository
	meals    repository.MealPlanRepository
}

// NewNutritionUseCase construye el caso de uso.
func NewNutritionUseCase(
	repo repository.NutritionRepository,
	products repository.ProductRepository,
	meals repository.MealPlanRepository,
) *NutritionUseCase {
	return &NutritionUseCase{repo: repo, products: products, meals: meals}
}

// Upsert guarda los valores por 100 g de un producto.
func (uc *NutritionUseCase) Upsert(ctx context.Context, householdID, productID string, in dto.NutritionRequest) (*dto.NutritionResponse, error) {
	product, err := uc.products.GetByID(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	for _, v := range []decimal.Decimal{in.Calories, in.Protein, in.Carbohydrates, in.Fat, in.Fiber, in.Sugar, in.Sodium, in.ServingSizeGrams} {
		if v.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	n := &entity.NutritionEntry{
		ProductID:        productID,
		HouseholdID:      householdID,
		Calories:         in.Calories,
		Protein:          in.Protein,
		Carbohydrates:    in.Carbohydrates,
		Fat:              in.Fat,
		Fiber:            in.Fiber,
		Sugar:            in.Sugar,
		Sodium:           in.Sodium,
		ServingSizeGrams: in.ServingSizeGrams,
		Source:           "manual",
		UpdatedAt:        time.Now(),
	}
	if err := uc.repo.Upsert(ctx, n); err != nil {
		return nil, err
	}
	return toNutritionResponse(n), nil
}

// Get devuelve la información nutricional de un producto.
func (uc *NutritionUseCase) Get(ctx context.Context, householdID, productID string) (*dto.NutritionResponse, error) {
	n, err := uc.repo.GetByProduct(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return toNutritionResponse(n), nil
}

// SummarizeMealPlan suma los aportes de los ingredientes del plan en [from, to] (fechas inclusive).
// Los valores por 100 g se escalan por los gramos del ingrediente; sin unidad de masa/volumen
// se usa la porción de referencia. Ingredientes sin datos se listan en MissingData.
func (uc *NutritionUseCase) SummarizeMealPlan(ctx context.Context, householdID string, from, to time.Time) (*dto.MealPlanNutritionDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	meals, err := uc.meals.ListByRange(ctx, householdID, from, to)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	seen := map[string]bool{}
	for _, m := range meals {
		for _, ing := range m.Ingredients {
			if ing.ProductID != "" && !seen[ing.ProductID] {
				seen[ing.ProductID] = true
				ids = append(ids, ing.ProductID)
			}
		}
	}
	entries := map[string]*entity.NutritionEntry{}
	if len(ids) > 0 {
		entries, err = uc.repo.ListByProducts(ctx, householdID, ids)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.MealPlanNutritionDTO{
		From:        from.Format(dateLayout),
		To:          to.Format(dateLayout),
		ByDate:      map[string]dto.NutritionTotalsDTO{},
		GeneratedAt: time.Now(),
	}
	missing := map[string]bool{}
	for _, m := range meals {
		key := m.Date.Format(dateLayout)
		day := out.ByDate[key]
		for _, ing := range m.Ingredients {
			n := entries[ing.ProductID]
			grams, ok := ingredientGrams(ing, n)
			if n == nil || !ok {
				if !missing[ing.Name] {
					missing[ing.Name] = true
					out.MissingData = append(out.MissingData, ing.Name)
				}
				continue
			}
			factor := grams.Div(hundred)
			addScaled(&day, n, factor)
			addScaled(&out.Totals, n, factor)
		}
		out.ByDate[key] = day
	}
	roundTotals(&out.Totals)
	for k, v := range out.ByDate {
		roundTotals(&v)
		out.ByDate[k] = v
	}
	return out, nil
}

// ingredientGrams convierte la cantidad del ingrediente a gramos (ml se toma como g).
func ingredientGrams(ing entity.MealIngredient, n *entity.NutritionEntry) (decimal.Decimal, bool) {
	switch ing.Unit {
	case "g", "ml":
		return ing.Quantity, true
	case "kg", "l":
		return ing.Quantity.Mul(decimal.NewFromInt(1000)), true
	}
	if n == nil || !n.ServingSizeGrams.IsPositive() {
		return decimal.Zero, false
	}
	qty := ing.Quantity
	if ing.Unit == "dozen" {
		qty = qty.Mul(decimal.NewFromInt(12))
	}
	return qty.Mul(n.ServingSizeGrams), true
}

func addScaled(t *dto.NutritionTotalsDTO, n *entity.NutritionEntry, factor decimal.Decimal) {
	t.Calories = t.Calories.Add(n.Calories.Mul(factor))
	t.Protein = t.Protein.Add(n.Protein.Mul(factor))
	t.Carbohydrates = t.Carbohydrates.Add(n.Carbohydrates.Mul(factor))
	t.Fat = t.Fat.Add(n.Fat.Mul(factor))
	t.Fiber = t.Fiber.Add(n.Fiber.Mul(factor))
	t.Sugar = t.Sugar.Add(n.Sugar.Mul(factor))
	t.Sodium = t.Sodium.Add(n.Sodium.Mul(factor))
}

func roundTotals(t *dto.NutritionTotalsDTO) {
	t.Calories = t.Calories.Round(1)
	t.Protein = t.Protein.Round(1)
	t.Carbohydrates = t.Carbohydrates.Round(1)
	t.Fat = t.Fat.Round(1)
	t.Fiber = t.Fiber.Round(1)
	t.Sugar = t.Sugar.Round(1)
	t.Sodium = t.Sodium.Round(1)
}

func toNutritionResponse(n *entity.NutritionEntry) *dto.NutritionResponse {
	return &dto.NutritionResponse{
		ProductID:        n.ProductID,
		Calories:         n.Calories,
		Protein:          n.Protein,
		Carbohydrates:    n.Carbohydrates,
		Fat:              n.Fat,
		Fiber:            n.Fiber,
		Sugar:            n.Sugar,
		Sodium:           n.Sodium,
		ServingSizeGrams: n.ServingSizeGrams,
		Source:           n.Source,
	}
}
