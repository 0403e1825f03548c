// Package mealplan planificación de comidas: CRUD, faltantes contra la despensa,
// importación de recetas web e ideas de recetas con el modelo de lenguaje.
package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase casos de uso del plan de comidas.
type UseCase struct {
	meals    repository.MealPlanRepository
	products repository.ProductRepository
	items    repository.InventoryItemRepository
	lists    repository.ShoppingListRepository
	clipper  ports.RecipeClipper
	advisor  ports.RecipeAdvisor
	timeout  time.Duration
	now      func() time.Time
}

// NewUseCase construye el caso de uso. clipper y advisor pueden ser nil (funciones deshabilitadas).
func NewUseCase(
	meals repository.MealPlanRepository,
	products repository.ProductRepository,
	items repository.InventoryItemRepository,
	lists repository.ShoppingListRepository,
	clipper ports.RecipeClipper,
	advisor ports.RecipeAdvisor,
) *UseCase {
	return &UseCase{
		meals:    meals,
		products: products,
		items:    items,
		lists:    lists,
		clipper:  clipper,
		advisor:  advisor,
		timeout:  10 * time.Second,
		now:      time.Now,
	}
}

// WithAdvisorTimeout cambia el tiempo máximo de espera del modelo de lenguaje.
func (uc *UseCase) WithAdvisorTimeout(d time.Duration) *UseCase {
	if d > 0 {
		uc.timeout = d
	}
	return uc
}

// Create agenda una comida.
func (uc *UseCase) Create(ctx context.Context, householdID string, req dto.MealPlanRequest) (*dto.MealPlanResponse, error) {
	now := uc.now()
	m := &entity.MealPlan{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		CreatedAt:   now,
	}
	if err := uc.apply(ctx, m, req, now); err != nil {
		return nil, err
	}
	if err := uc.meals.Create(ctx, m); err != nil {
		return nil, err
	}
	res := toResponse(m)
	return &res, nil
}

// Get comida con ingredientes.
func (uc *UseCase) Get(ctx context.Context, householdID, id string) (*dto.MealPlanResponse, error) {
	m, err := uc.load(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	res := toResponse(m)
	return &res, nil
}

// Update reemplaza la comida y sus ingredientes.
func (uc *UseCase) Update(ctx context.Context, householdID, id string, req dto.MealPlanRequest) (*dto.MealPlanResponse, error) {
	m, err := uc.load(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, m, req, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.meals.Update(ctx, m); err != nil {
		return nil, err
	}
	res := toResponse(m)
	return &res, nil
}

// Delete elimina la comida.
func (uc *UseCase) Delete(ctx context.Context, householdID, id string) error {
	if _, err := uc.load(ctx, householdID, id); err != nil {
		return err
	}
	return uc.meals.Delete(ctx, householdID, id)
}

// List comidas entre from y to (YYYY-MM-DD, inclusive).
func (uc *UseCase) List(ctx context.Context, householdID, from, to string) ([]dto.MealPlanResponse, error) {
	f, t, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	meals, err := uc.meals.ListByRange(ctx, householdID, f, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MealPlanResponse, 0, len(meals))
	for _, m := range meals {
		out = append(out, toResponse(m))
	}
	return out, nil
}

func (uc *UseCase) load(ctx context.Context, householdID, id string) (*entity.MealPlan, error) {
	m, err := uc.meals.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// apply copia la solicitud a m. Los ingredientes con producto toman nombre y unidad del producto
// cuando vienen vacíos; cantidad 0 equivale a 1.
func (uc *UseCase) apply(ctx context.Context, m *entity.MealPlan, req dto.MealPlanRequest, now time.Time) error {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return fmt.Errorf("date inválida: %w", domain.ErrInvalidInput)
	}
	servings := req.Servings
	if servings <= 0 {
		servings = 1
	}

	var ids []string
	for _, in := range req.Ingredients {
		if in.ProductID != "" {
			ids = append(ids, in.ProductID)
		}
	}
	products := map[string]*entity.Product{}
	if len(ids) > 0 {
		list, err := uc.products.ListByIDs(ctx, m.HouseholdID, ids)
		if err != nil {
			return err
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}

	ingredients := make([]entity.MealIngredient, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		if in.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
		ing := entity.MealIngredient{
			ID:         uuid.New().String(),
			MealPlanID: m.ID,
			ProductID:  in.ProductID,
			Name:       strings.TrimSpace(in.Name),
			Quantity:   in.Quantity,
			Unit:       strings.ToLower(strings.TrimSpace(in.Unit)),
		}
		if ing.Quantity.IsZero() {
			ing.Quantity = decimal.NewFromInt(1)
		}
		if in.ProductID != "" {
			p, ok := products[in.ProductID]
			if !ok {
				return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
			}
			if ing.Name == "" {
				ing.Name = p.Name
			}
			if ing.Unit == "" {
				ing.Unit = p.DefaultUnit
			}
		}
		if ing.Name == "" {
			return domain.ErrInvalidInput
		}
		if ing.Unit == "" {
			ing.Unit = "unit"
		}
		ingredients = append(ingredients, ing)
	}

	m.Date = date
	m.MealType = req.MealType
	m.Title = strings.TrimSpace(req.Title)
	m.Servings = servings
	m.Notes = req.Notes
	m.SourceURL = req.SourceURL
	m.Ingredients = ingredients
	m.UpdatedAt = now
	return nil
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from inválido: %w", domain.ErrInvalidInput)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to inválido: %w", domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to anterior a from: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func toResponse(m *entity.MealPlan) dto.MealPlanResponse {
	res := dto.MealPlanResponse{
		ID:          m.ID,
		Date:        m.Date.Format(dateLayout),
		MealType:    m.MealType,
		Title:       m.Title,
		Servings:    m.Servings,
		Notes:       m.Notes,
		SourceURL:   m.SourceURL,
		Ingredients: make([]dto.MealIngredientResponse, 0, len(m.Ingredients)),
	}
	for _, in := range m.Ingredients {
		res.Ingredients = append(res.Ingredients, dto.MealIngredientResponse{
			ProductID: in.ProductID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
		})
	}
	return res
}
