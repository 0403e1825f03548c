package mealplan

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const (
	defaultMaxRecipes = 3
	// expiringWindow ingredientes que vencen dentro de esta ventana se priorizan en el prompt.
	expiringWindow = 3 * 24 * time.Hour
)

// ClipRecipe importa una receta desde una URL. Si se indica fecha, la agenda como comida
// con los ingredientes en texto libre.
func (uc *UseCase) ClipRecipe(ctx context.Context, householdID string, req dto.ClipRecipeRequest) (*dto.ClipRecipeResponse, error) {
	if uc.clipper == nil {
		return nil, domain.ErrExternalService
	}
	recipe, err := uc.clipper.Clip(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("importar receta: %w", err)
	}
	res := &dto.ClipRecipeResponse{Recipe: *recipe}
	if req.Date == "" {
		return res, nil
	}

	mealType := req.MealType
	if mealType == "" {
		mealType = entity.MealDinner
	}
	plan := dto.MealPlanRequest{
		Date:      req.Date,
		MealType:  mealType,
		Title:     recipe.Title,
		Servings:  recipe.Servings,
		SourceURL: recipe.SourceURL,
	}
	for _, line := range recipe.Ingredients {
		plan.Ingredients = append(plan.Ingredients, dto.MealIngredientRequest{Name: line})
	}
	meal, err := uc.Create(ctx, householdID, plan)
	if err != nil {
		return nil, err
	}
	res.MealPlan = meal
	return res, nil
}

// SuggestRecipes pide al modelo ideas de recetas con lo que hay en la despensa, priorizando
// lo que vence pronto. Timeout de 10 s por llamada.
func (uc *UseCase) SuggestRecipes(ctx context.Context, householdID string, req dto.RecipeSuggestionRequest) ([]dto.RecipeSuggestionDTO, error) {
	if uc.advisor == nil {
		return nil, domain.ErrExternalService
	}
	prompt, err := uc.buildPrompt(ctx, householdID, req)
	if err != nil {
		return nil, err
	}
	if len(prompt.OnHand) == 0 {
		return []dto.RecipeSuggestionDTO{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	out, err := uc.advisor.SuggestRecipes(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("sugerir recetas: %w", err)
	}
	if len(out) > prompt.MaxRecipes {
		out = out[:prompt.MaxRecipes]
	}
	return out, nil
}

// buildPrompt nombres de productos en existencia; los que vencen pronto van primero y aparte.
func (uc *UseCase) buildPrompt(ctx context.Context, householdID string, req dto.RecipeSuggestionRequest) (dto.RecipePrompt, error) {
	prompt := dto.RecipePrompt{MaxRecipes: req.MaxRecipes, Preferences: req.Preferences}
	if prompt.MaxRecipes <= 0 {
		prompt.MaxRecipes = defaultMaxRecipes
	}

	now := uc.now()
	expiring, err := uc.items.ListExpiringBefore(ctx, householdID, now.Add(expiringWindow))
	if err != nil {
		return prompt, err
	}
	inStock, err := uc.items.List(ctx, householdID, repository.InventoryItemFilter{InStockOnly: true})
	if err != nil {
		return prompt, err
	}

	ids := map[string]bool{}
	for _, it := range inStock {
		if it.ExpiresAt != nil && it.ExpiresAt.Before(now) {
			continue
		}
		ids[it.ProductID] = true
	}
	productIDs := make([]string, 0, len(ids))
	for id := range ids {
		productIDs = append(productIDs, id)
	}
	names := map[string]string{}
	if len(productIDs) > 0 {
		products, err := uc.products.ListByIDs(ctx, householdID, productIDs)
		if err != nil {
			return prompt, err
		}
		for _, p := range products {
			names[p.ID] = p.Name
		}
	}

	seen := map[string]bool{}
	for _, it := range expiring {
		// los vencidos ya no se sugieren
		if it.ExpiresAt != nil && it.ExpiresAt.Before(now) {
			continue
		}
		name, ok := names[it.ProductID]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		prompt.Expiring = append(prompt.Expiring, name)
		prompt.OnHand = append(prompt.OnHand, name)
	}
	var rest []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	prompt.OnHand = append(prompt.OnHand, rest...)
	return prompt, nil
}
