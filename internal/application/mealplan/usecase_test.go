package mealplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/internal/testutil/mocks"
)

const hh = "hogar-1"

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	s       *memstore.Store
	clipper *mocks.MockRecipeClipper
	advisor *mocks.MockRecipeAdvisor
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	f := &fixture{s: s, clipper: new(mocks.MockRecipeClipper), advisor: new(mocks.MockRecipeAdvisor)}
	f.uc = NewUseCase(s.MealPlans(), s.Products(), s.Items(), s.ShoppingLists(), f.clipper, f.advisor)
	f.uc.now = func() time.Time { return now }

	ctx := context.Background()
	for _, p := range []*entity.Product{
		{ID: "arroz", HouseholdID: hh, Name: "Arroz", DefaultUnit: "kg"},
		{ID: "tomate", HouseholdID: hh, Name: "Tomate", DefaultUnit: "unit"},
		{ID: "yogur", HouseholdID: hh, Name: "Yogur", DefaultUnit: "unit"},
		{ID: "leche", HouseholdID: hh, Name: "Leche", DefaultUnit: "l"},
	} {
		require.NoError(t, s.Products().Create(ctx, p))
	}
	require.NoError(t, s.ShoppingLists().Create(ctx, &entity.ShoppingList{ID: "lista", HouseholdID: hh, Name: "Semana", Status: entity.ShoppingListActive}))
	return f
}

func (f *fixture) stock(t *testing.T, id, productID, qty string, expires *time.Time) {
	t.Helper()
	require.NoError(t, f.s.Items().Create(context.Background(), &entity.InventoryItem{
		ID: id, HouseholdID: hh, ProductID: productID, LocationID: "despensa",
		Quantity: dec(qty), PurchasedAt: now, ExpiresAt: expires,
	}))
}

func ptr(t time.Time) *time.Time { return &t }

func TestCreate_CompletaIngredientesDesdeProducto(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Create(context.Background(), hh, dto.MealPlanRequest{
		Date:     "2025-06-16",
		MealType: entity.MealLunch,
		Title:    "Arroz con tomate",
		Ingredients: []dto.MealIngredientRequest{
			{ProductID: "arroz", Quantity: dec("500"), Unit: "g"},
			{ProductID: "tomate"},
			{Name: "Cilantro", Unit: "bunch"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", res.Date)
	assert.Equal(t, 1, res.Servings)
	require.Len(t, res.Ingredients, 3)
	assert.Equal(t, "Arroz", res.Ingredients[0].Name)
	assert.Equal(t, "g", res.Ingredients[0].Unit)
	assert.Equal(t, "unit", res.Ingredients[1].Unit)
	assert.True(t, dec("1").Equal(res.Ingredients[1].Quantity), "cantidad 0 equivale a 1")

	_, err = f.uc.Create(context.Background(), hh, dto.MealPlanRequest{
		Date: "2025-06-16", MealType: entity.MealLunch, Title: "x",
		Ingredients: []dto.MealIngredientRequest{{ProductID: "no-existe"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(context.Background(), hh, dto.MealPlanRequest{Date: "16/06/2025", MealType: entity.MealLunch, Title: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.uc.Create(ctx, hh, dto.MealPlanRequest{Date: "2025-06-16", MealType: entity.MealDinner, Title: "Sopa"})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, hh, dto.MealPlanRequest{Date: "2025-06-20", MealType: entity.MealDinner, Title: "Pasta"})
	require.NoError(t, err)

	got, err := f.uc.List(ctx, hh, "2025-06-16", "2025-06-18")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sopa", got[0].Title)

	upd, err := f.uc.Update(ctx, hh, a.ID, dto.MealPlanRequest{Date: "2025-06-17", MealType: entity.MealLunch, Title: "Sopa de pollo", Servings: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, upd.Servings)
	assert.Equal(t, "2025-06-17", upd.Date)

	require.NoError(t, f.uc.Delete(ctx, hh, a.ID))
	_, err = f.uc.Get(ctx, hh, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, hh, a.ID), domain.ErrNotFound)

	_, err = f.uc.List(ctx, hh, "2025-06-20", "2025-06-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShortfallToShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "it-arroz", "arroz", "0.5", nil)
	f.stock(t, "it-tomate", "tomate", "10", nil)

	_, err := f.uc.Create(ctx, hh, dto.MealPlanRequest{
		Date: "2025-06-16", MealType: entity.MealLunch, Title: "Arroz con tomate",
		Ingredients: []dto.MealIngredientRequest{
			{ProductID: "arroz", Quantity: dec("400"), Unit: "g"},
			{ProductID: "tomate", Quantity: dec("3")},
			{Name: "Cilantro", Quantity: dec("1"), Unit: "bunch"},
		},
	})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, hh, dto.MealPlanRequest{
		Date: "2025-06-17", MealType: entity.MealLunch, Title: "Arroz",
		Ingredients: []dto.MealIngredientRequest{
			{ProductID: "arroz", Quantity: dec("0.3"), Unit: "kg"},
			{ProductID: "leche", Quantity: dec("2"), Unit: "cup"},
			{Name: "cilantro", Quantity: dec("1"), Unit: "bunch"},
		},
	})
	require.NoError(t, err)

	res, err := f.uc.ShortfallToShoppingList(ctx, hh, dto.ShortfallRequest{From: "2025-06-16", To: "2025-06-17", ListID: "lista"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Covered, "tomate alcanza")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipUnitMismatch, res.Skipped[0].Reason)

	require.Len(t, res.Added, 2)
	byName := map[string]dto.ShortfallDTO{}
	for _, a := range res.Added {
		byName[a.Name] = a
	}
	arroz := byName["Arroz"]
	assert.True(t, dec("0.7").Equal(arroz.Needed))
	assert.True(t, dec("0.2").Equal(arroz.Missing))
	assert.Equal(t, "kg", arroz.Unit)
	assert.True(t, dec("2").Equal(byName["Cilantro"].Missing))

	list, err := f.s.ShoppingLists().GetByID(ctx, hh, "lista")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	for _, it := range list.Items {
		assert.Equal(t, entity.ItemSourceMealPlan, it.Source)
	}
}

func TestShortfallToShoppingList_NoReportaLoYaPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.ShoppingLists().AddItem(ctx, &entity.ShoppingListItem{
		ID: "pendiente", ListID: "lista", ProductID: "arroz", Name: "Arroz",
		Quantity: dec("1"), Unit: "kg", Source: entity.ItemSourceManual,
	}))
	// el tomate vencido no cubre la receta
	f.stock(t, "it-tomate", "tomate", "10", ptr(now.AddDate(0, 0, -2)))

	_, err := f.uc.Create(ctx, hh, dto.MealPlanRequest{
		Date: "2025-06-16", MealType: entity.MealDinner, Title: "Arroz con tomate",
		Ingredients: []dto.MealIngredientRequest{
			{ProductID: "arroz", Quantity: dec("0.5"), Unit: "kg"},
			{ProductID: "tomate", Quantity: dec("2")},
		},
	})
	require.NoError(t, err)

	res, err := f.uc.ShortfallToShoppingList(ctx, hh, dto.ShortfallRequest{From: "2025-06-16", To: "2025-06-16", ListID: "lista"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Covered)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "tomate", res.Added[0].ProductID)
	assert.True(t, decimal.Zero.Equal(res.Added[0].OnHand))
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Arroz", res.Skipped[0].Ref)
	assert.Equal(t, SkipAlreadyPending, res.Skipped[0].Reason)

	list, err := f.s.ShoppingLists().GetByID(ctx, hh, "lista")
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestClipRecipe_AgendaCuandoHayFecha(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipe := &dto.ClippedRecipe{
		Title:       "Ajiaco",
		SourceURL:   "https://recetas.example/ajiaco",
		Servings:    6,
		Ingredients: []string{"1 pollo", "3 mazorcas", "guascas"},
	}
	f.clipper.On("Clip", mock.Anything, "https://recetas.example/ajiaco").Return(recipe, nil)

	res, err := f.uc.ClipRecipe(ctx, hh, dto.ClipRecipeRequest{URL: "https://recetas.example/ajiaco"})
	require.NoError(t, err)
	assert.Nil(t, res.MealPlan)

	res, err = f.uc.ClipRecipe(ctx, hh, dto.ClipRecipeRequest{URL: "https://recetas.example/ajiaco", Date: "2025-06-21"})
	require.NoError(t, err)
	require.NotNil(t, res.MealPlan)
	assert.Equal(t, entity.MealDinner, res.MealPlan.MealType)
	assert.Equal(t, 6, res.MealPlan.Servings)
	assert.Len(t, res.MealPlan.Ingredients, 3)
	assert.Equal(t, "https://recetas.example/ajiaco", res.MealPlan.SourceURL)
	f.clipper.AssertExpectations(t)
}

func TestClipRecipe_SinClipper(t *testing.T) {
	s := memstore.New()
	uc := NewUseCase(s.MealPlans(), s.Products(), s.Items(), s.ShoppingLists(), nil, nil)
	_, err := uc.ClipRecipe(context.Background(), hh, dto.ClipRecipeRequest{URL: "https://x.example"})
	assert.ErrorIs(t, err, domain.ErrExternalService)
	_, err = uc.SuggestRecipes(context.Background(), hh, dto.RecipeSuggestionRequest{})
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestSuggestRecipes_PriorizaLoQueVence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "it-arroz", "arroz", "1", nil)
	f.stock(t, "it-tomate", "tomate", "4", ptr(now.AddDate(0, 0, 10)))
	f.stock(t, "it-yogur", "yogur", "2", ptr(now.AddDate(0, 0, 1)))
	f.stock(t, "it-leche", "leche", "1", ptr(now.AddDate(0, 0, -1)))

	want := dto.RecipePrompt{
		Expiring:   []string{"Yogur"},
		OnHand:     []string{"Yogur", "Arroz", "Tomate"},
		MaxRecipes: 2,
	}
	suggestions := []dto.RecipeSuggestionDTO{
		{Title: "Batido", UsesExpiring: []string{"Yogur"}},
		{Title: "Arroz con tomate"},
		{Title: "Extra"},
	}
	f.advisor.On("SuggestRecipes", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), want).Return(suggestions, nil).Once()

	got, err := f.uc.SuggestRecipes(ctx, hh, dto.RecipeSuggestionRequest{MaxRecipes: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	f.advisor.AssertExpectations(t)
}

func TestSuggestRecipes_DespensaVaciaNoLlamaAlModelo(t *testing.T) {
	f := newFixture(t)
	got, err := f.uc.SuggestRecipes(context.Background(), hh, dto.RecipeSuggestionRequest{})
	require.NoError(t, err)
	assert.Empty(t, got)
	f.advisor.AssertNotCalled(t, "SuggestRecipes", mock.Anything, mock.Anything)
}

func TestSuggestRecipes_ErrorDelModelo(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "it-arroz", "arroz", "1", nil)
	f.advisor.On("SuggestRecipes", mock.Anything, mock.Anything).Return(nil, domain.ErrExternalService)

	_, err := f.uc.SuggestRecipes(context.Background(), hh, dto.RecipeSuggestionRequest{})
	assert.True(t, errors.Is(err, domain.ErrExternalService))
}
