package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
)

func TestLocationUseCase(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewLocationUseCase(store.Locations())
	ctx := context.Background()

	_, err := uc.Create(ctx, hh, dto.CreateLocationRequest{Name: "Sótano", Kind: "cellar"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	loc, err := uc.Create(ctx, hh, dto.CreateLocationRequest{Name: " Nevera ", Kind: entity.LocationFridge})
	require.NoError(t, err)
	assert.Equal(t, "Nevera", loc.Name)

	kind := entity.LocationFreezer
	got, err := uc.Update(ctx, hh, loc.ID, dto.UpdateLocationRequest{Kind: &kind})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationFreezer, got.Kind)

	list, err := uc.List(ctx, hh)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, hh, loc.ID))
	assert.ErrorIs(t, uc.Delete(ctx, hh, loc.ID), domain.ErrNotFound)
}

func TestStoreUseCase_NombreUnicoPorHogar(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewStoreUseCase(store.Stores())
	ctx := context.Background()

	exito, err := uc.Create(ctx, hh, dto.CreateStoreRequest{Name: "Éxito"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, hh, dto.CreateStoreRequest{Name: "éxito"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	d1, err := uc.Create(ctx, hh, dto.CreateStoreRequest{Name: "D1"})
	require.NoError(t, err)

	name := "Éxito"
	_, err = uc.Update(ctx, hh, d1.ID, dto.UpdateStoreRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	addr := "Calle 10"
	got, err := uc.Update(ctx, hh, exito.ID, dto.UpdateStoreRequest{Name: &name, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Calle 10", got.Address)
}

func TestNutritionUseCase_SummarizeMealPlan(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "avena", HouseholdID: hh, Name: "Avena"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "huevo", HouseholdID: hh, Name: "Huevo"}))
	uc := usecase.NewNutritionUseCase(store.Nutrition(), store.Products(), store.MealPlans())

	_, err := uc.Upsert(ctx, hh, "avena", dto.NutritionRequest{Calories: dec("380"), Protein: dec("13")})
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, hh, "huevo", dto.NutritionRequest{Calories: dec("155"), Protein: dec("13"), ServingSizeGrams: dec("50")})
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, hh, "nada", dto.NutritionRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d1 := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.MealPlans().Create(ctx, &entity.MealPlan{
		ID: "m1", HouseholdID: hh, Date: d1, MealType: entity.MealBreakfast, Title: "Desayuno",
		Ingredients: []entity.MealIngredient{
			{ID: "i1", ProductID: "avena", Name: "Avena", Quantity: dec("50"), Unit: "g"},
			{ID: "i2", ProductID: "huevo", Name: "Huevo", Quantity: dec("2"), Unit: "unit"},
			{ID: "i3", Name: "Canela", Quantity: dec("1"), Unit: "g"},
		},
	}))
	require.NoError(t, store.MealPlans().Create(ctx, &entity.MealPlan{
		ID: "m2", HouseholdID: hh, Date: d1.AddDate(0, 0, 1), MealType: entity.MealLunch, Title: "Almuerzo",
		Ingredients: []entity.MealIngredient{
			{ID: "i4", ProductID: "avena", Name: "Avena", Quantity: dec("0.1"), Unit: "kg"},
		},
	}))

	got, err := uc.SummarizeMealPlan(ctx, hh, d1, d1.AddDate(0, 0, 1))
	require.NoError(t, err)
	// avena 50 g = 190 kcal, huevo 2 x 50 g = 155 kcal, avena 100 g = 380 kcal
	assert.True(t, dec("725").Equal(got.Totals.Calories), "calorías: %s", got.Totals.Calories)
	assert.True(t, dec("345").Equal(got.ByDate["2025-05-05"].Calories))
	assert.True(t, dec("380").Equal(got.ByDate["2025-05-06"].Calories))
	assert.Equal(t, []string{"Canela"}, got.MissingData)
	assert.Equal(t, "2025-05-05", got.From)

	_, err = uc.SummarizeMealPlan(ctx, hh, d1, d1.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHouseholdUseCase(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Households().Create(ctx, &entity.Household{ID: hh, Name: "Casa", Currency: "COP"}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", HouseholdID: hh, Email: "a@b.co", Role: entity.RoleOwner}))
	uc := usecase.NewHouseholdUseCase(store.Households(), store.Users())

	cur := "usd"
	got, err := uc.Update(ctx, hh, dto.UpdateHouseholdRequest{Currency: &cur})
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)

	members, err := uc.Members(ctx, hh)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "a@b.co", members[0].Email)

	users := usecase.NewUserUseCase(store.Users())
	_, err = users.GetByID(ctx, "hogar-2", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
