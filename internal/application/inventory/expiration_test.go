package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

func seedExpiring(t *testing.T) *fixture {
	f := newFixture(t)
	now := time.Now()
	f.product(t, "yogur", "Yogur", "dairy")
	f.product(t, "queso", "Queso", "cheese")
	f.product(t, "pan", "Pan", "bread")
	f.item(t, "y1", "yogur", f.fridge.ID, "2", "1500", ptrTime(now.Add(49*time.Hour)))
	f.item(t, "q1", "queso", f.fridge.ID, "1", "8000", ptrTime(now.AddDate(0, 0, 10)))
	f.item(t, "p1", "pan", f.pantry.ID, "3", "500", ptrTime(now.Add(-24*time.Hour)))
	f.item(t, "p0", "pan", f.pantry.ID, "0", "500", ptrTime(now.Add(-48*time.Hour)))
	return f
}

func TestListExpiring(t *testing.T) {
	f := seedExpiring(t)
	uc := inventory.NewExpirationUseCase(f.store.Items(), f.store.Products())

	got, err := uc.ListExpiring(context.Background(), hh, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "y1", got[0].ItemID)
	assert.Equal(t, "Yogur", got[0].ProductName)
	assert.Equal(t, 2, got[0].DaysLeft)
	assert.Equal(t, entity.StockStatusExpiringSoon, got[0].Status)
	assert.True(t, dec("3000").Equal(got[0].EstimatedLoss))

	got, err = uc.ListExpiring(context.Background(), hh, 15)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = uc.ListExpiring(context.Background(), hh, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListExpired_IgnoraLotesSinExistencias(t *testing.T) {
	f := seedExpiring(t)
	uc := inventory.NewExpirationUseCase(f.store.Items(), f.store.Products())

	got, err := uc.ListExpired(context.Background(), hh)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ItemID)
	assert.Equal(t, entity.StockStatusExpired, got[0].Status)
	assert.True(t, got[0].DaysLeft < 0)
}

func TestItemUseCase_ListFiltraPorEstado(t *testing.T) {
	f := seedExpiring(t)
	f.product(t, "huevos", "Huevos", "eggs", staple("12", ""))
	f.item(t, "h1", "huevos", f.fridge.ID, "4", "500", nil)
	f.item(t, "h2", "huevos", f.fridge.ID, "6", "500", nil)
	uc := inventory.NewItemUseCase(f.store.Items(), f.store.Movements(), f.store.Products())

	low, err := uc.List(context.Background(), hh, dto.InventoryItemFilter{Status: entity.StockStatusLowStock})
	require.NoError(t, err)
	assert.Len(t, low, 2)

	expired, err := uc.List(context.Background(), hh, dto.InventoryItemFilter{Status: entity.StockStatusExpired})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "p1", expired[0].ID)

	fridge, err := uc.List(context.Background(), hh, dto.InventoryItemFilter{LocationID: f.fridge.ID})
	require.NoError(t, err)
	assert.Len(t, fridge, 4)
}

func TestItemUseCase_LoteVencidoNoCubreElMinimo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "arroz", "Arroz", "dry goods", staple("4", ""))
	f.item(t, "a-fresco", "arroz", f.pantry.ID, "3", "3000", nil)
	f.item(t, "a-vencido", "arroz", f.pantry.ID, "5", "3000", ptrTime(time.Now().AddDate(0, 0, -10)))
	uc := inventory.NewItemUseCase(f.store.Items(), f.store.Movements(), f.store.Products())

	low, err := uc.List(context.Background(), hh, dto.InventoryItemFilter{Status: entity.StockStatusLowStock})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "a-fresco", low[0].ID)

	got, err := uc.Get(context.Background(), hh, "a-fresco")
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusLowStock, got.Status)
}

func TestItemUseCase_GetYMarkOpened(t *testing.T) {
	f := seedExpiring(t)
	uc := inventory.NewItemUseCase(f.store.Items(), f.store.Movements(), f.store.Products())

	_, err := uc.Get(context.Background(), hh, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.MarkOpened(context.Background(), hh, "q1")
	require.NoError(t, err)
	assert.NotNil(t, got.OpenedAt)
	assert.Equal(t, "Queso", got.ProductName)
	require.NotNil(t, got.DaysUntilExpiry)
	assert.Equal(t, 9, *got.DaysUntilExpiry)
}
