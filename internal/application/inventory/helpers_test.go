package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
)

const hh = "hogar-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store   *memstore.Store
	pantry  *entity.StorageLocation
	fridge  *entity.StorageLocation
	freezer *entity.StorageLocation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memstore.New()}
	f.pantry = f.location(t, "Alacena", entity.LocationPantry)
	f.fridge = f.location(t, "Nevera", entity.LocationFridge)
	f.freezer = f.location(t, "Congelador", entity.LocationFreezer)
	return f
}

func (f *fixture) location(t *testing.T, name, kind string) *entity.StorageLocation {
	t.Helper()
	l := &entity.StorageLocation{ID: "loc-" + kind, HouseholdID: hh, Name: name, Kind: kind}
	require.NoError(t, f.store.Locations().Create(context.Background(), l))
	return l
}

func (f *fixture) product(t *testing.T, id, name, category string, mut ...func(*entity.Product)) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: id, HouseholdID: hh, Name: name, Category: category, DefaultUnit: "unit"}
	for _, m := range mut {
		m(p)
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) item(t *testing.T, id, productID, locationID, qty, cost string, expires *time.Time) *entity.InventoryItem {
	t.Helper()
	it := &entity.InventoryItem{
		ID:          id,
		HouseholdID: hh,
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    dec(qty),
		Unit:        "unit",
		UnitCost:    dec(cost),
		PurchasedAt: time.Now(),
		ExpiresAt:   expires,
	}
	require.NoError(t, f.store.Items().Create(context.Background(), it))
	return it
}

func (f *fixture) activeList(t *testing.T, id string) *entity.ShoppingList {
	t.Helper()
	l := &entity.ShoppingList{ID: id, HouseholdID: hh, Name: "Semana", Status: entity.ShoppingListActive}
	require.NoError(t, f.store.ShoppingLists().Create(context.Background(), l))
	return l
}

func staple(min, restock string) func(*entity.Product) {
	return func(p *entity.Product) {
		p.IsStaple = true
		p.MinQuantity = dec(min)
		if restock != "" {
			p.RestockQuantity = dec(restock)
		}
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
