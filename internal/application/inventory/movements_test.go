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

func TestRegisterMovement_ADDEstimaVencimientoYCosto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "leche", "Leche entera", "dairy", func(p *entity.Product) { p.AverageCost = dec("4000") })
	f.item(t, "lote-previo", "leche", f.fridge.ID, "2", "4000", nil)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	date := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh,
		UserID:      "u1",
		Type:        entity.MovementTypeADD,
		ProductID:   "leche",
		LocationID:  f.fridge.ID,
		Quantity:    dec("2"),
		UnitCost:    dec("5000"),
		Date:        date,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	require.NotNil(t, item.ExpiresAt)
	assert.Equal(t, date.AddDate(0, 0, 7), *item.ExpiresAt)
	assert.Equal(t, "unit", item.Unit)

	p, err := f.store.Products().GetByID(context.Background(), hh, "leche")
	require.NoError(t, err)
	assert.True(t, dec("4500").Equal(p.AverageCost), "costo promedio ponderado: %s", p.AverageCost)

	movs := f.store.MovementsSnapshot()
	require.Len(t, movs, 1)
	assert.Equal(t, res.TransactionID, movs[0].TransactionID)
	assert.True(t, dec("2").Equal(movs[0].Quantity))
}

func TestRegisterMovement_ADDRespetaFechaExplicita(t *testing.T) {
	f := newFixture(t)
	f.product(t, "leche", "Leche entera", "dairy")
	uc := inventory.NewRegisterMovementUseCase(f.store)

	exp := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeADD, ProductID: "leche", LocationID: f.fridge.ID,
		Quantity: dec("1"), ExpiresAt: &exp,
	})
	require.NoError(t, err)
	assert.Equal(t, exp, *res.Items[0].ExpiresAt)
}

func TestRegisterMovement_ADDProductoInexistente(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeADD, ProductID: "nada", LocationID: f.pantry.ID, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	cases := []inventory.MovementInput{
		{HouseholdID: hh, Type: "SELL", ItemID: "x", Quantity: dec("1")},
		{HouseholdID: hh, Type: entity.MovementTypeADD, ProductID: "p", Quantity: dec("1")},
		{HouseholdID: hh, Type: entity.MovementTypeCONSUME, ItemID: "x", Quantity: dec("0")},
		{HouseholdID: hh, Type: entity.MovementTypeADJUST, ItemID: "x"},
		{HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "x", Quantity: dec("1")},
	}
	for _, in := range cases {
		_, err := uc.RegisterMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %s", in.Type)
	}
}

func TestRegisterMovement_CONSUMEStockInsuficienteHaceRollback(t *testing.T) {
	f := newFixture(t)
	f.product(t, "arroz", "Arroz", "dry goods")
	f.item(t, "lote", "arroz", f.pantry.ID, "1", "3000", nil)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeCONSUME, ItemID: "lote", Quantity: dec("2"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.store.MovementsSnapshot())

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeCONSUME, ItemID: "lote", Quantity: dec("0.25"),
	})
	require.NoError(t, err)
	assert.True(t, dec("0.75").Equal(res.Items[0].Quantity))
	movs := f.store.MovementsSnapshot()
	require.Len(t, movs, 1)
	assert.True(t, dec("-0.25").Equal(movs[0].Quantity))
	assert.True(t, dec("3000").Equal(movs[0].UnitCost))
}

func TestRegisterMovement_ADJUSTNoPuedeQuedarNegativo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "arroz", "Arroz", "dry goods")
	f.item(t, "lote", "arroz", f.pantry.ID, "1", "0", nil)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeADJUST, ItemID: "lote", Quantity: dec("-2"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeADJUST, ItemID: "lote", Quantity: dec("-1"),
	})
	require.NoError(t, err)
	assert.True(t, res.Items[0].Quantity.IsZero())
}

func TestRegisterMovement_MOVEParcialDivideLoteYReestimaEnCongelador(t *testing.T) {
	f := newFixture(t)
	f.product(t, "pollo", "Pechuga de pollo", "poultry")
	orig := time.Now().AddDate(0, 0, 2)
	f.item(t, "lote", "pollo", f.fridge.ID, "3", "9000", &orig)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	date := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.freezer.ID,
		Quantity: dec("1"), Date: date,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	source, moved := res.Items[0], res.Items[1]
	assert.True(t, dec("2").Equal(source.Quantity))
	assert.Equal(t, f.fridge.ID, source.LocationID)
	assert.Equal(t, orig, *source.ExpiresAt)

	assert.NotEqual(t, "lote", moved.ID)
	assert.Equal(t, f.freezer.ID, moved.LocationID)
	assert.True(t, dec("1").Equal(moved.Quantity))
	assert.True(t, dec("9000").Equal(moved.UnitCost))
	assert.Equal(t, date.AddDate(0, 0, 270), *moved.ExpiresAt)

	movs := f.store.MovementsSnapshot()
	require.Len(t, movs, 2)
	assert.Equal(t, movs[0].TransactionID, movs[1].TransactionID)
	assert.True(t, dec("-1").Equal(movs[0].Quantity))
	assert.Equal(t, f.fridge.ID, movs[0].LocationID)
	assert.True(t, dec("1").Equal(movs[1].Quantity))
	assert.Equal(t, f.freezer.ID, movs[1].LocationID)
}

func TestRegisterMovement_MOVEFueraDelCongeladorReestimaParaElDestino(t *testing.T) {
	f := newFixture(t)
	f.product(t, "pollo", "Pechuga de pollo", "poultry")
	congelado := time.Now().AddDate(0, 0, 200)
	f.item(t, "lote", "pollo", f.freezer.ID, "2", "9000", &congelado)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	date := time.Now().Truncate(time.Second)
	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.fridge.ID,
		Quantity: dec("2"), Date: date,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	thawed := res.Items[0]
	assert.Equal(t, f.fridge.ID, thawed.LocationID)
	require.NotNil(t, thawed.ExpiresAt)
	assert.Equal(t, date.AddDate(0, 0, 2), *thawed.ExpiresAt)

	// fuera del congelador no cambia la fecha
	res, err = uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.pantry.ID,
		Quantity: dec("2"), Date: date.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, date.AddDate(0, 0, 2), *res.Items[0].ExpiresAt)
}

func TestRegisterMovement_MOVESalidaDelCongeladorNoExtiendeElVencimiento(t *testing.T) {
	f := newFixture(t)
	f.product(t, "carne", "Carne molida", "meat")
	casi := time.Now().Add(36 * time.Hour).Truncate(time.Second)
	f.item(t, "lote", "carne", f.freezer.ID, "1", "12000", &casi)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.fridge.ID,
		Quantity: dec("1"), Date: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, casi, *res.Items[0].ExpiresAt)
}

func TestRegisterMovement_MOVETotalTrasladaElLote(t *testing.T) {
	f := newFixture(t)
	f.product(t, "arroz", "Arroz", "dry goods")
	f.item(t, "lote", "arroz", f.pantry.ID, "2", "0", nil)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.fridge.ID, Quantity: dec("2"),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "lote", res.Items[0].ID)
	assert.Equal(t, f.fridge.ID, res.Items[0].LocationID)

	_, err = uc.RegisterMovement(context.Background(), inventory.MovementInput{
		HouseholdID: hh, Type: entity.MovementTypeMOVE, ItemID: "lote", ToLocationID: f.fridge.ID, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "misma ubicación")
}

func TestRegisterMovementFromRequest(t *testing.T) {
	f := newFixture(t)
	f.product(t, "arroz", "Arroz", "dry goods")
	uc := inventory.NewRegisterMovementUseCase(f.store)

	out, err := uc.RegisterMovementFromRequest(context.Background(), hh, "u1", dto.RegisterMovementRequest{
		Type: entity.MovementTypeADD, ProductID: "arroz", LocationID: f.pantry.ID, Quantity: dec("1"), Unit: "kg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.TransactionID)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "kg", out.Items[0].Unit)
	assert.Equal(t, entity.StockStatusInStock, out.Items[0].Status)
}
