package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/internal/testutil/mocks"
)

const hh = "hogar-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProductUseCase_CreateValidaReglaYCodigo(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), nil)
	ctx := context.Background()

	p, err := uc.Create(ctx, hh, dto.CreateProductRequest{Barcode: " 7701 ", Name: "Arroz", DefaultUnit: "KG", IsStaple: true, MinQuantity: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, "7701", p.Barcode)
	assert.Equal(t, "kg", p.DefaultUnit)
	assert.True(t, p.AverageCost.IsZero())

	_, err = uc.Create(ctx, hh, dto.CreateProductRequest{Barcode: "7701", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, hh, dto.CreateProductRequest{Name: "Sal", IsStaple: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "básico sin mínimo")

	_, err = uc.Create(ctx, hh, dto.CreateProductRequest{Name: "Sal", IsStaple: true, MinQuantity: dec("4"), RestockQuantity: dec("2")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "objetivo bajo el mínimo")

	// el mismo código en otro hogar es válido
	_, err = uc.Create(ctx, "hogar-2", dto.CreateProductRequest{Barcode: "7701", Name: "Arroz"})
	require.NoError(t, err)
}

func TestProductUseCase_UpdateYDelete(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), nil)
	ctx := context.Background()

	p, err := uc.Create(ctx, hh, dto.CreateProductRequest{Name: "Leche", ShelfLifeDays: intPtr(7)})
	require.NoError(t, err)

	name := "Leche deslactosada"
	zero := 0
	staple := true
	min := dec("2")
	got, err := uc.Update(ctx, hh, p.ID, dto.UpdateProductRequest{Name: &name, ShelfLifeDays: &zero, IsStaple: &staple, MinQuantity: &min})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Nil(t, got.ShelfLifeDays)
	assert.True(t, got.IsStaple)

	_, err = uc.Update(ctx, "hogar-2", p.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, hh, p.ID))
	_, err = uc.GetByID(ctx, hh, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_List(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), nil)
	ctx := context.Background()
	for _, n := range []string{"Arroz", "Arepas", "Leche"} {
		_, err := uc.Create(ctx, hh, dto.CreateProductRequest{Name: n, Category: "dry goods"})
		require.NoError(t, err)
	}

	res, err := uc.List(ctx, hh, dto.ProductFilter{Search: "ar"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 20, res.Page.Limit)
}

func TestProductUseCase_LookupBarcode(t *testing.T) {
	store := memstore.New()
	lookup := new(mocks.MockBarcodeLookup)
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), lookup)
	ctx := context.Background()

	_, err := uc.Create(ctx, hh, dto.CreateProductRequest{Barcode: "111", Name: "Café"})
	require.NoError(t, err)

	local, err := uc.LookupBarcode(ctx, hh, "111")
	require.NoError(t, err)
	assert.True(t, local.Local)
	assert.Equal(t, "Café", local.Product.Name)

	lookup.On("Lookup", mock.Anything, "222").Return(&dto.BarcodeProductDTO{Barcode: "222", Name: "Galletas"}, nil).Once()
	ext, err := uc.LookupBarcode(ctx, hh, "222")
	require.NoError(t, err)
	assert.False(t, ext.Local)
	assert.Equal(t, "Galletas", ext.External.Name)

	lookup.On("Lookup", mock.Anything, "333").Return(nil, nil).Once()
	_, err = uc.LookupBarcode(ctx, hh, "333")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lookup.On("Lookup", mock.Anything, "444").Return(nil, domain.ErrExternalService).Once()
	_, err = uc.LookupBarcode(ctx, hh, "444")
	assert.ErrorIs(t, err, domain.ErrExternalService)

	lookup.AssertExpectations(t)
}

func TestProductUseCase_CreateFromBarcodeGuardaNutricion(t *testing.T) {
	store := memstore.New()
	lookup := new(mocks.MockBarcodeLookup)
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), lookup)
	ctx := context.Background()

	lookup.On("Lookup", mock.Anything, "7702").Return(&dto.BarcodeProductDTO{
		Barcode: "7702", Name: "Avena", Brand: "Quaker", Category: "dry goods",
		Nutrition: &dto.NutritionResponse{Calories: dec("389"), Protein: dec("16.9")},
	}, nil)

	p, err := uc.CreateFromBarcode(ctx, hh, dto.CreateFromBarcodeRequest{Barcode: "7702", DefaultUnit: "g"})
	require.NoError(t, err)
	assert.Equal(t, "Avena", p.Name)
	assert.Equal(t, "Quaker", p.Brand)

	n, err := store.Nutrition().GetByProduct(ctx, hh, p.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.True(t, dec("389").Equal(n.Calories))
	assert.Equal(t, "barcode", n.Source)

	_, err = uc.CreateFromBarcode(ctx, hh, dto.CreateFromBarcodeRequest{Barcode: "7702"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_SinConsultaExterna(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewProductUseCase(store.Products(), store.Nutrition(), nil)

	_, err := uc.LookupBarcode(context.Background(), hh, "999")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func intPtr(v int) *int { return &v }
