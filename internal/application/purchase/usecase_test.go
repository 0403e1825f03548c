package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/purchase"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/internal/testutil/mocks"
)

const hh = "hogar-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "leche", HouseholdID: hh, Name: "Leche entera", Barcode: "7702001"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "arroz", HouseholdID: hh, Name: "Arroz Diana"}))
	require.NoError(t, s.Stores().Create(ctx, &entity.Store{ID: "d1", HouseholdID: hh, Name: "D1"}))
	return s
}

func TestRecordPurchase_RegistraPrecio(t *testing.T) {
	s := seed(t)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), nil, s)
	ctx := context.Background()

	res, err := uc.RecordPurchase(ctx, hh, "u1", dto.RecordPurchaseRequest{ProductID: "leche", StoreID: "d1", Quantity: dec("2"), UnitPrice: dec("4100")})
	require.NoError(t, err)
	assert.True(t, dec("8200").Equal(res.Total))
	require.Len(t, s.PricesSnapshot(), 1)
	assert.Equal(t, entity.PriceSourcePurchase, s.PricesSnapshot()[0].Source)

	// sin precio no hay observación
	_, err = uc.RecordPurchase(ctx, hh, "u1", dto.RecordPurchaseRequest{ProductID: "arroz", Quantity: dec("1")})
	require.NoError(t, err)
	assert.Len(t, s.PricesSnapshot(), 1)

	_, err = uc.RecordPurchase(ctx, hh, "u1", dto.RecordPurchaseRequest{ProductID: "leche", StoreID: "otra", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.PurchasesSnapshot(), 2)
}

func TestListPurchases_FiltraPorRango(t *testing.T) {
	s := seed(t)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), nil, s)
	ctx := context.Background()
	for _, d := range []string{"2025-03-01", "2025-03-15", "2025-04-02"} {
		at, _ := time.Parse("2006-01-02", d)
		at = at.Add(18 * time.Hour)
		_, err := uc.RecordPurchase(ctx, hh, "u1", dto.RecordPurchaseRequest{ProductID: "leche", Quantity: dec("1"), PurchasedAt: &at})
		require.NoError(t, err)
	}

	got, err := uc.ListPurchases(ctx, hh, dto.PurchaseFilter{From: "2025-03-01", To: "2025-03-15"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = uc.ListPurchases(ctx, hh, dto.PurchaseFilter{From: "2025-04-01", To: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListPurchases(ctx, hh, dto.PurchaseFilter{From: "01/03/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateReceipt_AsociaPorCodigoYNombre(t *testing.T) {
	s := seed(t)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), nil, s)
	ctx := context.Background()

	res, err := uc.CreateReceipt(ctx, hh, "u1", dto.CreateReceiptRequest{
		StoreID: "d1",
		Number:  "F-100",
		Lines: []dto.ReceiptLineRequest{
			{Description: "LECHE ENT 1L", Barcode: "7702001", Quantity: dec("2"), UnitPrice: dec("4000")},
			{Description: "arroz diana", Quantity: dec("1"), UnitPrice: dec("5200")},
			{Description: "Bolsa", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 1, res.Unmatched)
	assert.True(t, dec("13300").Equal(res.Total))
	assert.Equal(t, "leche", res.Lines[0].ProductID)
	assert.Equal(t, "arroz", res.Lines[1].ProductID)

	assert.Len(t, s.PurchasesSnapshot(), 2)
	prices := s.PricesSnapshot()
	require.Len(t, prices, 2)
	assert.Equal(t, entity.PriceSourceReceipt, prices[0].Source)

	_, err = uc.CreateReceipt(ctx, hh, "u1", dto.CreateReceiptRequest{
		StoreID: "d1", Number: "F-100",
		Lines: []dto.ReceiptLineRequest{{Description: "x", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, s.PurchasesSnapshot(), 2)
}

func TestImportUBL_CreaTiendaDelProveedor(t *testing.T) {
	s := seed(t)
	parser := new(mocks.MockReceiptParser)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), parser, s)
	ctx := context.Background()

	issued := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)
	parser.On("Parse", mock.Anything).Return(&dto.ParsedReceipt{
		SupplierName: "Almacenes Éxito S.A.",
		Number:       "SETP990000123",
		IssuedAt:     issued,
		Currency:     "COP",
		Total:        dec("9500"),
		Lines: []dto.ParsedReceiptLine{
			{Description: "Leche", Barcode: "7702001", Quantity: dec("1"), UnitPrice: dec("4500"), LineTotal: dec("4500")},
			{Description: "Queso campesino", Quantity: dec("1"), UnitPrice: dec("5000")},
		},
	}, nil).Once()

	res, err := uc.ImportUBL(ctx, hh, "u1", []byte("<Invoice/>"))
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptSourceUBL, res.Source)
	assert.Equal(t, 1, res.Matched)
	assert.True(t, dec("9500").Equal(res.Total))
	assert.True(t, dec("5000").Equal(res.Lines[1].LineTotal))

	st, err := s.Stores().FindByName(ctx, hh, "almacenes éxito s.a.")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, st.ID, res.StoreID)

	purchases := s.PurchasesSnapshot()
	require.Len(t, purchases, 1)
	assert.Equal(t, issued, purchases[0].PurchasedAt)
	assert.Equal(t, res.ID, purchases[0].ReceiptID)
	parser.AssertExpectations(t)
}

func TestImportUBL_ErrorDelParser(t *testing.T) {
	s := seed(t)
	parser := new(mocks.MockReceiptParser)
	parser.On("Parse", mock.Anything).Return(nil, domain.ErrInvalidInput)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), parser, s)

	_, err := uc.ImportUBL(context.Background(), hh, "u1", []byte("basura"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordPrice(t *testing.T) {
	s := seed(t)
	uc := purchase.NewUseCase(s.Purchases(), s.Receipts(), nil, s)

	require.NoError(t, uc.RecordPrice(context.Background(), hh, dto.RecordPriceRequest{ProductID: "arroz", StoreID: "d1", UnitPrice: dec("5100")}))
	require.Len(t, s.PricesSnapshot(), 1)
	assert.Equal(t, entity.PriceSourceManual, s.PricesSnapshot()[0].Source)

	assert.ErrorIs(t, uc.RecordPrice(context.Background(), hh, dto.RecordPriceRequest{ProductID: "arroz", UnitPrice: dec("0")}), domain.ErrInvalidInput)
}
