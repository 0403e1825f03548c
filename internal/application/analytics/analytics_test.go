package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/internal/testutil/mocks"
)

const hh = "hogar-1"

var june15 = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCatalog(t *testing.T, s *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*entity.Product{
		{ID: "leche", HouseholdID: hh, Name: "Leche", Category: "lacteos", DefaultUnit: "l"},
		{ID: "arroz", HouseholdID: hh, Name: "Arroz", Category: "granos", DefaultUnit: "kg"},
		{ID: "frijol", HouseholdID: hh, Name: "Frijol", Category: "granos", DefaultUnit: "kg"},
	} {
		require.NoError(t, s.Products().Create(ctx, p))
	}
}

func purchase(t *testing.T, s *memstore.Store, id, productID, total string, at time.Time) {
	t.Helper()
	require.NoError(t, s.Purchases().Create(context.Background(), &entity.PurchaseTransaction{
		ID: id, HouseholdID: hh, ProductID: productID,
		Quantity: dec("1"), UnitPrice: dec(total), Total: dec(total), PurchasedAt: at,
	}))
}

func TestBudgetStatus_MesEnCurso(t *testing.T) {
	s := memstore.New()
	seedCatalog(t, s)
	uc := NewBudgetUseCase(s.Budgets(), s.Analytics())
	uc.now = func() time.Time { return june15 }
	ctx := context.Background()

	purchase(t, s, "c1", "leche", "100000", june15.AddDate(0, 0, -3))
	purchase(t, s, "c2", "arroz", "200000", june15.AddDate(0, 0, -1))
	purchase(t, s, "c3", "arroz", "999999", june15.AddDate(0, -1, 0)) // mayo

	_, err := uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-06", Amount: dec("500000")})
	require.NoError(t, err)
	_, err = uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-06", Category: "lacteos", Amount: dec("80000")})
	require.NoError(t, err)

	st, err := uc.Status(ctx, hh, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-06", st.Month)
	assert.True(t, dec("500000").Equal(st.Target))
	assert.True(t, dec("300000").Equal(st.Spent))
	assert.True(t, dec("200000").Equal(st.Remaining))
	assert.True(t, dec("60").Equal(st.UsedPercent))
	assert.True(t, dec("20000").Equal(st.DailyBurnRate))
	assert.True(t, dec("600000").Equal(st.ProjectedSpend))
	assert.Equal(t, 15, st.DaysElapsed)
	assert.Equal(t, 15, st.DaysRemaining)
	assert.False(t, st.OverBudget)

	require.Len(t, st.Categories, 1)
	assert.True(t, st.Categories[0].OverBudget)
	assert.True(t, dec("125").Equal(st.Categories[0].UsedPercent))
}

func TestBudgetStatus_MesCerradoYSinTotal(t *testing.T) {
	s := memstore.New()
	seedCatalog(t, s)
	uc := NewBudgetUseCase(s.Budgets(), s.Analytics())
	uc.now = func() time.Time { return june15 }
	ctx := context.Background()

	purchase(t, s, "c1", "arroz", "90000", time.Date(2025, time.May, 10, 9, 0, 0, 0, time.UTC))
	_, err := uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-05", Category: "granos", Amount: dec("60000")})
	require.NoError(t, err)
	_, err = uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-05", Category: "lacteos", Amount: dec("20000")})
	require.NoError(t, err)

	st, err := uc.Status(ctx, hh, "2025-05")
	require.NoError(t, err)
	assert.True(t, dec("80000").Equal(st.Target), "suma de categorías")
	assert.True(t, st.OverBudget)
	assert.Equal(t, 31, st.DaysElapsed)
	assert.Equal(t, 0, st.DaysRemaining)
	assert.True(t, dec("90000").Equal(st.ProjectedSpend))

	_, err = uc.Status(ctx, hh, "mayo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBudget_SetReemplazaYDelete(t *testing.T) {
	s := memstore.New()
	uc := NewBudgetUseCase(s.Budgets(), s.Analytics())
	ctx := context.Background()

	first, err := uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-06", Amount: dec("100")})
	require.NoError(t, err)
	second, err := uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-06", Amount: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := uc.List(ctx, hh, "2025-06")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, dec("200").Equal(list[0].Amount))

	require.NoError(t, uc.Delete(ctx, hh, first.ID))
	assert.ErrorIs(t, uc.Delete(ctx, hh, first.ID), domain.ErrNotFound)

	_, err = uc.Set(ctx, hh, dto.SetBudgetRequest{Month: "2025-06", Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSpendReport_Pareto(t *testing.T) {
	s := memstore.New()
	seedCatalog(t, s)
	uc := NewReportUseCase(s.Analytics())
	uc.now = func() time.Time { return june15 }
	ctx := context.Background()

	purchase(t, s, "c1", "leche", "400", time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC))
	purchase(t, s, "c2", "leche", "400", time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC))
	purchase(t, s, "c3", "arroz", "150", time.Date(2025, time.June, 30, 20, 0, 0, 0, time.UTC))
	purchase(t, s, "c4", "frijol", "50", time.Date(2025, time.June, 12, 10, 0, 0, 0, time.UTC))
	purchase(t, s, "c5", "frijol", "50", time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))

	rep, err := uc.SpendReport(ctx, hh, dto.SpendReportRequest{StartDate: "2025-06-01", EndDate: "2025-06-30"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", rep.Period.EndDate)
	assert.True(t, dec("1000").Equal(rep.Total))
	assert.Equal(t, 4, rep.PurchaseCount)
	assert.True(t, dec("250").Equal(rep.AveragePurchase))

	require.Len(t, rep.Categories, 2)
	assert.Equal(t, "lacteos", rep.Categories[0].Category)
	assert.True(t, dec("80").Equal(rep.Categories[0].Percent))

	require.Len(t, rep.ProductRanking, 3)
	assert.Equal(t, "leche", rep.ProductRanking[0].ProductID)
	assert.True(t, rep.ProductRanking[0].IsTopPareto)
	assert.False(t, rep.ProductRanking[1].IsTopPareto)
	assert.True(t, dec("95").Equal(rep.ProductRanking[1].CumulativePercent))
	require.Len(t, rep.ParetoProducts, 1)

	_, err = uc.SpendReport(ctx, hh, dto.SpendReportRequest{StartDate: "2025-07-01", EndDate: "2025-06-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSpendReport_PorDefectoMesEnCurso(t *testing.T) {
	s := memstore.New()
	uc := NewReportUseCase(s.Analytics())
	uc.now = func() time.Time { return june15 }

	rep, err := uc.SpendReport(context.Background(), hh, dto.SpendReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", rep.Period.StartDate)
	assert.Equal(t, "2025-06-15", rep.Period.EndDate)
	assert.Empty(t, rep.ProductRanking)
	assert.True(t, rep.Total.IsZero())
}

func TestPriceBook(t *testing.T) {
	s := memstore.New()
	seedCatalog(t, s)
	ctx := context.Background()
	require.NoError(t, s.Stores().Create(ctx, &entity.Store{ID: "d1", HouseholdID: hh, Name: "D1"}))
	require.NoError(t, s.Stores().Create(ctx, &entity.Store{ID: "ara", HouseholdID: hh, Name: "Ara"}))
	for i, r := range []struct{ store, price string }{{"d1", "4000"}, {"ara", "3800"}, {"d1", "4200"}, {"", "4500"}} {
		require.NoError(t, s.Prices().Create(ctx, &entity.PriceRecord{
			ID: r.store + r.price, HouseholdID: hh, ProductID: "leche", StoreID: r.store,
			UnitPrice: dec(r.price), RecordedAt: june15.AddDate(0, 0, i-10),
		}))
	}
	pdf := new(mocks.MockPDFGenerator)
	uc := NewPriceBookUseCase(s.Prices(), s.Products(), s.Stores(), s.Households(), pdf)

	book, err := uc.GetPriceBook(ctx, hh, "leche")
	require.NoError(t, err)
	assert.Equal(t, 4, book.Observations)
	assert.True(t, dec("3800").Equal(book.MinPrice))
	assert.True(t, dec("4500").Equal(book.MaxPrice))
	assert.True(t, dec("4125").Equal(book.AveragePrice))
	assert.True(t, dec("4500").Equal(book.LatestPrice))
	assert.True(t, dec("12.5").Equal(book.TrendPercent))
	assert.Equal(t, "ara", book.BestStoreID)
	require.Len(t, book.Stores, 3)
	assert.Equal(t, "Ara", book.Stores[0].StoreName)
	assert.True(t, dec("4100").Equal(book.Stores[1].AveragePrice))
	assert.Equal(t, unknownStore, book.Stores[2].StoreName)

	empty, err := uc.GetPriceBook(ctx, hh, "arroz")
	require.NoError(t, err)
	assert.Zero(t, empty.Observations)
	assert.Empty(t, empty.BestStoreID)

	_, err = uc.GetPriceBook(ctx, hh, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Households().Create(ctx, &entity.Household{ID: hh, Name: "Casa", Currency: "COP"}))
	pdf.On("PriceBookPDF", mock.Anything, mock.AnythingOfType("*dto.PriceBookDTO"), mock.AnythingOfType("*entity.Household")).
		Return([]byte("%PDF"), nil).Once()
	out, err := uc.PriceBookPDF(ctx, hh, "leche")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	pdf.AssertExpectations(t)
}

func TestDashboard_GetSummary(t *testing.T) {
	s := memstore.New()
	seedCatalog(t, s)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Products().Update(ctx, &entity.Product{
		ID: "arroz", HouseholdID: hh, Name: "Arroz", Category: "granos", DefaultUnit: "kg",
		IsStaple: true, MinQuantity: dec("2"),
	}))
	soon := now.Add(24 * time.Hour)
	require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "i1", HouseholdID: hh, ProductID: "leche", LocationID: "nevera", Quantity: dec("1"), UnitCost: dec("4000"), ExpiresAt: &soon}))
	require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "i2", HouseholdID: hh, ProductID: "frijol", LocationID: "despensa", Quantity: dec("3")}))

	purchase(t, s, "c1", "leche", "8000", now)
	purchase(t, s, "c2", "arroz", "12000", now)
	require.NoError(t, s.Budgets().Upsert(ctx, &entity.BudgetTarget{ID: "b1", HouseholdID: hh, Month: now.Format("2006-01"), Amount: dec("40000")}))
	require.NoError(t, s.Waste().Create(ctx, &entity.WasteEvent{ID: "w1", HouseholdID: hh, ProductID: "leche", Quantity: dec("1"), Reason: entity.WasteExpired, EstimatedCost: dec("3500"), OccurredAt: now}))

	items := inventory.NewItemUseCase(s.Items(), s.Movements(), s.Products())
	expiring := inventory.NewExpirationUseCase(s.Items(), s.Products())
	restock := inventory.NewReplenishmentUseCase(s.Products(), s.Items(), s.Prices(), s.ShoppingLists())
	uc := NewDashboardUseCase(items, expiring, restock, s.Analytics(), s.Budgets(), s.Waste())

	sum, err := uc.GetSummary(ctx, hh)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.StockByStatus[entity.StockStatusExpiringSoon])
	assert.Equal(t, 1, sum.StockByStatus[entity.StockStatusInStock])
	require.Len(t, sum.ExpiringSoon, 1)
	assert.Equal(t, "i1", sum.ExpiringSoon[0].ItemID)
	assert.Equal(t, 1, sum.RestockNeeded)
	assert.True(t, dec("20000").Equal(sum.MonthlySpend))
	assert.True(t, dec("40000").Equal(sum.MonthlyBudget))
	assert.True(t, dec("50").Equal(sum.BudgetUsed))
	assert.True(t, dec("3500").Equal(sum.MonthlyWaste))
	require.Len(t, sum.TopProducts, 2)
	assert.Equal(t, monthLabel(now), sum.DateLabel)
}
