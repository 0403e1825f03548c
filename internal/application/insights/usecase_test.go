package insights

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
)

const hh = "hogar-1"

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	s  *memstore.Store
	uc *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	settings := DefaultSettings()
	// solo predicciones muy consistentes
	settings.Params.PredictionConfidence = 0.95
	uc := NewUseCase(s.Purchases(), s.Products(), s.Items(), s.Prices(), s.ShoppingLists(), settings)
	uc.now = func() time.Time { return now }
	return &fixture{s: s, uc: uc}
}

func (f *fixture) product(t *testing.T, id, name string, mut ...func(*entity.Product)) {
	t.Helper()
	p := &entity.Product{ID: id, HouseholdID: hh, Name: name, DefaultUnit: "unit"}
	for _, m := range mut {
		m(p)
	}
	require.NoError(t, f.s.Products().Create(context.Background(), p))
}

func (f *fixture) buy(t *testing.T, productID string, at time.Time, qty string) {
	t.Helper()
	require.NoError(t, f.s.Purchases().Create(context.Background(), &entity.PurchaseTransaction{
		ID:          productID + at.Format(time.RFC3339),
		HouseholdID: hh,
		ProductID:   productID,
		Quantity:    decimal.RequireFromString(qty),
		PurchasedAt: at,
	}))
}

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

// seed arma un hogar con:
//   - arroz: básico sin existencias
//   - leche: cada 7 días, atrasada
//   - pan: cada 5 días, vence dentro del horizonte
//   - huevos: en la lista activa; mantequilla siempre se compra con huevos
func seed(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "arroz", "Arroz", func(p *entity.Product) {
		p.IsStaple = true
		p.MinQuantity = decimal.NewFromInt(2)
	})
	f.product(t, "leche", "Leche")
	f.product(t, "pan", "Pan")
	f.product(t, "huevos", "Huevos")
	f.product(t, "mantequilla", "Mantequilla")

	for _, d := range []int{37, 30, 23, 16, 9} {
		f.buy(t, "leche", daysAgo(d), "2")
	}
	for _, d := range []int{21, 16, 11, 6, 1} {
		f.buy(t, "pan", daysAgo(d), "1")
	}
	for _, d := range []int{40, 50} {
		at := daysAgo(d).Add(-3 * time.Hour)
		f.buy(t, "huevos", at, "30")
		f.buy(t, "mantequilla", at.Add(10*time.Minute), "1")
	}

	list := &entity.ShoppingList{ID: "lista", HouseholdID: hh, Name: "Semana", Status: entity.ShoppingListActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.s.ShoppingLists().Create(ctx, list))
	require.NoError(t, f.s.ShoppingLists().AddItem(ctx, &entity.ShoppingListItem{
		ID: "it-1", ListID: "lista", ProductID: "huevos", Name: "Huevos", Quantity: decimal.NewFromInt(1),
	}))
	return f
}

func TestGetSuggestions_RankingYMotivos(t *testing.T) {
	f := seed(t)

	res, err := f.uc.GetSuggestions(context.Background(), hh, dto.SuggestionsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	ids := []string{}
	for _, s := range res.Items {
		ids = append(ids, s.ProductID)
	}
	assert.Equal(t, []string{"arroz", "leche", "pan", "mantequilla"}, ids)

	arroz := res.Items[0]
	assert.InDelta(t, 1.0, arroz.Score, 1e-9)
	assert.Equal(t, []string{dto.ReasonRestockRule}, arroz.Reasons)
	assert.True(t, decimal.NewFromInt(3).Equal(arroz.SuggestedQuantity), "mínimo 2 * 1.5")

	leche := res.Items[1]
	assert.InDelta(t, 0.9, leche.Score, 1e-9)
	assert.Contains(t, leche.Reasons, dto.ReasonOverdue)
	assert.True(t, decimal.NewFromInt(2).Equal(leche.SuggestedQuantity), "cantidad promedio histórica")
	require.NotNil(t, leche.NextPurchase)
	assert.Equal(t, daysAgo(2), *leche.NextPurchase)

	pan := res.Items[2]
	assert.InDelta(t, 0.9, pan.Score, 1e-9)
	assert.Contains(t, pan.Reasons, dto.ReasonDueSoon)
	assert.NotContains(t, pan.Reasons, dto.ReasonOverdue)

	mantequilla := res.Items[3]
	assert.InDelta(t, 0.5, mantequilla.Score, 1e-9)
	assert.Equal(t, []string{dto.ReasonCompanion}, mantequilla.Reasons)
}

func TestGetSuggestions_ExcluyeLoQueYaEstaEnLaLista(t *testing.T) {
	f := seed(t)
	res, err := f.uc.GetSuggestions(context.Background(), hh, dto.SuggestionsRequest{})
	require.NoError(t, err)
	for _, s := range res.Items {
		assert.NotEqual(t, "huevos", s.ProductID)
	}
}

func TestGetSuggestions_LimiteYHorizonte(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	res, err := f.uc.GetSuggestions(ctx, hh, dto.SuggestionsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	// pan vence en 4 días y su historial es corto para ser estacional: con horizonte 1 no se sugiere
	res, err = f.uc.GetSuggestions(ctx, hh, dto.SuggestionsRequest{HorizonDays: 1})
	require.NoError(t, err)
	for _, s := range res.Items {
		assert.NotEqual(t, "pan", s.ProductID)
	}
}

func TestGetSuggestions_SinHistorial(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.GetSuggestions(context.Background(), hh, dto.SuggestionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, now, res.GeneratedAt)
}

func TestAddSuggestionsToList(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	require.NoError(t, f.s.Prices().Create(ctx, &entity.PriceRecord{
		ID: "pr-1", HouseholdID: hh, ProductID: "leche", UnitPrice: decimal.NewFromInt(4200), RecordedAt: daysAgo(9),
	}))

	res, err := f.uc.AddSuggestionsToList(ctx, hh, dto.AddSuggestionsRequest{
		ListID:     "lista",
		ProductIDs: []string{"leche", "arroz", "huevos"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added, "huevos ya está en la lista y no es sugerencia")

	list, err := f.s.ShoppingLists().GetByID(ctx, hh, "lista")
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	for _, it := range list.Items {
		if it.ProductID == "leche" {
			assert.Equal(t, entity.ItemSourceSuggestion, it.Source)
			assert.True(t, decimal.NewFromInt(4200).Equal(it.EstimatedPrice))
		}
	}
}

func TestGetPatternsYPredicciones(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	patterns, err := f.uc.GetPatterns(ctx, hh)
	require.NoError(t, err)
	require.NotEmpty(t, patterns)
	byID := map[string]dto.PurchasePatternDTO{}
	for _, p := range patterns {
		byID[p.ProductID] = p
	}
	assert.InDelta(t, 7, byID["leche"].AverageIntervalDays, 1e-9)
	assert.True(t, byID["leche"].IsRecurring)
	assert.Equal(t, 5, byID["pan"].PurchaseCount)

	preds, err := f.uc.GetPredictions(ctx, hh)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "leche", preds[0].ProductID)
	assert.True(t, preds[0].Overdue)
	assert.Equal(t, -2, preds[0].DaysUntil)
	assert.Equal(t, 4, preds[1].DaysUntil)
}

func TestGetCompanions(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	comps, err := f.uc.GetCompanions(ctx, hh, "huevos", 0)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "mantequilla", comps[0].ProductID)
	assert.Equal(t, 2, comps[0].Count)
	assert.InDelta(t, 1.0, comps[0].Score, 1e-9)

	_, err = f.uc.GetCompanions(ctx, hh, "no-existe", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetSeasonal(t *testing.T) {
	f := seed(t)
	// helado: junio de dos años seguidos, dentro de la ventana de un año
	f.product(t, "helado", "Helado")
	for _, d := range []int{360, 355, 14, 5} {
		f.buy(t, "helado", daysAgo(d), "1")
	}

	seasonal, err := f.uc.GetSeasonal(context.Background(), hh)
	require.NoError(t, err)
	ids := map[string][]int{}
	for _, s := range seasonal {
		ids[s.ProductID] = s.PeakMonths
	}
	assert.Equal(t, []int{int(time.June)}, ids["helado"])
	assert.NotContains(t, ids, "leche", "cinco semanas de historial no alcanzan para estacionalidad")
	assert.NotContains(t, ids, "huevos", "menos compras que el mínimo")
}
