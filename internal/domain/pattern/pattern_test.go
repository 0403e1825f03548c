package pattern_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/domain/pattern"
)

var base = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.AddDate(0, 0, n) }

func buy(productID string, at time.Time) pattern.PurchaseRecord {
	return pattern.PurchaseRecord{ProductID: productID, Quantity: 1, PurchasedAt: at}
}

// Compras los días 0, 10, 20 y 30 => intervalo promedio 10 y recurrente.
func TestAnalyze_IntervaloRegularEsRecurrente(t *testing.T) {
	records := []pattern.PurchaseRecord{
		buy("leche", day(20)), buy("leche", day(0)), buy("leche", day(30)), buy("leche", day(10)),
	}

	got := pattern.Analyze(records, pattern.DefaultParams())
	require.Len(t, got, 1)

	pp := got[0]
	assert.Equal(t, "leche", pp.ProductID)
	assert.Equal(t, 4, pp.PurchaseCount)
	assert.InDelta(t, 10.0, pp.AverageIntervalDays, 1e-9)
	assert.InDelta(t, 0.0, pp.IntervalVariance, 1e-9)
	assert.True(t, pp.IsRecurring)
	// consistencia 1 * 0.7 + volumen (4/5) * 0.3
	assert.InDelta(t, 0.94, pp.Confidence, 1e-9)
	assert.Equal(t, day(0), pp.FirstPurchase)
	assert.Equal(t, day(30), pp.LastPurchase)
}

func TestAnalyze_IntervaloLargoNoEsRecurrente(t *testing.T) {
	records := []pattern.PurchaseRecord{buy("harina", day(0)), buy("harina", day(40)), buy("harina", day(80))}

	got := pattern.Analyze(records, pattern.DefaultParams())
	require.Len(t, got, 1)
	assert.InDelta(t, 40.0, got[0].AverageIntervalDays, 1e-9)
	assert.False(t, got[0].IsRecurring)
}

func TestAnalyze_UnaSolaCompraSinConfianza(t *testing.T) {
	got := pattern.Analyze([]pattern.PurchaseRecord{buy("sal", day(0))}, pattern.DefaultParams())
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Confidence)
	assert.False(t, got[0].IsRecurring)
}

func TestAnalyze_HistorialVacio(t *testing.T) {
	assert.Empty(t, pattern.Analyze(nil, pattern.DefaultParams()))
}

func TestIntervals_OrdenaDeMasRecienteAMasAntigua(t *testing.T) {
	records := []pattern.PurchaseRecord{buy("a", day(3)), buy("a", day(10)), buy("a", day(0))}
	assert.Equal(t, []float64{7, 3}, pattern.Intervals(records))
	assert.Empty(t, pattern.Intervals(records[:1]))
}

func TestIntervals_DiasEnterosTruncados(t *testing.T) {
	records := []pattern.PurchaseRecord{
		buy("a", base),
		buy("a", base.Add(47*time.Hour)),
	}
	assert.Equal(t, []float64{1}, pattern.Intervals(records))
}

func TestConfidence_SiempreEnRangoCeroUno(t *testing.T) {
	p := pattern.DefaultParams()
	cases := []struct {
		name      string
		intervals []float64
		count     int
	}{
		{"vacío", nil, 0},
		{"ceros", []float64{0, 0, 0}, 4},
		{"regular", []float64{7, 7, 7, 7}, 5},
		{"muy variable", []float64{1, 90, 2, 180}, 5},
		{"muchas compras", []float64{3, 4, 5}, 500},
		{"conteo negativo", []float64{3}, -4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := pattern.Confidence(tc.intervals, tc.count, p)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		})
	}
}

func TestConfidence_MasVarianzaMenosConfianza(t *testing.T) {
	p := pattern.DefaultParams()
	regular := pattern.Confidence([]float64{10, 10, 10}, 4, p)
	irregular := pattern.Confidence([]float64{2, 10, 18}, 4, p)
	assert.Greater(t, regular, irregular)
}

func TestSessions_AgrupaPorBrecha(t *testing.T) {
	records := []pattern.PurchaseRecord{
		buy("pan", base),
		buy("leche", base.Add(119*time.Minute)),
		buy("huevos", base.Add(239*time.Minute)), // exactamente 2h después de la anterior
		buy("pan", base.Add(24*time.Hour)),
	}

	sessions := pattern.Sessions(records, pattern.DefaultParams())
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"pan", "leche"}, sessions[0].ProductIDs)
	assert.Equal(t, []string{"huevos"}, sessions[1].ProductIDs)
	assert.Equal(t, []string{"pan"}, sessions[2].ProductIDs)
	assert.Equal(t, base.Add(119*time.Minute), sessions[0].End)
}

func companionHistory() []pattern.PurchaseRecord {
	at := func(d int, minutes int) time.Time { return day(d).Add(time.Duration(minutes) * time.Minute) }
	return []pattern.PurchaseRecord{
		buy("leche", at(0, 0)), buy("pan", at(0, 5)), buy("huevos", at(0, 30)), buy("leche", at(0, 31)),
		buy("leche", at(3, 0)), buy("pan", at(3, 10)),
		buy("huevos", at(7, 0)), buy("pan", at(7, 1)), buy("leche", at(7, 2)),
		buy("pan", at(9, 0)), buy("cafe", at(9, 1)),
	}
}

func TestCompanions_RankingPorCoOcurrencia(t *testing.T) {
	got := pattern.Companions(companionHistory(), "leche", 0, pattern.DefaultParams())

	require.Len(t, got, 2)
	assert.Equal(t, "pan", got[0].ProductID)
	assert.Equal(t, 3, got[0].Count)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, "huevos", got[1].ProductID)
	assert.Equal(t, 2, got[1].Count)
	assert.InDelta(t, 2.0/3.0, got[1].Score, 1e-9)
}

func TestCompanions_NuncaIncluyeElProductoConsultado(t *testing.T) {
	p := pattern.DefaultParams()
	p.MinCoOccurrence = 1
	for _, id := range []string{"leche", "pan", "huevos", "cafe"} {
		for _, c := range pattern.Companions(companionHistory(), id, 0, p) {
			assert.NotEqual(t, id, c.ProductID)
		}
	}
}

func TestCompanions_LimiteYProductoDesconocido(t *testing.T) {
	p := pattern.DefaultParams()
	assert.Len(t, pattern.Companions(companionHistory(), "leche", 1, p), 1)
	assert.Empty(t, pattern.Companions(companionHistory(), "no-existe", 5, p))
}

func TestSeasonal_RequiereMesSobrePromedio(t *testing.T) {
	var records []pattern.PurchaseRecord
	// Un mes de compra por cada mes del año: no estacional.
	for m := 0; m < 12; m++ {
		records = append(records, buy("arroz", time.Date(2024, time.Month(m+1), 10, 9, 0, 0, 0, time.UTC)))
	}
	// Cuatro diciembres seguidos: estacional en diciembre.
	for y := 2021; y <= 2024; y++ {
		records = append(records, buy("pavo", time.Date(y, time.December, 20, 9, 0, 0, 0, time.UTC)))
	}
	// Pocas compras: no se evalúa.
	for i := 0; i < 3; i++ {
		records = append(records, buy("helado", time.Date(2024, time.July, 1+i, 9, 0, 0, 0, time.UTC)))
	}

	got := pattern.Seasonal(records, pattern.DefaultParams())
	require.Len(t, got, 1)
	assert.Equal(t, "pavo", got[0].ProductID)
	assert.Equal(t, []time.Month{time.December}, got[0].PeakMonths)
	assert.True(t, got[0].InMonth(time.December))
	assert.False(t, got[0].InMonth(time.June))
	assert.InDelta(t, 4.0/12.0, got[0].AverageMonthly, 1e-9)
	for _, m := range got[0].PeakMonths {
		assert.Greater(t, float64(got[0].MonthlyCounts[m-1]), 1.5*got[0].AverageMonthly)
	}
}

func TestSeasonal_HistorialCortoNoEsEstacional(t *testing.T) {
	// Leche semanal durante siete semanas de marzo y abril.
	var records []pattern.PurchaseRecord
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	for w := 0; w < 7; w++ {
		records = append(records, buy("leche", start.AddDate(0, 0, 7*w)))
	}
	assert.Empty(t, pattern.Seasonal(records, pattern.DefaultParams()))

	p := pattern.DefaultParams()
	p.MinSeasonalSpanDays = 0
	got := pattern.Seasonal(records, p)
	require.Len(t, got, 1, "sin el mínimo de cobertura el promedio anual sobreestima los picos")
	assert.Equal(t, []time.Month{time.March, time.April}, got[0].PeakMonths)
}

func TestPredictRestock_UltimaCompraMasIntervalo(t *testing.T) {
	p := pattern.DefaultParams()
	records := []pattern.PurchaseRecord{
		buy("leche", day(0)), buy("leche", day(10)), buy("leche", day(20)), buy("leche", day(30)),
		// intervalos 89, 0, 0, 0: consistencia 0.25 => confianza 0.475
		buy("azafran", day(0)), buy("azafran", day(0).Add(time.Hour)), buy("azafran", day(0).Add(2*time.Hour)),
		buy("azafran", day(0).Add(3*time.Hour)), buy("azafran", day(90)),
	}
	patterns := pattern.Analyze(records, p)

	now := day(35)
	preds := pattern.PredictRestock(patterns, now, p)
	require.Len(t, preds, 1, "azafrán no alcanza la confianza mínima")
	assert.Equal(t, "leche", preds[0].ProductID)
	assert.Equal(t, day(40), preds[0].NextPurchase)
	assert.Equal(t, 5, preds[0].DaysUntil)
	assert.False(t, preds[0].Overdue)

	late := pattern.PredictRestock(patterns, day(42), p)
	require.Len(t, late, 1)
	assert.True(t, late[0].Overdue)
	assert.Equal(t, -2, late[0].DaysUntil)
}

func TestDueWithin_FiltraPorHorizonte(t *testing.T) {
	preds := []pattern.RestockPrediction{
		{ProductID: "a", NextPurchase: day(1)},
		{ProductID: "b", NextPurchase: day(6)},
		{ProductID: "c", NextPurchase: day(20)},
	}
	got := pattern.DueWithin(preds, day(0), 7*24*time.Hour)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, "b", got[1].ProductID)
}
