package pattern

import "time"

// SeasonalPattern producto con al menos un mes de compras muy por encima de su promedio.
type SeasonalPattern struct {
	ProductID      string
	MonthlyCounts  [12]int // índice 0 = enero
	AverageMonthly float64 // total / 12
	PeakMonths     []time.Month
}

// InMonth indica si m es uno de los meses pico.
func (s SeasonalPattern) InMonth(m time.Month) bool {
	for _, pm := range s.PeakMonths {
		if pm == m {
			return true
		}
	}
	return false
}

// Seasonal devuelve solo los productos estacionales: algún mes del año con más de
// SeasonalFactor veces el promedio mensual del producto. El promedio divide por 12,
// así que solo se evalúan historiales que cubren casi un año (MinSeasonalSpanDays).
func Seasonal(records []PurchaseRecord, p Params) []SeasonalPattern {
	groups, ids := groupByProduct(records)
	out := []SeasonalPattern{}
	for _, id := range ids {
		history := groups[id]
		if len(history) < p.MinSeasonalPurchases || spanDays(history) < p.MinSeasonalSpanDays {
			continue
		}
		sp := SeasonalPattern{ProductID: id}
		for _, r := range history {
			sp.MonthlyCounts[r.PurchasedAt.Month()-1]++
		}
		sp.AverageMonthly = float64(len(history)) / 12
		threshold := p.SeasonalFactor * sp.AverageMonthly
		for i, n := range sp.MonthlyCounts {
			if float64(n) > threshold {
				sp.PeakMonths = append(sp.PeakMonths, time.Month(i+1))
			}
		}
		if len(sp.PeakMonths) > 0 {
			out = append(out, sp)
		}
	}
	return out
}

// spanDays días entre la primera y la última compra del historial.
func spanDays(history []PurchaseRecord) float64 {
	first, last := history[0].PurchasedAt, history[0].PurchasedAt
	for _, r := range history[1:] {
		if r.PurchasedAt.Before(first) {
			first = r.PurchasedAt
		}
		if r.PurchasedAt.After(last) {
			last = r.PurchasedAt
		}
	}
	return last.Sub(first).Hours() / 24
}
