package pattern

import (
	"sort"
	"time"
)

// ProductPattern resumen estadístico del historial de compras de un producto.
type ProductPattern struct {
	ProductID           string
	PurchaseCount       int
	TotalQuantity       float64
	AverageQuantity     float64
	FirstPurchase       time.Time
	LastPurchase        time.Time
	AverageIntervalDays float64
	IntervalVariance    float64
	Confidence          float64
	IsRecurring         bool
	WeekdayHistogram    [7]int // índice = time.Weekday
	PreferredWeekday    time.Weekday
}

// Analyze calcula el patrón de cada producto del historial.
// Orden: mayor confianza primero, luego ProductID.
func Analyze(records []PurchaseRecord, p Params) []ProductPattern {
	groups, ids := groupByProduct(records)
	out := make([]ProductPattern, 0, len(ids))
	for _, id := range ids {
		out = append(out, analyzeProduct(id, groups[id], p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

func analyzeProduct(productID string, history []PurchaseRecord, p Params) ProductPattern {
	sorted := sortedDesc(history)
	intervals := Intervals(sorted)

	pp := ProductPattern{
		ProductID:     productID,
		PurchaseCount: len(sorted),
		LastPurchase:  sorted[0].PurchasedAt,
		FirstPurchase: sorted[len(sorted)-1].PurchasedAt,
	}
	for _, r := range sorted {
		pp.TotalQuantity += r.Quantity
		pp.WeekdayHistogram[r.PurchasedAt.Weekday()]++
	}
	pp.AverageQuantity = pp.TotalQuantity / float64(pp.PurchaseCount)
	pp.PreferredWeekday = preferredWeekday(pp.WeekdayHistogram)

	if len(intervals) > 0 {
		pp.AverageIntervalDays = Mean(intervals)
		pp.IntervalVariance = Variance(intervals)
		pp.IsRecurring = pp.AverageIntervalDays < p.RecurringThresholdDays
	}
	pp.Confidence = Confidence(intervals, pp.PurchaseCount, p)
	return pp
}

// preferredWeekday día con más compras; empate => el primero desde domingo.
func preferredWeekday(hist [7]int) time.Weekday {
	best := time.Sunday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if hist[d] > hist[best] {
			best = d
		}
	}
	return best
}
