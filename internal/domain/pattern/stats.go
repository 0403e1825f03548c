package pattern

import (
	"math"
	"sort"
	"time"
)

// Mean promedio aritmético; 0 si values está vacío.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance varianza poblacional; 0 si values está vacío.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	acc := 0.0
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(values))
}

// Intervals devuelve los días enteros entre compras consecutivas, ordenando de la más
// reciente a la más antigua. Se espera el historial de un solo producto.
func Intervals(records []PurchaseRecord) []float64 {
	if len(records) < 2 {
		return []float64{}
	}
	sorted := sortedDesc(records)
	out := make([]float64, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		out = append(out, wholeDays(sorted[i].PurchasedAt.Sub(sorted[i+1].PurchasedAt)))
	}
	return out
}

// Confidence combina consistencia (inverso de la varianza normalizada de los intervalos)
// y volumen de datos (compras / baseline, tope 1) con pesos 70/30. Resultado en [0, 1].
func Confidence(intervals []float64, purchaseCount int, p Params) float64 {
	if len(intervals) == 0 {
		return 0
	}
	consistency := 0.0
	if mean := Mean(intervals); mean > 0 {
		consistency = 1 / (1 + Variance(intervals)/(mean*mean))
	}
	volume := 0.0
	if p.VolumeBaseline > 0 {
		volume = clamp01(float64(purchaseCount) / float64(p.VolumeBaseline))
	}
	return clamp01(p.ConsistencyWeight*consistency + p.VolumeWeight*volume)
}

func wholeDays(d time.Duration) float64 {
	return math.Floor(d.Hours() / 24)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func sortedDesc(records []PurchaseRecord) []PurchaseRecord {
	out := make([]PurchaseRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchasedAt.After(out[j].PurchasedAt)
	})
	return out
}

func sortedAsc(records []PurchaseRecord) []PurchaseRecord {
	out := make([]PurchaseRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchasedAt.Before(out[j].PurchasedAt)
	})
	return out
}

// groupByProduct agrupa el historial por producto; devuelve también los IDs ordenados.
func groupByProduct(records []PurchaseRecord) (map[string][]PurchaseRecord, []string) {
	groups := make(map[string][]PurchaseRecord)
	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		groups[r.ProductID] = append(groups[r.ProductID], r)
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return groups, ids
}
