package pattern

import (
	"math"
	"sort"
	"time"
)

// RestockPrediction fecha estimada de la próxima compra de un producto.
type RestockPrediction struct {
	ProductID           string
	LastPurchase        time.Time
	NextPurchase        time.Time
	AverageIntervalDays float64
	Confidence          float64
	DaysUntil           int // negativo = atrasado
	Overdue             bool
}

// PredictRestock estima próxima compra = última compra + intervalo promedio, solo para
// patrones con al menos un intervalo y confianza >= PredictionConfidence.
// Orden: fecha estimada ascendente.
func PredictRestock(patterns []ProductPattern, now time.Time, p Params) []RestockPrediction {
	out := []RestockPrediction{}
	for _, pp := range patterns {
		if pp.PurchaseCount < 2 || pp.Confidence < p.PredictionConfidence {
			continue
		}
		next := pp.LastPurchase.Add(time.Duration(pp.AverageIntervalDays * 24 * float64(time.Hour)))
		out = append(out, RestockPrediction{
			ProductID:           pp.ProductID,
			LastPurchase:        pp.LastPurchase,
			NextPurchase:        next,
			AverageIntervalDays: pp.AverageIntervalDays,
			Confidence:          pp.Confidence,
			DaysUntil:           int(math.Floor(next.Sub(now).Hours() / 24)),
			Overdue:             next.Before(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].NextPurchase.Equal(out[j].NextPurchase) {
			return out[i].NextPurchase.Before(out[j].NextPurchase)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// DueWithin filtra las predicciones atrasadas o que vencen dentro de horizon desde now.
func DueWithin(preds []RestockPrediction, now time.Time, horizon time.Duration) []RestockPrediction {
	limit := now.Add(horizon)
	out := []RestockPrediction{}
	for _, pr := range preds {
		if !pr.NextPurchase.After(limit) {
			out = append(out, pr)
		}
	}
	return out
}
