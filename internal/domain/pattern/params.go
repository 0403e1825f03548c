// Package pattern implementa las heurísticas de patrones de compra del hogar:
// intervalos entre compras, confianza, recurrencia, sesiones de compra, productos
// compañeros, estacionalidad y predicción de reposición.
//
// Es aritmética pura sobre un historial ya cargado en memoria (sin I/O ni estado).
// Entradas vacías producen salidas vacías, nunca error.
package pattern

import "time"

// Params umbrales de las heurísticas. Usar DefaultParams y sobrescribir lo necesario.
type Params struct {
	RecurringThresholdDays float64       // promedio de intervalo estrictamente menor => recurrente
	VolumeBaseline         int           // compras para que el término de volumen llegue a 1
	ConsistencyWeight      float64       // peso del término de consistencia (inverso de la varianza)
	VolumeWeight           float64       // peso del término de volumen de datos
	SessionGap             time.Duration // eventos separados por menos que esto comparten sesión
	MinCoOccurrence        int           // sesiones compartidas mínimas para ser compañero
	SeasonalFactor         float64       // mes pico > factor * promedio mensual
	MinSeasonalPurchases   int           // compras mínimas para evaluar estacionalidad
	MinSeasonalSpanDays    float64       // días mínimos entre primera y última compra para evaluar estacionalidad
	PredictionConfidence   float64       // confianza mínima para predecir reposición
}

// DefaultParams valores por defecto de las heurísticas.
func DefaultParams() Params {
	return Params{
		RecurringThresholdDays: 30,
		VolumeBaseline:         5,
		ConsistencyWeight:      0.7,
		VolumeWeight:           0.3,
		SessionGap:             2 * time.Hour,
		MinCoOccurrence:        2,
		SeasonalFactor:         1.5,
		MinSeasonalPurchases:   4,
		MinSeasonalSpanDays:    330,
		PredictionConfidence:   0.5,
	}
}

// PurchaseRecord evento de compra mínimo que consumen las heurísticas.
type PurchaseRecord struct {
	ProductID   string
	Quantity    float64
	PurchasedAt time.Time
}
