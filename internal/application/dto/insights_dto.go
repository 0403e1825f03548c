package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de una sugerencia.
const (
	ReasonRestockRule = "restock_rule"
	ReasonOverdue     = "overdue"
	ReasonDueSoon     = "due_soon"
	ReasonCompanion   = "companion"
	ReasonSeasonal    = "seasonal"
)

// SuggestionsRequest parámetros opcionales (query string). Cero = valor configurado.
type SuggestionsRequest struct {
	HorizonDays int `query:"horizon_days" validate:"omitempty,min=1,max=90"`
	Limit       int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// SuggestionDTO sugerencia de compra para un producto.
type SuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Score             float64         `json:"score"`
	Reasons           []string        `json:"reasons"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	Unit              string          `json:"unit"`
	NextPurchase      *time.Time      `json:"next_purchase,omitempty"`
	Confidence        float64         `json:"confidence,omitempty"`
}

// SuggestionsResponse sugerencias ordenadas por puntaje.
type SuggestionsResponse struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Items       []SuggestionDTO `json:"items"`
}

// AddSuggestionsRequest copia las sugerencias elegidas a una lista.
type AddSuggestionsRequest struct {
	ListID     string   `json:"list_id" validate:"required,uuid"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid"`
}

// PurchasePatternDTO patrón de compra de un producto.
type PurchasePatternDTO struct {
	ProductID           string    `json:"product_id"`
	ProductName         string    `json:"product_name"`
	PurchaseCount       int       `json:"purchase_count"`
	AverageQuantity     float64   `json:"average_quantity"`
	FirstPurchase       time.Time `json:"first_purchase"`
	LastPurchase        time.Time `json:"last_purchase"`
	AverageIntervalDays float64   `json:"average_interval_days"`
	Confidence          float64   `json:"confidence"`
	IsRecurring         bool      `json:"is_recurring"`
	PreferredWeekday    string    `json:"preferred_weekday,omitempty"`
}

// CompanionDTO producto que suele comprarse junto a otro.
type CompanionDTO struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Count       int     `json:"count"`
	Score       float64 `json:"score"`
}

// SeasonalDTO producto con estacionalidad.
type SeasonalDTO struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	MonthlyCounts  [12]int `json:"monthly_counts"`
	AverageMonthly float64 `json:"average_monthly"`
	PeakMonths     []int   `json:"peak_months"` // 1..12
}

// PredictionDTO predicción de próxima compra.
type PredictionDTO struct {
	ProductID           string    `json:"product_id"`
	ProductName         string    `json:"product_name"`
	LastPurchase        time.Time `json:"last_purchase"`
	NextPurchase        time.Time `json:"next_purchase"`
	AverageIntervalDays float64   `json:"average_interval_days"`
	Confidence          float64   `json:"confidence"`
	DaysUntil           int       `json:"days_until"`
	Overdue             bool      `json:"overdue"`
}
