package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de desperdicio.
const (
	WasteExpired  = "expired"
	WasteSpoiled  = "spoiled"
	WasteLeftover = "leftover"
	WasteDamaged  = "damaged"
	WasteOther    = "other"
)

// WasteEvent registra producto desechado.
type WasteEvent struct {
	ID            string
	HouseholdID   string
	ProductID     string
	ItemID        string
	Quantity      decimal.Decimal
	Unit          string
	Reason        string
	EstimatedCost decimal.Decimal
	OccurredAt    time.Time
	Notes         string
	CreatedBy     string
}

// IsValidWasteReason indica si reason es un motivo soportado.
func IsValidWasteReason(reason string) bool {
	switch reason {
	case WasteExpired, WasteSpoiled, WasteLeftover, WasteDamaged, WasteOther:
		return true
	}
	return false
}
