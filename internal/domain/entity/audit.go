package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de auditoría.
const (
	AuditOpen      = "open"
	AuditCompleted = "completed"
	AuditCancelled = "cancelled"
)

// AuditSession es un conteo físico que reconcilia lo registrado con lo real.
type AuditSession struct {
	ID          string
	HouseholdID string
	LocationID  string // vacío = todo el hogar
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	StartedBy   string
}

// AuditItem línea de auditoría: cantidad esperada (snapshot) vs contada.
type AuditItem struct {
	ID               string
	SessionID        string
	ItemID           string
	ProductID        string
	ExpectedQuantity decimal.Decimal
	CountedQuantity  *decimal.Decimal
	Adjusted         bool
}

// Discrepancy devuelve contado - esperado. ok es false si aún no se ha contado.
func (a *AuditItem) Discrepancy() (diff decimal.Decimal, ok bool) {
	if a.CountedQuantity == nil {
		return decimal.Zero, false
	}
	return a.CountedQuantity.Sub(a.ExpectedQuantity), true
}
