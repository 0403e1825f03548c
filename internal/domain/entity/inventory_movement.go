package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeADD     = "ADD"     // entrada (compra, regalo, etc.)
	MovementTypeCONSUME = "CONSUME" // consumo
	MovementTypeADJUST  = "ADJUST"  // ajuste (auditoría)
	MovementTypeMOVE    = "MOVE"    // traslado entre ubicaciones
	MovementTypeDISCARD = "DISCARD" // desperdicio
)

// InventoryMovement representa un movimiento sobre un lote de inventario.
type InventoryMovement struct {
	ID            string
	TransactionID string
	HouseholdID   string
	ProductID     string
	ItemID        string
	LocationID    string
	Type          string
	Quantity      decimal.Decimal // positivo entrada/ajuste+, negativo salida
	UnitCost      decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
