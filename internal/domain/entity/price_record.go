package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un registro de precio.
const (
	PriceSourcePurchase = "purchase"
	PriceSourceReceipt  = "receipt"
	PriceSourceManual   = "manual"
)

// PriceRecord es una observación de precio unitario de un producto en una tienda.
type PriceRecord struct {
	ID          string
	HouseholdID string
	ProductID   string
	StoreID     string // vacío = tienda desconocida
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Source      string
	RecordedAt  time.Time
}
