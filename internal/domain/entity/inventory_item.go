package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock derivados de cantidad y vencimiento.
const (
	StockStatusOutOfStock   = "OUT_OF_STOCK"
	StockStatusExpired      = "EXPIRED"
	StockStatusExpiringSoon = "EXPIRING_SOON"
	StockStatusLowStock     = "LOW_STOCK"
	StockStatusInStock      = "IN_STOCK"
)

// ExpiringSoonWindow ventana en la que un ítem se considera "por vencer".
const ExpiringSoonWindow = 3 * 24 * time.Hour

// InventoryItem es un lote de un producto en una ubicación.
// Un mismo producto puede tener varios lotes con fechas de vencimiento distintas.
type InventoryItem struct {
	ID          string
	HouseholdID string
	ProductID   string
	LocationID  string
	Quantity    decimal.Decimal
	Unit        string
	UnitCost    decimal.Decimal
	PurchasedAt time.Time
	ExpiresAt   *time.Time
	OpenedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status calcula el estado del lote. minQuantity es el mínimo del producto (cero si no es staple).
func (i *InventoryItem) Status(now time.Time, minQuantity decimal.Decimal) string {
	if i.Quantity.LessThanOrEqual(decimal.Zero) {
		return StockStatusOutOfStock
	}
	if i.ExpiresAt != nil {
		if !i.ExpiresAt.After(now) {
			return StockStatusExpired
		}
		if i.ExpiresAt.Sub(now) <= ExpiringSoonWindow {
			return StockStatusExpiringSoon
		}
	}
	if minQuantity.GreaterThan(decimal.Zero) && i.Quantity.LessThan(minQuantity) {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

// Usable indica si el lote cuenta como existencia en at: cantidad > 0 y sin vencer.
func (i *InventoryItem) Usable(at time.Time) bool {
	if i.Quantity.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return i.ExpiresAt == nil || i.ExpiresAt.After(at)
}

// DaysUntilExpiry devuelve los días enteros hasta el vencimiento (negativo si ya venció).
// ok es false cuando el lote no tiene fecha de vencimiento.
func (i *InventoryItem) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if i.ExpiresAt == nil {
		return 0, false
	}
	return int(math.Floor(i.ExpiresAt.Sub(now).Hours() / 24)), true
}
