package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseTransaction registra la compra de un producto. Es la materia prima del
// análisis de patrones de compra.
type PurchaseTransaction struct {
	ID             string
	HouseholdID    string
	ProductID      string
	StoreID        string
	ReceiptID      string
	ShoppingListID string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Total          decimal.Decimal
	PurchasedAt    time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
