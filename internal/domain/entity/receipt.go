package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un recibo.
const (
	ReceiptSourceManual = "manual"
	ReceiptSourceUBL    = "ubl"
)

// Receipt representa un recibo/factura de compra del hogar.
type Receipt struct {
	ID          string
	HouseholdID string
	StoreID     string
	Number      string
	IssuedAt    time.Time
	Total       decimal.Decimal
	Currency    string
	Source      string
	Lines       []ReceiptLine
	CreatedAt   time.Time
}

// ReceiptLine línea de un recibo. ProductID vacío = línea sin producto asociado.
type ReceiptLine struct {
	ID          string
	ReceiptID   string
	Description string
	Barcode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	ProductID   string
}
