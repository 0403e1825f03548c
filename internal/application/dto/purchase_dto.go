package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPurchaseRequest registro manual de una compra.
type RecordPurchaseRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	StoreID     string          `json:"store_id" validate:"omitempty,uuid"`
	Quantity    decimal.Decimal `json:"quantity" validate:"dgt0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PurchasedAt *time.Time      `json:"purchased_at"`
}

// PurchaseFilter filtros del listado de compras (query string).
type PurchaseFilter struct {
	ProductID string `query:"product_id"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`
	PageRequest
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	StoreID        string          `json:"store_id,omitempty"`
	ReceiptID      string          `json:"receipt_id,omitempty"`
	ShoppingListID string          `json:"shopping_list_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	PurchasedAt    time.Time       `json:"purchased_at"`
}

// CreateReceiptRequest recibo manual con líneas.
type CreateReceiptRequest struct {
	StoreID  string               `json:"store_id" validate:"omitempty,uuid"`
	Number   string               `json:"number" validate:"omitempty,max=60"`
	IssuedAt *time.Time           `json:"issued_at"`
	Lines    []ReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiptLineRequest línea de un recibo manual.
type ReceiptLineRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required_without=ProductID,max=250"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=32"`
	Quantity    decimal.Decimal `json:"quantity" validate:"dgt0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ParsedReceipt recibo extraído de un documento electrónico, antes de asociar productos.
type ParsedReceipt struct {
	SupplierName string
	SupplierID   string
	Number       string
	IssuedAt     time.Time
	Currency     string
	Total        decimal.Decimal
	Lines        []ParsedReceiptLine
}

// ParsedReceiptLine línea extraída de un documento electrónico.
type ParsedReceiptLine struct {
	Description string
	Barcode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ReceiptResponse recibo con sus líneas.
type ReceiptResponse struct {
	ID        string                `json:"id"`
	StoreID   string                `json:"store_id,omitempty"`
	Number    string                `json:"number,omitempty"`
	IssuedAt  time.Time             `json:"issued_at"`
	Total     decimal.Decimal       `json:"total"`
	Currency  string                `json:"currency"`
	Source    string                `json:"source"`
	Lines     []ReceiptLineResponse `json:"lines"`
	Matched   int                   `json:"matched"`
	Unmatched int                   `json:"unmatched"`
}

// ReceiptLineResponse línea de un recibo.
type ReceiptLineResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Barcode     string          `json:"barcode,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ProductID   string          `json:"product_id,omitempty"`
}

// RecordPriceRequest registro manual de un precio observado.
type RecordPriceRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	StoreID   string          `json:"store_id" validate:"omitempty,uuid"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"dgt0"`
}

// PriceBookDTO comparación de precios de un producto entre tiendas.
type PriceBookDTO struct {
	ProductID     string              `json:"product_id"`
	ProductName   string              `json:"product_name"`
	Observations  int                 `json:"observations"`
	MinPrice      decimal.Decimal     `json:"min_price"`
	MaxPrice      decimal.Decimal     `json:"max_price"`
	AveragePrice  decimal.Decimal     `json:"average_price"`
	LatestPrice   decimal.Decimal     `json:"latest_price"`
	BestStoreID   string              `json:"best_store_id,omitempty"`
	BestStoreName string              `json:"best_store_name,omitempty"`
	TrendPercent  decimal.Decimal     `json:"trend_percent"` // (último - primero) / primero * 100
	Stores        []StorePriceStatDTO `json:"stores"`
}

// StorePriceStatDTO estadísticas de precio en una tienda.
type StorePriceStatDTO struct {
	StoreID      string          `json:"store_id"`
	StoreName    string          `json:"store_name"`
	Observations int             `json:"observations"`
	LatestPrice  decimal.Decimal `json:"latest_price"`
	LatestAt     time.Time       `json:"latest_at"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
	AveragePrice decimal.Decimal `json:"average_price"`
}
