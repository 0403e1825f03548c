package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateShoppingListRequest entrada para crear una lista de compras.
type CreateShoppingListRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	StoreID string `json:"store_id" validate:"omitempty,uuid"`
}

// UpdateShoppingListRequest renombrar o cambiar la tienda de una lista.
type UpdateShoppingListRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	StoreID *string `json:"store_id" validate:"omitempty,uuid"`
}

// AddListItemRequest agrega un ítem. Con product_id el nombre y la unidad se toman del producto.
type AddListItemRequest struct {
	ProductID      string          `json:"product_id" validate:"omitempty,uuid"`
	Name           string          `json:"name" validate:"required_without=ProductID,max=200"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit" validate:"unit"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
}

// UpdateListItemRequest actualiza un ítem de la lista.
type UpdateListItemRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Quantity       *decimal.Decimal `json:"quantity"`
	Unit           *string          `json:"unit" validate:"omitempty,unit"`
	EstimatedPrice *decimal.Decimal `json:"estimated_price"`
	Checked        *bool            `json:"checked"`
}

// ShoppingListResponse lista con ítems y total estimado.
type ShoppingListResponse struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	StoreID        string                     `json:"store_id,omitempty"`
	Status         string                     `json:"status"`
	CompletedAt    *time.Time                 `json:"completed_at,omitempty"`
	Items          []ShoppingListItemResponse `json:"items"`
	EstimatedTotal decimal.Decimal            `json:"estimated_total"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// ShoppingListItemResponse ítem de la lista.
type ShoppingListItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id,omitempty"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	Checked        bool            `json:"checked"`
	Source         string          `json:"source"`
}

// CompleteListRequest cierre de la compra. Prices sobreescribe el precio unitario pagado por ítem.
type CompleteListRequest struct {
	StoreID        string                     `json:"store_id" validate:"omitempty,uuid"`
	PurchasedAt    *time.Time                 `json:"purchased_at"`
	AddToInventory bool                       `json:"add_to_inventory"`
	LocationID     string                     `json:"location_id" validate:"required_if=AddToInventory true,omitempty,uuid"`
	Prices         map[string]decimal.Decimal `json:"prices"`
}

// CompleteListResult resumen del cierre.
type CompleteListResult struct {
	ListID        string          `json:"list_id"`
	Purchases     int             `json:"purchases"`
	PriceRecords  int             `json:"price_records"`
	InventoryAdds int             `json:"inventory_adds"`
	Total         decimal.Decimal `json:"total"`
	Skipped       []SkippedLine   `json:"skipped,omitempty"`
}

// SkippedLine línea omitida en una operación por lotes.
type SkippedLine struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}
