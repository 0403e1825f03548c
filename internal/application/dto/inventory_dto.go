package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada HTTP para registrar un movimiento de inventario.
//
// ADD: product_id, location_id, quantity > 0 (unit_cost, expires_at opcionales).
// CONSUME / DISCARD: item_id, quantity > 0.
// ADJUST: item_id, quantity con signo (delta).
// MOVE: item_id, to_location_id, quantity > 0.
type RegisterMovementRequest struct {
	Type         string          `json:"type" validate:"required,oneof=ADD CONSUME ADJUST MOVE DISCARD"`
	ProductID    string          `json:"product_id" validate:"omitempty,uuid"`
	ItemID       string          `json:"item_id" validate:"omitempty,uuid"`
	LocationID   string          `json:"location_id" validate:"omitempty,uuid"`
	ToLocationID string          `json:"to_location_id" validate:"omitempty,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ExpiresAt    *time.Time      `json:"expires_at"`
}

// MovementResultDTO resultado de un movimiento: transacción y lotes afectados.
type MovementResultDTO struct {
	TransactionID string                  `json:"transaction_id"`
	Items         []InventoryItemResponse `json:"items"`
}

// InventoryItemFilter filtros del listado de lotes (query string).
type InventoryItemFilter struct {
	LocationID string `query:"location_id"`
	ProductID  string `query:"product_id"`
	Status     string `query:"status"`
}

// InventoryItemResponse salida de un lote con su estado derivado.
type InventoryItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	LocationID      string          `json:"location_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	PurchasedAt     time.Time       `json:"purchased_at"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	OpenedAt        *time.Time      `json:"opened_at,omitempty"`
	Status          string          `json:"status"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	ItemID        string          `json:"item_id"`
	LocationID    string          `json:"location_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Date          time.Time       `json:"date"`
}

// ReplenishmentSuggestionDTO un producto básico bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit"`
	OnHand            decimal.Decimal `json:"on_hand"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	TargetQuantity    decimal.Decimal `json:"target_quantity"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	AveragePrice      decimal.Decimal `json:"average_price"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Priority          int             `json:"priority"` // 1 = más urgente
}

// AddToListRequest agrega productos (o todas las sugerencias si ProductIDs está vacío) a una lista.
type AddToListRequest struct {
	ListID     string   `json:"list_id" validate:"required,uuid"`
	ProductIDs []string `json:"product_ids" validate:"omitempty,dive,uuid"`
}

// AddToListResult resumen de la operación.
type AddToListResult struct {
	ListID string `json:"list_id"`
	Added  int    `json:"added"`
}

// ExpiringItemDTO lote por vencer o vencido.
type ExpiringItemDTO struct {
	ItemID        string          `json:"item_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	LocationID    string          `json:"location_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	ExpiresAt     time.Time       `json:"expires_at"`
	DaysLeft      int             `json:"days_left"`
	Status        string          `json:"status"`
	EstimatedLoss decimal.Decimal `json:"estimated_loss"`
}

// StartAuditRequest inicio de una sesión de auditoría.
type StartAuditRequest struct {
	LocationID string `json:"location_id" validate:"omitempty,uuid"`
}

// RecordCountRequest conteo físico de un ítem de auditoría.
type RecordCountRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// AuditSessionResponse sesión de auditoría con sus ítems.
type AuditSessionResponse struct {
	ID          string              `json:"id"`
	LocationID  string              `json:"location_id,omitempty"`
	Status      string              `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Items       []AuditItemResponse `json:"items,omitempty"`
}

// AuditItemResponse línea de auditoría.
type AuditItemResponse struct {
	ID               string           `json:"id"`
	ItemID           string           `json:"item_id"`
	ProductID        string           `json:"product_id"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity"`
	CountedQuantity  *decimal.Decimal `json:"counted_quantity,omitempty"`
	Adjusted         bool             `json:"adjusted"`
}

// AuditReportDTO reporte de discrepancias al cerrar una auditoría.
type AuditReportDTO struct {
	SessionID     string                `json:"session_id"`
	TransactionID string                `json:"transaction_id,omitempty"`
	Counted       int                   `json:"counted"`
	Uncounted     int                   `json:"uncounted"`
	Discrepancies []AuditDiscrepancyDTO `json:"discrepancies"`
}

// AuditDiscrepancyDTO diferencia entre lo esperado y lo contado.
type AuditDiscrepancyDTO struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Expected  decimal.Decimal `json:"expected"`
	Counted   decimal.Decimal `json:"counted"`
	Delta     decimal.Decimal `json:"delta"`
}

// LogWasteRequest registro de desperdicio.
type LogWasteRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ItemID    string          `json:"item_id" validate:"omitempty,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"dgt0"`
	Unit      string          `json:"unit" validate:"unit"`
	Reason    string          `json:"reason" validate:"required,oneof=expired spoiled leftover damaged other"`
	Notes     string          `json:"notes" validate:"omitempty,max=500"`
}

// WasteEventResponse salida de un evento de desperdicio.
type WasteEventResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ItemID        string          `json:"item_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Reason        string          `json:"reason"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// WasteSummaryDTO resumen de desperdicio en un período.
type WasteSummaryDTO struct {
	From      time.Time           `json:"from"`
	To        time.Time           `json:"to"`
	Events    int                 `json:"events"`
	TotalCost decimal.Decimal     `json:"total_cost"`
	ByReason  []WasteByReasonDTO  `json:"by_reason"`
	ByProduct []WasteByProductDTO `json:"by_product"`
}

// WasteByReasonDTO total por motivo.
type WasteByReasonDTO struct {
	Reason string          `json:"reason"`
	Events int             `json:"events"`
	Cost   decimal.Decimal `json:"cost"`
}

// WasteByProductDTO total por producto.
type WasteByProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
}
