package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// InventoryItemFilter filtros del listado de lotes.
type InventoryItemFilter struct {
	LocationID  string
	ProductID   string
	InStockOnly bool // solo cantidad > 0
}

// InventoryItemRepository define el puerto de persistencia para los lotes de inventario.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, householdID, id string) (*entity.InventoryItem, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, householdID, id string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, householdID, id string) error
	List(ctx context.Context, householdID string, f InventoryItemFilter) ([]*entity.InventoryItem, error)
	// ListExpiringBefore lotes con existencias cuyo vencimiento es <= before, del más próximo al más lejano.
	ListExpiringBefore(ctx context.Context, householdID string, before time.Time) ([]*entity.InventoryItem, error)
	// StockByProduct suma de existencias utilizables por producto en at:
	// lotes con cantidad > 0 y sin vencimiento o con vencimiento posterior a at.
	StockByProduct(ctx context.Context, householdID string, at time.Time) (map[string]decimal.Decimal, error)
}
