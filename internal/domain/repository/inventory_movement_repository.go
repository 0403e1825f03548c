package repository

import (
	"context"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByItem(ctx context.Context, householdID, itemID string) ([]*entity.InventoryMovement, error)
	List(ctx context.Context, householdID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
