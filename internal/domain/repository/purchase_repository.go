package repository

import (
	"context"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
)

// PurchaseFilter filtros del listado de compras.
type PurchaseFilter struct {
	ProductID string
	From, To  *time.Time
	Limit     int
	Offset    int
}

// PurchaseRepository define el puerto de persistencia para PurchaseTransaction.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.PurchaseTransaction) error
	List(ctx context.Context, householdID string, f PurchaseFilter) ([]*entity.PurchaseTransaction, error)
	// ListHistory historial de compras desde since, proyectado para el analizador de patrones.
	ListHistory(ctx context.Context, householdID string, since time.Time) ([]pattern.PurchaseRecord, error)
}
