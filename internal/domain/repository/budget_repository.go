package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// BudgetRepository define el puerto de persistencia para BudgetTarget.
type BudgetRepository interface {
	// Upsert crea o reemplaza el presupuesto del mes y categoría.
	Upsert(ctx context.Context, b *entity.BudgetTarget) error
	ListByMonth(ctx context.Context, householdID, month string) ([]*entity.BudgetTarget, error)
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, householdID, id string) error
}
