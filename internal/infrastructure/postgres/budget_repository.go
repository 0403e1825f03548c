package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.BudgetRepository = (*BudgetRepo)(nil)

// BudgetRepo implementación del puerto BudgetRepository sobre PostgreSQL.
type BudgetRepo struct {
	q Querier
}

// NewBudgetRepository construye el adaptador de presupuestos. Pasar pool o tx (Querier).
func NewBudgetRepository(q Querier) *BudgetRepo {
	return &BudgetRepo{q: q}
}

// Upsert crea o reemplaza el presupuesto del mes y categoría. b.ID queda con el ID de la fila vigente.
func (r *BudgetRepo) Upsert(ctx context.Context, b *entity.BudgetTarget) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO budget_targets (id, household_id, month, category, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (household_id, month, category) DO UPDATE SET
			amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		b.ID, b.HouseholdID, b.Month, b.Category, b.Amount, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// ListByMonth presupuestos del mes ordenados por categoría (el total, sin categoría, primero).
func (r *BudgetRepo) ListByMonth(ctx context.Context, householdID, month string) ([]*entity.BudgetTarget, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, household_id, month, category, amount, created_at, updated_at
		FROM budget_targets WHERE household_id = $1 AND month = $2 ORDER BY category`,
		householdID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()
	var list []*entity.BudgetTarget
	for rows.Next() {
		var b entity.BudgetTarget
		if err := rows.Scan(&b.ID, &b.HouseholdID, &b.Month, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Delete elimina un presupuesto. domain.ErrNotFound si no existe en el hogar.
func (r *BudgetRepo) Delete(ctx context.Context, householdID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM budget_targets WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
