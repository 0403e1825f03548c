package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.WasteRepository = (*WasteRepo)(nil)

// WasteRepo eventos de desperdicio sobre PostgreSQL.
type WasteRepo struct {
	q Querier
}

// NewWasteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWasteRepository(q Querier) *WasteRepo {
	return &WasteRepo{q: q}
}

// Create persiste un evento de desperdicio.
func (r *WasteRepo) Create(ctx context.Context, w *entity.WasteEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO waste_events (id, household_id, product_id, item_id, quantity, unit, reason, estimated_cost,
			occurred_at, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		w.ID, w.HouseholdID, w.ProductID, nullable(w.ItemID), w.Quantity, w.Unit, w.Reason, w.EstimatedCost,
		w.OccurredAt, w.Notes, nullable(w.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert waste event: %w", err)
	}
	return nil
}

// List eventos del hogar en [from, to) en orden cronológico.
func (r *WasteRepo) List(ctx context.Context, householdID string, from, to time.Time) ([]*entity.WasteEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, household_id, product_id, item_id, quantity, unit, reason, estimated_cost, occurred_at, notes, created_by
		FROM waste_events
		WHERE household_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at`, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list waste events: %w", err)
	}
	defer rows.Close()
	var list []*entity.WasteEvent
	for rows.Next() {
		var (
			w               entity.WasteEvent
			itemID, creator *string
		)
		if err := rows.Scan(&w.ID, &w.HouseholdID, &w.ProductID, &itemID, &w.Quantity, &w.Unit, &w.Reason,
			&w.EstimatedCost, &w.OccurredAt, &w.Notes, &creator); err != nil {
			return nil, fmt.Errorf("scan waste event: %w", err)
		}
		w.ItemID, w.CreatedBy = deref(itemID), deref(creator)
		list = append(list, &w)
	}
	return list, rows.Err()
}
