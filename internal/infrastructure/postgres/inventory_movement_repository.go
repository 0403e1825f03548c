package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, transaction_id, household_id, product_id, item_id, location_id, type, quantity, unit_cost,
	date, created_at, created_by`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TransactionID, movement.HouseholdID, movement.ProductID,
		nullable(movement.ItemID), nullable(movement.LocationID), movement.Type, movement.Quantity,
		movement.UnitCost, movement.Date, movement.CreatedAt, nullable(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByItem historial de movimientos de un lote, en orden cronológico.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, householdID, itemID string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE household_id = $1 AND item_id = $2
		ORDER BY date, created_at`
	return r.list(ctx, "list by item", query, householdID, itemID)
}

// List movimientos del hogar en [from, to), del más reciente al más antiguo.
func (r *InventoryMovementRepo) List(ctx context.Context, householdID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE household_id = $1`
	args := []any{householdID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date < $%d", pos)
		args = append(args, *to)
		pos++
	}
	lim, off := pageArgs(limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, lim, off)
	return r.list(ctx, "list movements", query, args...)
}

func (r *InventoryMovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var (
			m                           entity.InventoryMovement
			itemID, locationID, creator *string
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.HouseholdID, &m.ProductID, &itemID, &locationID,
			&m.Type, &m.Quantity, &m.UnitCost, &m.Date, &m.CreatedAt, &creator); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.ItemID, m.LocationID, m.CreatedBy = deref(itemID), deref(locationID), deref(creator)
		list = append(list, &m)
	}
	return list, rows.Err()
}
