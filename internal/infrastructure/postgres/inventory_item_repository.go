package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, household_id, product_id, location_id, quantity, unit, unit_cost, purchased_at, expires_at,
	opened_at, created_at, updated_at`

// InventoryItemRepo lotes de inventario sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un nuevo lote.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.HouseholdID, item.ProductID, item.LocationID, item.Quantity, item.Unit, item.UnitCost,
		item.PurchasedAt, item.ExpiresAt, item.OpenedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un lote del hogar.
func (r *InventoryItemRepo) GetByID(ctx context.Context, householdID, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item",
		`SELECT `+itemColumns+` FROM inventory_items WHERE household_id = $1 AND id = $2`, householdID, id)
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, householdID, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item for update",
		`SELECT `+itemColumns+` FROM inventory_items WHERE household_id = $1 AND id = $2 FOR UPDATE`, householdID, id)
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// Update persiste cantidad, ubicación, costo y fechas del lote.
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE inventory_items SET location_id = $3, quantity = $4, unit = $5, unit_cost = $6,
			expires_at = $7, opened_at = $8, updated_at = $9
		WHERE household_id = $1 AND id = $2`,
		item.HouseholdID, item.ID, item.LocationID, item.Quantity, item.Unit, item.UnitCost,
		item.ExpiresAt, item.OpenedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina un lote. Los movimientos conservan item_id NULL.
func (r *InventoryItemRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// List lotes del hogar en orden FIFO (fecha de compra).
func (r *InventoryItemRepo) List(ctx context.Context, householdID string, f repository.InventoryItemFilter) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE household_id = $1
		  AND ($2 = '' OR location_id::text = $2)
		  AND ($3 = '' OR product_id::text = $3)
		  AND (NOT $4 OR quantity > 0)
		ORDER BY purchased_at, id`
	return r.list(ctx, query, householdID, f.LocationID, f.ProductID, f.InStockOnly)
}

// ListExpiringBefore lotes con existencias que vencen en o antes de before.
func (r *InventoryItemRepo) ListExpiringBefore(ctx context.Context, householdID string, before time.Time) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE household_id = $1 AND quantity > 0 AND expires_at IS NOT NULL AND expires_at <= $2
		ORDER BY expires_at`
	return r.list(ctx, query, householdID, before)
}

func (r *InventoryItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// StockByProduct suma de existencias utilizables por producto; los lotes vencidos no cuentan.
func (r *InventoryItemRepo) StockByProduct(ctx context.Context, householdID string, at time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(quantity)
		FROM inventory_items
		WHERE household_id = $1 AND quantity > 0
		  AND (expires_at IS NULL OR expires_at > $2)
		GROUP BY product_id`, householdID, at)
	if err != nil {
		return nil, fmt.Errorf("stock by product: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			productID string
			qty       decimal.Decimal
		)
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := row.Scan(&it.ID, &it.HouseholdID, &it.ProductID, &it.LocationID, &it.Quantity, &it.Unit,
		&it.UnitCost, &it.PurchasedAt, &it.ExpiresAt, &it.OpenedAt, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
