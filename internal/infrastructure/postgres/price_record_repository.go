package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.PriceRecordRepository = (*PriceRecordRepo)(nil)

// PriceRecordRepo historial de precios sobre PostgreSQL (usable con pool o tx).
type PriceRecordRepo struct {
	q Querier
}

// NewPriceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRecordRepository(q Querier) *PriceRecordRepo {
	return &PriceRecordRepo{q: q}
}

// Create persiste una observación de precio.
func (r *PriceRecordRepo) Create(ctx context.Context, rec *entity.PriceRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_records (id, household_id, product_id, store_id, unit_price, quantity, source, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.HouseholdID, rec.ProductID, nullable(rec.StoreID), rec.UnitPrice, rec.Quantity, rec.Source, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price record: %w", err)
	}
	return nil
}

// ListByProduct historial del producto, del más antiguo al más reciente.
func (r *PriceRecordRepo) ListByProduct(ctx context.Context, householdID, productID string) ([]*entity.PriceRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, household_id, product_id, store_id, unit_price, quantity, source, recorded_at
		FROM price_records
		WHERE household_id = $1 AND product_id = $2
		ORDER BY recorded_at, id`, householdID, productID)
	if err != nil {
		return nil, fmt.Errorf("list price records: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceRecord
	for rows.Next() {
		var (
			p       entity.PriceRecord
			storeID *string
		)
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.ProductID, &storeID, &p.UnitPrice, &p.Quantity,
			&p.Source, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		p.StoreID = deref(storeID)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// LatestByProducts último precio unitario por producto (DISTINCT ON sobre recorded_at).
func (r *PriceRecordRepo) LatestByProducts(ctx context.Context, householdID string, productIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (product_id) product_id, unit_price
		FROM price_records
		WHERE household_id = $1 AND product_id = ANY($2::uuid[])
		ORDER BY product_id, recorded_at DESC`, householdID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("latest prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID string
			price     decimal.Decimal
		)
		if err := rows.Scan(&productID, &price); err != nil {
			return nil, fmt.Errorf("scan latest price: %w", err)
		}
		out[productID] = price
	}
	return out, rows.Err()
}
