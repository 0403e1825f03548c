package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, household_id, product_id, store_id, receipt_id, shopping_list_id, quantity, unit_price, total,
	purchased_at, created_at, created_by`

// PurchaseRepo compras del hogar sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste una compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.PurchaseTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_transactions (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.HouseholdID, p.ProductID, nullable(p.StoreID), nullable(p.ReceiptID), nullable(p.ShoppingListID),
		p.Quantity, p.UnitPrice, p.Total, p.PurchasedAt, p.CreatedAt, nullable(p.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// List compras del hogar en [From, To), de la más reciente a la más antigua.
func (r *PurchaseRepo) List(ctx context.Context, householdID string, f repository.PurchaseFilter) ([]*entity.PurchaseTransaction, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchase_transactions WHERE household_id = $1`
	args := []any{householdID}
	pos := 2
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND purchased_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND purchased_at < $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY purchased_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseTransaction
	for rows.Next() {
		var (
			p                              entity.PurchaseTransaction
			storeID, receiptID, listID, by *string
		)
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.ProductID, &storeID, &receiptID, &listID,
			&p.Quantity, &p.UnitPrice, &p.Total, &p.PurchasedAt, &p.CreatedAt, &by); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.StoreID, p.ReceiptID, p.ShoppingListID, p.CreatedBy = deref(storeID), deref(receiptID), deref(listID), deref(by)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListHistory historial desde since en orden cronológico, proyectado para el analizador de patrones.
func (r *PurchaseRepo) ListHistory(ctx context.Context, householdID string, since time.Time) ([]pattern.PurchaseRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity, purchased_at
		FROM purchase_transactions
		WHERE household_id = $1 AND purchased_at >= $2
		ORDER BY purchased_at`, householdID, since)
	if err != nil {
		return nil, fmt.Errorf("list purchase history: %w", err)
	}
	defer rows.Close()
	var out []pattern.PurchaseRecord
	for rows.Next() {
		var (
			rec pattern.PurchaseRecord
			qty decimal.Decimal
		)
		if err := rows.Scan(&rec.ProductID, &qty, &rec.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase history: %w", err)
		}
		rec.Quantity = qty.InexactFloat64()
		out = append(out, rec)
	}
	return out, rows.Err()
}
