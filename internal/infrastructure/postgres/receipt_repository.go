package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

const receiptColumns = `id, household_id, store_id, number, issued_at, total, currency, source, created_at`

// ReceiptRepo recibos y sus líneas sobre PostgreSQL (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create inserta el recibo y sus líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO receipts (`+receiptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rc.ID, rc.HouseholdID, nullable(rc.StoreID), nullable(rc.Number), rc.IssuedAt, rc.Total, rc.Currency,
		rc.Source, rc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	if len(rc.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, l := range rc.Lines {
		batch.Queue(`
			INSERT INTO receipt_lines (id, receipt_id, line_no, description, barcode, quantity, unit_price, line_total, product_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, rc.ID, i+1, l.Description, l.Barcode, l.Quantity, l.UnitPrice, l.LineTotal, nullable(l.ProductID))
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rc.Lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert receipt line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el recibo con sus líneas.
func (r *ReceiptRepo) GetByID(ctx context.Context, householdID, id string) (*entity.Receipt, error) {
	rc, err := scanReceipt(r.q.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE household_id = $1 AND id = $2`, householdID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, description, barcode, quantity, unit_price, line_total, product_id
		FROM receipt_lines WHERE receipt_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list receipt lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l         entity.ReceiptLine
			productID *string
		)
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.Description, &l.Barcode, &l.Quantity, &l.UnitPrice,
			&l.LineTotal, &productID); err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		l.ProductID = deref(productID)
		rc.Lines = append(rc.Lines, l)
	}
	return rc, rows.Err()
}

// List recibos del hogar sin líneas, del más reciente al más antiguo.
func (r *ReceiptRepo) List(ctx context.Context, householdID string, limit, offset int) ([]*entity.Receipt, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+receiptColumns+`
		FROM receipts WHERE household_id = $1
		ORDER BY issued_at DESC LIMIT $2 OFFSET $3`, householdID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var (
		rc              entity.Receipt
		storeID, number *string
	)
	if err := row.Scan(&rc.ID, &rc.HouseholdID, &storeID, &number, &rc.IssuedAt, &rc.Total, &rc.Currency,
		&rc.Source, &rc.CreatedAt); err != nil {
		return nil, err
	}
	rc.StoreID, rc.Number = deref(storeID), deref(number)
	return &rc, nil
}
