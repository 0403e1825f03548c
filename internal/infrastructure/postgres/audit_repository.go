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

var _ repository.AuditRepository = (*AuditRepo)(nil)

const (
	auditSessionColumns = `id, household_id, location_id, status, started_at, completed_at, started_by`
	auditItemColumns    = `id, session_id, item_id, product_id, expected_quantity, counted_quantity, adjusted`
)

// AuditRepo sesiones de auditoría de inventario sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// CreateSession abre una sesión. Solo una sesión abierta por hogar (índice parcial) => domain.ErrConflict.
func (r *AuditRepo) CreateSession(ctx context.Context, s *entity.AuditSession) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_sessions (`+auditSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.HouseholdID, nullable(s.LocationID), s.Status, s.StartedAt, s.CompletedAt, nullable(s.StartedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert audit session: %w", err)
	}
	return nil
}

// GetSession obtiene una sesión del hogar.
func (r *AuditRepo) GetSession(ctx context.Context, householdID, id string) (*entity.AuditSession, error) {
	return r.getSession(ctx,
		`SELECT `+auditSessionColumns+` FROM audit_sessions WHERE household_id = $1 AND id = $2`, householdID, id)
}

// GetOpenSession sesión abierta del hogar, si existe.
func (r *AuditRepo) GetOpenSession(ctx context.Context, householdID string) (*entity.AuditSession, error) {
	return r.getSession(ctx,
		`SELECT `+auditSessionColumns+` FROM audit_sessions WHERE household_id = $1 AND status = $2 LIMIT 1`,
		householdID, entity.AuditOpen)
}

func (r *AuditRepo) getSession(ctx context.Context, query string, args ...any) (*entity.AuditSession, error) {
	s, err := scanAuditSession(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit session: %w", err)
	}
	return s, nil
}

// UpdateSession persiste estado y fecha de cierre.
func (r *AuditRepo) UpdateSession(ctx context.Context, s *entity.AuditSession) error {
	_, err := r.q.Exec(ctx, `
		UPDATE audit_sessions SET status = $3, completed_at = $4
		WHERE household_id = $1 AND id = $2`,
		s.HouseholdID, s.ID, s.Status, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update audit session: %w", err)
	}
	return nil
}

// ListSessions sesiones del hogar, de la más reciente a la más antigua.
func (r *AuditRepo) ListSessions(ctx context.Context, householdID string, limit, offset int) ([]*entity.AuditSession, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+auditSessionColumns+`
		FROM audit_sessions WHERE household_id = $1
		ORDER BY started_at DESC LIMIT $2 OFFSET $3`, householdID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list audit sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditSession
	for rows.Next() {
		s, err := scanAuditSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CreateItems inserta el snapshot de la sesión en un solo batch.
func (r *AuditRepo) CreateItems(ctx context.Context, items []*entity.AuditItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO audit_items (`+auditItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.SessionID, it.ItemID, it.ProductID, it.ExpectedQuantity, it.CountedQuantity, it.Adjusted)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert audit item: %w", err)
		}
	}
	return nil
}

// ListItems líneas de la sesión.
func (r *AuditRepo) ListItems(ctx context.Context, sessionID string) ([]*entity.AuditItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+auditItemColumns+` FROM audit_items WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list audit items: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditItem
	for rows.Next() {
		it, err := scanAuditItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetItem obtiene una línea de la sesión.
func (r *AuditRepo) GetItem(ctx context.Context, sessionID, id string) (*entity.AuditItem, error) {
	it, err := scanAuditItem(r.q.QueryRow(ctx,
		`SELECT `+auditItemColumns+` FROM audit_items WHERE session_id = $1 AND id = $2`, sessionID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit item: %w", err)
	}
	return it, nil
}

// UpdateItem registra el conteo o el ajuste aplicado.
func (r *AuditRepo) UpdateItem(ctx context.Context, item *entity.AuditItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE audit_items SET counted_quantity = $3, adjusted = $4
		WHERE session_id = $1 AND id = $2`,
		item.SessionID, item.ID, item.CountedQuantity, item.Adjusted,
	)
	if err != nil {
		return fmt.Errorf("update audit item: %w", err)
	}
	return nil
}

func scanAuditSession(row pgx.Row) (*entity.AuditSession, error) {
	var (
		s                     entity.AuditSession
		locationID, startedBy *string
	)
	if err := row.Scan(&s.ID, &s.HouseholdID, &locationID, &s.Status, &s.StartedAt, &s.CompletedAt, &startedBy); err != nil {
		return nil, err
	}
	s.LocationID, s.StartedBy = deref(locationID), deref(startedBy)
	return &s, nil
}

func scanAuditItem(row pgx.Row) (*entity.AuditItem, error) {
	var it entity.AuditItem
	if err := row.Scan(&it.ID, &it.SessionID, &it.ItemID, &it.ProductID, &it.ExpectedQuantity,
		&it.CountedQuantity, &it.Adjusted); err != nil {
		return nil, err
	}
	return &it, nil
}
