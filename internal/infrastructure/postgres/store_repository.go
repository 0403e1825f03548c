package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

const storeColumns = `id, household_id, name, address, created_at, updated_at`

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una nueva tienda.
func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stores (`+storeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		store.ID, store.HouseholdID, store.Name, store.Address, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda del hogar.
func (r *StoreRepo) GetByID(ctx context.Context, householdID, id string) (*entity.Store, error) {
	return r.getOne(ctx, "get store",
		`SELECT `+storeColumns+` FROM stores WHERE household_id = $1 AND id = $2`, householdID, id)
}

// FindByName busca por nombre exacto sin distinguir mayúsculas.
func (r *StoreRepo) FindByName(ctx context.Context, householdID, name string) (*entity.Store, error) {
	return r.getOne(ctx, "find store by name",
		`SELECT `+storeColumns+` FROM stores WHERE household_id = $1 AND lower(name) = lower($2) LIMIT 1`,
		householdID, strings.TrimSpace(name))
}

func (r *StoreRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx, query, args...).Scan(&s.ID, &s.HouseholdID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Update actualiza nombre y dirección.
func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stores SET name = $3, address = $4, updated_at = $5
		WHERE household_id = $1 AND id = $2`,
		store.HouseholdID, store.ID, store.Name, store.Address, store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// ListByHousehold tiendas del hogar ordenadas por nombre.
func (r *StoreRepo) ListByHousehold(ctx context.Context, householdID string) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores WHERE household_id = $1 ORDER BY name`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.HouseholdID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina la tienda. Las compras y precios conservan el histórico con store_id NULL.
func (r *StoreRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stores WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}
