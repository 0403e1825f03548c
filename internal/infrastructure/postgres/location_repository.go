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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación. Nombre repetido en el hogar => domain.ErrDuplicate.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.StorageLocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO storage_locations (id, household_id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		loc.ID, loc.HouseholdID, loc.Name, loc.Kind, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación del hogar.
func (r *LocationRepo) GetByID(ctx context.Context, householdID, id string) (*entity.StorageLocation, error) {
	var l entity.StorageLocation
	err := r.q.QueryRow(ctx, `
		SELECT id, household_id, name, kind, created_at, updated_at
		FROM storage_locations WHERE household_id = $1 AND id = $2`, householdID, id,
	).Scan(&l.ID, &l.HouseholdID, &l.Name, &l.Kind, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update renombra o cambia el tipo de la ubicación.
func (r *LocationRepo) Update(ctx context.Context, loc *entity.StorageLocation) error {
	_, err := r.q.Exec(ctx, `
		UPDATE storage_locations SET name = $3, kind = $4, updated_at = $5
		WHERE household_id = $1 AND id = $2`,
		loc.HouseholdID, loc.ID, loc.Name, loc.Kind, loc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByHousehold ubicaciones del hogar ordenadas por nombre.
func (r *LocationRepo) ListByHousehold(ctx context.Context, householdID string) ([]*entity.StorageLocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, household_id, name, kind, created_at, updated_at
		FROM storage_locations WHERE household_id = $1 ORDER BY name`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StorageLocation
	for rows.Next() {
		var l entity.StorageLocation
		if err := rows.Scan(&l.ID, &l.HouseholdID, &l.Name, &l.Kind, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina la ubicación. Si todavía tiene lotes => domain.ErrConflict.
func (r *LocationRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM storage_locations WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
