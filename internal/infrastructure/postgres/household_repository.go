package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.HouseholdRepository = (*HouseholdRepo)(nil)

// HouseholdRepo implementación del puerto HouseholdRepository sobre PostgreSQL.
type HouseholdRepo struct {
	q Querier
}

// NewHouseholdRepository construye el adaptador de persistencia para hogares. Pasar pool o tx (Querier).
func NewHouseholdRepository(q Querier) *HouseholdRepo {
	return &HouseholdRepo{q: q}
}

// Create persiste un nuevo hogar.
func (r *HouseholdRepo) Create(ctx context.Context, h *entity.Household) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO households (id, name, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.Name, h.Currency, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert household: %w", err)
	}
	return nil
}

// GetByID obtiene un hogar por ID.
func (r *HouseholdRepo) GetByID(ctx context.Context, id string) (*entity.Household, error) {
	var h entity.Household
	err := r.q.QueryRow(ctx, `
		SELECT id, name, currency, created_at, updated_at
		FROM households WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.Currency, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get household: %w", err)
	}
	return &h, nil
}

// Update actualiza nombre y moneda del hogar.
func (r *HouseholdRepo) Update(ctx context.Context, h *entity.Household) error {
	_, err := r.q.Exec(ctx, `
		UPDATE households SET name = $2, currency = $3, updated_at = $4
		WHERE id = $1`,
		h.ID, h.Name, h.Currency, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update household: %w", err)
	}
	return nil
}
