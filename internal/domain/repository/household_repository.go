package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// HouseholdRepository define el puerto de persistencia para Household.
type HouseholdRepository interface {
	Create(ctx context.Context, h *entity.Household) error
	GetByID(ctx context.Context, id string) (*entity.Household, error)
	Update(ctx context.Context, h *entity.Household) error
}
