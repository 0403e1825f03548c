package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para StorageLocation.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.StorageLocation) error
	GetByID(ctx context.Context, householdID, id string) (*entity.StorageLocation, error)
	Update(ctx context.Context, loc *entity.StorageLocation) error
	ListByHousehold(ctx context.Context, householdID string) ([]*entity.StorageLocation, error)
	Delete(ctx context.Context, householdID, id string) error
}
