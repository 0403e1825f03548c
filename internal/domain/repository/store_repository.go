package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, householdID, id string) (*entity.Store, error)
	// FindByName busca por nombre exacto sin distinguir mayúsculas.
	FindByName(ctx context.Context, householdID, name string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	ListByHousehold(ctx context.Context, householdID string) ([]*entity.Store, error)
	Delete(ctx context.Context, householdID, id string) error
}
