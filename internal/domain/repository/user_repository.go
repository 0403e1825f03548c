package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*entity.User, error)
}
