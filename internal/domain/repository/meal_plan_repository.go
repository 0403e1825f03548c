package repository

import (
	"context"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// MealPlanRepository define el puerto de persistencia para MealPlan e ingredientes.
type MealPlanRepository interface {
	Create(ctx context.Context, m *entity.MealPlan) error
	GetByID(ctx context.Context, householdID, id string) (*entity.MealPlan, error)
	// Update reemplaza los datos y la lista completa de ingredientes.
	Update(ctx context.Context, m *entity.MealPlan) error
	Delete(ctx context.Context, householdID, id string) error
	// ListByRange comidas con ingredientes entre from y to (inclusive), por fecha.
	ListByRange(ctx context.Context, householdID string, from, to time.Time) ([]*entity.MealPlan, error)
}
