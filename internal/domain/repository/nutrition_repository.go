package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// NutritionRepository define el puerto de persistencia de la información nutricional.
type NutritionRepository interface {
	Upsert(ctx context.Context, n *entity.NutritionEntry) error
	GetByProduct(ctx context.Context, householdID, productID string) (*entity.NutritionEntry, error)
	ListByProducts(ctx context.Context, householdID string, productIDs []string) (map[string]*entity.NutritionEntry, error)
}
