package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.NutritionRepository = (*NutritionRepo)(nil)

const nutritionColumns = `product_id, household_id, calories, protein, carbohydrates, fat, fiber, sugar, sodium,
	serving_size_grams, source, updated_at`

// NutritionRepo implementación del puerto NutritionRepository sobre PostgreSQL.
type NutritionRepo struct {
	q Querier
}

// NewNutritionRepository construye el adaptador de información nutricional. Pasar pool o tx (Querier).
func NewNutritionRepository(q Querier) *NutritionRepo {
	return &NutritionRepo{q: q}
}

// Upsert crea o reemplaza la ficha nutricional del producto (una por producto).
func (r *NutritionRepo) Upsert(ctx context.Context, n *entity.NutritionEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO nutrition_entries (`+nutritionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id) DO UPDATE SET
			calories = EXCLUDED.calories, protein = EXCLUDED.protein, carbohydrates = EXCLUDED.carbohydrates,
			fat = EXCLUDED.fat, fiber = EXCLUDED.fiber, sugar = EXCLUDED.sugar, sodium = EXCLUDED.sodium,
			serving_size_grams = EXCLUDED.serving_size_grams, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at`,
		n.ProductID, n.HouseholdID, n.Calories, n.Protein, n.Carbohydrates, n.Fat, n.Fiber, n.Sugar, n.Sodium,
		n.ServingSizeGrams, n.Source, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert nutrition: %w", err)
	}
	return nil
}

// GetByProduct ficha nutricional del producto, si existe.
func (r *NutritionRepo) GetByProduct(ctx context.Context, householdID, productID string) (*entity.NutritionEntry, error) {
	n, err := scanNutrition(r.q.QueryRow(ctx,
		`SELECT `+nutritionColumns+` FROM nutrition_entries WHERE household_id = $1 AND product_id = $2`,
		householdID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nutrition: %w", err)
	}
	return n, nil
}

// ListByProducts fichas de los productos indicados, indexadas por producto.
func (r *NutritionRepo) ListByProducts(ctx context.Context, householdID string, productIDs []string) (map[string]*entity.NutritionEntry, error) {
	out := make(map[string]*entity.NutritionEntry, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+nutritionColumns+` FROM nutrition_entries WHERE household_id = $1 AND product_id = ANY($2::uuid[])`,
		householdID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		n, err := scanNutrition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nutrition: %w", err)
		}
		out[n.ProductID] = n
	}
	return out, rows.Err()
}

func scanNutrition(row pgx.Row) (*entity.NutritionEntry, error) {
	var n entity.NutritionEntry
	if err := row.Scan(&n.ProductID, &n.HouseholdID, &n.Calories, &n.Protein, &n.Carbohydrates, &n.Fat,
		&n.Fiber, &n.Sugar, &n.Sodium, &n.ServingSizeGrams, &n.Source, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
