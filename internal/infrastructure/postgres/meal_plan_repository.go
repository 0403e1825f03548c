package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.MealPlanRepository = (*MealPlanRepo)(nil)

const mealColumns = `id, household_id, date, meal_type, title, servings, notes, source_url, created_at, updated_at`

// MealPlanRepo planes de comida e ingredientes sobre PostgreSQL.
// Create y Update escriben varias tablas: usar con una tx o aceptar escrituras parciales.
type MealPlanRepo struct {
	q Querier
}

// NewMealPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMealPlanRepository(q Querier) *MealPlanRepo {
	return &MealPlanRepo{q: q}
}

// Create inserta la comida y sus ingredientes.
func (r *MealPlanRepo) Create(ctx context.Context, m *entity.MealPlan) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO meal_plans (`+mealColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.HouseholdID, m.Date, m.MealType, m.Title, m.Servings, m.Notes, m.SourceURL, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert meal plan: %w", err)
	}
	return r.insertIngredients(ctx, m)
}

// GetByID obtiene la comida con sus ingredientes.
func (r *MealPlanRepo) GetByID(ctx context.Context, householdID, id string) (*entity.MealPlan, error) {
	m, err := scanMeal(r.q.QueryRow(ctx,
		`SELECT `+mealColumns+` FROM meal_plans WHERE household_id = $1 AND id = $2`, householdID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	if err := r.loadIngredients(ctx, []*entity.MealPlan{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// Update reemplaza los datos y la lista completa de ingredientes.
func (r *MealPlanRepo) Update(ctx context.Context, m *entity.MealPlan) error {
	_, err := r.q.Exec(ctx, `
		UPDATE meal_plans SET date = $3, meal_type = $4, title = $5, servings = $6, notes = $7, source_url = $8,
			updated_at = $9
		WHERE household_id = $1 AND id = $2`,
		m.HouseholdID, m.ID, m.Date, m.MealType, m.Title, m.Servings, m.Notes, m.SourceURL, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update meal plan: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM meal_ingredients WHERE meal_plan_id = $1`, m.ID); err != nil {
		return fmt.Errorf("delete meal ingredients: %w", err)
	}
	return r.insertIngredients(ctx, m)
}

// Delete elimina la comida; los ingredientes caen por ON DELETE CASCADE.
func (r *MealPlanRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM meal_plans WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	return nil
}

// ListByRange comidas entre from y to (inclusive) con sus ingredientes.
func (r *MealPlanRepo) ListByRange(ctx context.Context, householdID string, from, to time.Time) ([]*entity.MealPlan, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+mealColumns+`
		FROM meal_plans
		WHERE household_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, id`, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	var meals []*entity.MealPlan
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		meals = append(meals, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	if err := r.loadIngredients(ctx, meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *MealPlanRepo) insertIngredients(ctx context.Context, m *entity.MealPlan) error {
	if len(m.Ingredients) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, in := range m.Ingredients {
		batch.Queue(`
			INSERT INTO meal_ingredients (id, meal_plan_id, position, product_id, name, quantity, unit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			in.ID, m.ID, i+1, nullable(in.ProductID), in.Name, in.Quantity, in.Unit)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range m.Ingredients {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert meal ingredient: %w", err)
		}
	}
	return nil
}

// loadIngredients completa los ingredientes de varias comidas con una sola consulta.
func (r *MealPlanRepo) loadIngredients(ctx context.Context, meals []*entity.MealPlan) error {
	if len(meals) == 0 {
		return nil
	}
	byID := make(map[string]*entity.MealPlan, len(meals))
	ids := make([]string, 0, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, meal_plan_id, product_id, name, quantity, unit
		FROM meal_ingredients
		WHERE meal_plan_id = ANY($1::uuid[])
		ORDER BY meal_plan_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list meal ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			in        entity.MealIngredient
			productID *string
		)
		if err := rows.Scan(&in.ID, &in.MealPlanID, &productID, &in.Name, &in.Quantity, &in.Unit); err != nil {
			return fmt.Errorf("scan meal ingredient: %w", err)
		}
		in.ProductID = deref(productID)
		if m, ok := byID[in.MealPlanID]; ok {
			m.Ingredients = append(m.Ingredients, in)
		}
	}
	return rows.Err()
}

func scanMeal(row pgx.Row) (*entity.MealPlan, error) {
	var m entity.MealPlan
	if err := row.Scan(&m.ID, &m.HouseholdID, &m.Date, &m.MealType, &m.Title, &m.Servings, &m.Notes,
		&m.SourceURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
