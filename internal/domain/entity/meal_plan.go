package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comida.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealPlan es una comida planificada para una fecha.
type MealPlan struct {
	ID          string
	HouseholdID string
	Date        time.Time // solo fecha (00:00 UTC)
	MealType    string
	Title       string
	Servings    int
	Notes       string
	SourceURL   string
	Ingredients []MealIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealIngredient ingrediente de una comida. ProductID vacío = texto libre.
type MealIngredient struct {
	ID         string
	MealPlanID string
	ProductID  string
	Name       string
	Quantity   decimal.Decimal
	Unit       string
}
