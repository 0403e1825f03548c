package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetTarget presupuesto mensual del hogar. Category vacío = presupuesto total del mes.
type BudgetTarget struct {
	ID          string
	HouseholdID string
	Month       string // YYYY-MM
	Category    string
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
