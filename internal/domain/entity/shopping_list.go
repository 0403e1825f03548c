package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una lista de compras.
const (
	ShoppingListActive    = "active"
	ShoppingListCompleted = "completed"
	ShoppingListArchived  = "archived"
)

// Origen de un ítem de la lista.
const (
	ItemSourceManual     = "manual"
	ItemSourceSuggestion = "suggestion"
	ItemSourceRestock    = "restock"
	ItemSourceMealPlan   = "meal_plan"
	ItemSourceRecipe     = "recipe"
)

// ShoppingList lista de compras del hogar.
type ShoppingList struct {
	ID          string
	HouseholdID string
	Name        string
	StoreID     string
	Status      string
	CompletedAt *time.Time
	Items       []ShoppingListItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShoppingListItem ítem de una lista. ProductID es opcional (texto libre).
type ShoppingListItem struct {
	ID             string
	ListID         string
	ProductID      string
	Name           string
	Quantity       decimal.Decimal
	Unit           string
	EstimatedPrice decimal.Decimal // precio unitario estimado
	Checked        bool
	Source         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EstimatedTotal devuelve la suma de Quantity * EstimatedPrice de los ítems.
func (l *ShoppingList) EstimatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.Items {
		total = total.Add(it.Quantity.Mul(it.EstimatedPrice))
	}
	return total
}
