package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// ShoppingListRepository define el puerto de persistencia para listas de compras y sus ítems.
type ShoppingListRepository interface {
	Create(ctx context.Context, list *entity.ShoppingList) error
	// GetByID devuelve la lista con sus ítems.
	GetByID(ctx context.Context, householdID, id string) (*entity.ShoppingList, error)
	// List devuelve las listas sin ítems; status vacío = todas.
	List(ctx context.Context, householdID, status string) ([]*entity.ShoppingList, error)
	Update(ctx context.Context, list *entity.ShoppingList) error
	Delete(ctx context.Context, householdID, id string) error

	AddItem(ctx context.Context, item *entity.ShoppingListItem) error
	GetItem(ctx context.Context, listID, itemID string) (*entity.ShoppingListItem, error)
	UpdateItem(ctx context.Context, item *entity.ShoppingListItem) error
	DeleteItem(ctx context.Context, listID, itemID string) error

	// ActiveProductIDs productos presentes en listas activas (ítems no marcados).
	ActiveProductIDs(ctx context.Context, householdID string) ([]string, error)
}
