// Package lists agrega ítems a listas de compras desde cualquier caso de uso
// (reposición, sugerencias, plan de comidas, recetas).
package lists

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// Append agrega items a la lista activa listID. Omite productos (o nombres libres)
// que ya están pendientes en la lista. Devuelve cuántos ítems se agregaron.
func Append(
	ctx context.Context,
	repo repository.ShoppingListRepository,
	householdID, listID string,
	items []entity.ShoppingListItem,
	now time.Time,
) (int, error) {
	added, err := AppendItems(ctx, repo, householdID, listID, items, now)
	return len(added), err
}

// AppendItems igual que Append pero devuelve los ítems efectivamente insertados.
func AppendItems(
	ctx context.Context,
	repo repository.ShoppingListRepository,
	householdID, listID string,
	items []entity.ShoppingListItem,
	now time.Time,
) ([]entity.ShoppingListItem, error) {
	list, err := repo.GetByID(ctx, householdID, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, domain.ErrNotFound
	}
	if list.Status != entity.ShoppingListActive {
		return nil, domain.ErrConflict
	}

	pending := make(map[string]bool, len(list.Items))
	for _, it := range list.Items {
		if !it.Checked {
			pending[ItemKey(it)] = true
		}
	}

	var added []entity.ShoppingListItem
	for _, it := range items {
		key := ItemKey(it)
		if key == "" || pending[key] {
			continue
		}
		it.ID = uuid.New().String()
		it.ListID = listID
		it.CreatedAt = now
		it.UpdatedAt = now
		if err := repo.AddItem(ctx, &it); err != nil {
			return added, err
		}
		pending[key] = true
		added = append(added, it)
	}
	if len(added) > 0 {
		list.UpdatedAt = now
		if err := repo.Update(ctx, list); err != nil {
			return added, err
		}
	}
	return added, nil
}

// ItemKey clave de duplicado: el producto, o el nombre libre normalizado. Vacía si no hay ninguno.
func ItemKey(it entity.ShoppingListItem) string {
	if it.ProductID != "" {
		return "p:" + it.ProductID
	}
	name := strings.ToLower(strings.TrimSpace(it.Name))
	if name == "" {
		return ""
	}
	return "n:" + name
}
