package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.ShoppingListRepository = (*ShoppingListRepo)(nil)

const (
	listColumns     = `id, household_id, name, store_id, status, completed_at, created_at, updated_at`
	listItemColumns = `id, list_id, product_id, name, quantity, unit, estimated_price, checked, source, created_at, updated_at`
)

// ShoppingListRepo listas de compras e ítems sobre PostgreSQL (usable con pool o tx).
type ShoppingListRepo struct {
	q Querier
}

// NewShoppingListRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShoppingListRepository(q Querier) *ShoppingListRepo {
	return &ShoppingListRepo{q: q}
}

// Create inserta la lista y sus ítems iniciales.
func (r *ShoppingListRepo) Create(ctx context.Context, list *entity.ShoppingList) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shopping_lists (`+listColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		list.ID, list.HouseholdID, list.Name, nullable(list.StoreID), list.Status, list.CompletedAt,
		list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shopping list: %w", err)
	}
	for i := range list.Items {
		if err := r.AddItem(ctx, &list.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID devuelve la lista con sus ítems en orden de creación.
func (r *ShoppingListRepo) GetByID(ctx context.Context, householdID, id string) (*entity.ShoppingList, error) {
	l, err := scanList(r.q.QueryRow(ctx,
		`SELECT `+listColumns+` FROM shopping_lists WHERE household_id = $1 AND id = $2`, householdID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shopping list: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+listItemColumns+` FROM shopping_list_items WHERE list_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		l.Items = append(l.Items, *it)
	}
	return l, rows.Err()
}

// List listas del hogar sin ítems, de la más reciente a la más antigua.
func (r *ShoppingListRepo) List(ctx context.Context, householdID, status string) ([]*entity.ShoppingList, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists
		WHERE household_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`, householdID, status)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()
	var out []*entity.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persiste los datos de cabecera (no toca los ítems).
func (r *ShoppingListRepo) Update(ctx context.Context, list *entity.ShoppingList) error {
	_, err := r.q.Exec(ctx, `
		UPDATE shopping_lists SET name = $3, store_id = $4, status = $5, completed_at = $6, updated_at = $7
		WHERE household_id = $1 AND id = $2`,
		list.HouseholdID, list.ID, list.Name, nullable(list.StoreID), list.Status, list.CompletedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shopping list: %w", err)
	}
	return nil
}

// Delete elimina la lista; los ítems caen por ON DELETE CASCADE.
func (r *ShoppingListRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM shopping_lists WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}

// AddItem agrega un ítem. Lista inexistente => domain.ErrNotFound.
func (r *ShoppingListRepo) AddItem(ctx context.Context, item *entity.ShoppingListItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shopping_list_items (`+listItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.ID, item.ListID, nullable(item.ProductID), item.Name, item.Quantity, item.Unit, item.EstimatedPrice,
		item.Checked, item.Source, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert shopping item: %w", err)
	}
	return nil
}

// GetItem obtiene un ítem de la lista.
func (r *ShoppingListRepo) GetItem(ctx context.Context, listID, itemID string) (*entity.ShoppingListItem, error) {
	it, err := scanListItem(r.q.QueryRow(ctx,
		`SELECT `+listItemColumns+` FROM shopping_list_items WHERE list_id = $1 AND id = $2`, listID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return it, nil
}

// UpdateItem persiste cantidad, precio estimado y marca del ítem.
func (r *ShoppingListRepo) UpdateItem(ctx context.Context, item *entity.ShoppingListItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE shopping_list_items SET product_id = $3, name = $4, quantity = $5, unit = $6, estimated_price = $7,
			checked = $8, updated_at = $9
		WHERE list_id = $1 AND id = $2`,
		item.ListID, item.ID, nullable(item.ProductID), item.Name, item.Quantity, item.Unit, item.EstimatedPrice,
		item.Checked, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shopping item: %w", err)
	}
	return nil
}

// DeleteItem quita un ítem de la lista.
func (r *ShoppingListRepo) DeleteItem(ctx context.Context, listID, itemID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM shopping_list_items WHERE list_id = $1 AND id = $2`, listID, itemID)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}

// ActiveProductIDs productos con ítems pendientes en listas activas del hogar.
func (r *ShoppingListRepo) ActiveProductIDs(ctx context.Context, householdID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT i.product_id::text
		FROM shopping_list_items i
		JOIN shopping_lists l ON l.id = i.list_id
		WHERE l.household_id = $1 AND l.status = $2 AND i.product_id IS NOT NULL AND NOT i.checked
		ORDER BY 1`, householdID, entity.ShoppingListActive)
	if err != nil {
		return nil, fmt.Errorf("active list products: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanList(row pgx.Row) (*entity.ShoppingList, error) {
	var (
		l       entity.ShoppingList
		storeID *string
	)
	if err := row.Scan(&l.ID, &l.HouseholdID, &l.Name, &storeID, &l.Status, &l.CompletedAt,
		&l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.StoreID = deref(storeID)
	return &l, nil
}

func scanListItem(row pgx.Row) (*entity.ShoppingListItem, error) {
	var (
		it        entity.ShoppingListItem
		productID *string
	)
	if err := row.Scan(&it.ID, &it.ListID, &productID, &it.Name, &it.Quantity, &it.Unit, &it.EstimatedPrice,
		&it.Checked, &it.Source, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.ProductID = deref(productID)
	return &it, nil
}
