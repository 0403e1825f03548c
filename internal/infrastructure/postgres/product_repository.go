package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, household_id, barcode, name, brand, category, default_unit, is_staple, min_quantity,
	restock_quantity, shelf_life_days, average_cost, image_url, notes, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Barcode repetido en el hogar => domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.HouseholdID, nullable(product.Barcode), product.Name, product.Brand, product.Category,
		product.DefaultUnit, product.IsStaple, product.MinQuantity, product.RestockQuantity, product.ShelfLifeDays,
		product.AverageCost, product.ImageURL, product.Notes, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del hogar por ID.
func (r *ProductRepo) GetByID(ctx context.Context, householdID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product",
		`SELECT `+productColumns+` FROM products WHERE household_id = $1 AND id = $2`, householdID, id)
}

// GetByBarcode obtiene un producto del hogar por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, householdID, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by barcode",
		`SELECT `+productColumns+` FROM products WHERE household_id = $1 AND barcode = $2`, householdID, barcode)
}

// FindByName busca por nombre exacto sin distinguir mayúsculas.
func (r *ProductRepo) FindByName(ctx context.Context, householdID, name string) (*entity.Product, error) {
	return r.getOne(ctx, "find product by name",
		`SELECT `+productColumns+` FROM products WHERE household_id = $1 AND lower(name) = lower($2) LIMIT 1`,
		householdID, strings.TrimSpace(name))
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update actualiza un producto existente. El costo promedio se maneja con UpdateCost.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET barcode = $3, name = $4, brand = $5, category = $6, default_unit = $7, is_staple = $8,
			min_quantity = $9, restock_quantity = $10, shelf_life_days = $11, image_url = $12, notes = $13, updated_at = $14
		WHERE household_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		product.HouseholdID, product.ID, nullable(product.Barcode), product.Name, product.Brand, product.Category,
		product.DefaultUnit, product.IsStaple, product.MinQuantity, product.RestockQuantity, product.ShelfLifeDays,
		product.ImageURL, product.Notes, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET average_cost = $2, updated_at = now() WHERE id = $1`,
		productID, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// List lista productos del hogar con filtros y paginación, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, householdID string, f repository.ProductFilter) ([]*entity.Product, error) {
	var search *string
	if s := strings.TrimSpace(f.Search); s != "" {
		s = "%" + s + "%"
		search = &s
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE household_id = $1
		  AND ($2::text IS NULL OR (name || ' ' || brand) ILIKE $2)
		  AND ($3 = '' OR lower(category) = lower($3))
		  AND (NOT $4 OR is_staple)
		ORDER BY name
		LIMIT $5 OFFSET $6`
	return r.list(ctx, query, householdID, search, f.Category, f.StaplesOnly, limit, offset)
}

// ListByIDs productos del hogar cuyos IDs están en ids. Los IDs inexistentes se ignoran.
func (r *ProductRepo) ListByIDs(ctx context.Context, householdID string, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE household_id = $1 AND id = ANY($2::uuid[])`,
		householdID, ids)
}

// ListStaples productos básicos del hogar.
func (r *ProductRepo) ListStaples(ctx context.Context, householdID string) ([]*entity.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE household_id = $1 AND is_staple ORDER BY name`,
		householdID)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto del hogar. Si tiene lotes o compras asociadas => domain.ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, householdID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE household_id = $1 AND id = $2`, householdID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode *string
	)
	if err := row.Scan(&p.ID, &p.HouseholdID, &barcode, &p.Name, &p.Brand, &p.Category, &p.DefaultUnit,
		&p.IsStaple, &p.MinQuantity, &p.RestockQuantity, &p.ShelfLifeDays, &p.AverageCost, &p.ImageURL,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Barcode = deref(barcode)
	return &p, nil
}
