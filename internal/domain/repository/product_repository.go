package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search      string // coincidencia parcial en nombre o marca
	Category    string
	StaplesOnly bool
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, householdID, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, householdID, barcode string) (*entity.Product, error)
	// FindByName busca por nombre exacto sin distinguir mayúsculas.
	FindByName(ctx context.Context, householdID, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza solo el costo promedio (motor de inventario).
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, householdID string, f ProductFilter) ([]*entity.Product, error)
	ListByIDs(ctx context.Context, householdID string, ids []string) ([]*entity.Product, error)
	ListStaples(ctx context.Context, householdID string) ([]*entity.Product, error)
	Delete(ctx context.Context, householdID, id string) error
}
