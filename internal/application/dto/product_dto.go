package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Barcode         string          `json:"barcode" validate:"omitempty,max=32"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Brand           string          `json:"brand" validate:"omitempty,max=120"`
	Category        string          `json:"category" validate:"omitempty,max=80"`
	DefaultUnit     string          `json:"default_unit" validate:"unit"`
	IsStaple        bool            `json:"is_staple"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	RestockQuantity decimal.Decimal `json:"restock_quantity"`
	ShelfLifeDays   *int            `json:"shelf_life_days" validate:"omitempty,min=1,max=3650"`
	ImageURL        string          `json:"image_url" validate:"omitempty,url"`
	Notes           string          `json:"notes"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo: se maneja vía movimientos).
type UpdateProductRequest struct {
	Barcode         *string          `json:"barcode" validate:"omitempty,max=32"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Brand           *string          `json:"brand"`
	Category        *string          `json:"category"`
	DefaultUnit     *string          `json:"default_unit" validate:"omitempty,unit"`
	IsStaple        *bool            `json:"is_staple"`
	MinQuantity     *decimal.Decimal `json:"min_quantity"`
	RestockQuantity *decimal.Decimal `json:"restock_quantity"`
	ShelfLifeDays   *int             `json:"shelf_life_days" validate:"omitempty,min=0,max=3650"`
	ImageURL        *string          `json:"image_url"`
	Notes           *string          `json:"notes"`
}

// ProductFilter filtros de listado (query string).
type ProductFilter struct {
	Search      string `query:"search"`
	Category    string `query:"category"`
	StaplesOnly bool   `query:"staples"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Barcode         string          `json:"barcode,omitempty"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand,omitempty"`
	Category        string          `json:"category,omitempty"`
	DefaultUnit     string          `json:"default_unit"`
	IsStaple        bool            `json:"is_staple"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	RestockQuantity decimal.Decimal `json:"restock_quantity"`
	ShelfLifeDays   *int            `json:"shelf_life_days,omitempty"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	ImageURL        string          `json:"image_url,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BarcodeProductDTO resultado de la consulta externa de un código de barras.
type BarcodeProductDTO struct {
	Barcode   string             `json:"barcode"`
	Name      string             `json:"name"`
	Brand     string             `json:"brand,omitempty"`
	Category  string             `json:"category,omitempty"`
	Quantity  string             `json:"quantity,omitempty"` // texto del empaque, ej. "1 L"
	ImageURL  string             `json:"image_url,omitempty"`
	Nutrition *NutritionResponse `json:"nutrition,omitempty"`
}

// BarcodeLookupResponse respuesta de GET /api/products/barcode/:code.
// Local indica si el producto ya existe en el catálogo del hogar.
type BarcodeLookupResponse struct {
	Local    bool               `json:"local"`
	Product  *ProductResponse   `json:"product,omitempty"`
	External *BarcodeProductDTO `json:"external,omitempty"`
}

// CreateFromBarcodeRequest crea un producto a partir de la consulta externa.
type CreateFromBarcodeRequest struct {
	Barcode     string          `json:"barcode" validate:"required,max=32"`
	DefaultUnit string          `json:"default_unit" validate:"unit"`
	IsStaple    bool            `json:"is_staple"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}
