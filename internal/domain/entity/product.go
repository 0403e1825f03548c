package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la despensa (catálogo del hogar).
// Las existencias viven en InventoryItem; aquí solo está la regla de reposición.
type Product struct {
	ID              string
	HouseholdID     string
	Barcode         string // EAN/UPC, único por hogar cuando no está vacío
	Name            string
	Brand           string
	Category        string
	DefaultUnit     string
	IsStaple        bool            // artículo básico con regla de stock mínimo
	MinQuantity     decimal.Decimal // stock mínimo deseado (solo staples)
	RestockQuantity decimal.Decimal // stock objetivo al reponer; 0 = MinQuantity * 1.5
	ShelfLifeDays   *int            // override de vida útil; nil = tabla de patrones
	AverageCost     decimal.Decimal // costo unitario promedio ponderado
	ImageURL        string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
