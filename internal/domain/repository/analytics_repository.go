package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpend gasto agregado de una categoría. Category vacío = productos sin categoría.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}

// TopProductResult resultado crudo de la consulta de productos más comprados.
type TopProductResult struct {
	ProductID   string
	ProductName string
	Purchases   int
	Quantity    decimal.Decimal
	Total       decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para analítica de gasto.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSpendByCategory gasto en compras por categoría de producto en el período [start, end).
	GetSpendByCategory(ctx context.Context, householdID string, start, end time.Time) ([]CategorySpend, error)

	// GetTopProducts devuelve los `limit` productos con más compras en el período,
	// desempatando por gasto total.
	GetTopProducts(ctx context.Context, householdID string, start, end time.Time, limit int) ([]TopProductResult, error)
}
