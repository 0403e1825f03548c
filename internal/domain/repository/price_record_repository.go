package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// PriceRecordRepository define el puerto de persistencia del historial de precios.
type PriceRecordRepository interface {
	Create(ctx context.Context, rec *entity.PriceRecord) error
	// ListByProduct historial de precios del producto, del más antiguo al más reciente.
	ListByProduct(ctx context.Context, householdID, productID string) ([]*entity.PriceRecord, error)
	// LatestByProducts último precio unitario conocido por producto. Productos sin precio no aparecen.
	LatestByProducts(ctx context.Context, householdID string, productIDs []string) (map[string]decimal.Decimal, error)
}
