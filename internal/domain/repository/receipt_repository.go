package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para Receipt y sus líneas.
type ReceiptRepository interface {
	// Create inserta el recibo y sus líneas. Número repetido en la misma tienda => domain.ErrDuplicate.
	Create(ctx context.Context, r *entity.Receipt) error
	GetByID(ctx context.Context, householdID, id string) (*entity.Receipt, error)
	List(ctx context.Context, householdID string, limit, offset int) ([]*entity.Receipt, error)
}
