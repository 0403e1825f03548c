package repository

import (
	"context"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// WasteRepository define el puerto de persistencia para WasteEvent.
type WasteRepository interface {
	Create(ctx context.Context, w *entity.WasteEvent) error
	List(ctx context.Context, householdID string, from, to time.Time) ([]*entity.WasteEvent, error)
}
