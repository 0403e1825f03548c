package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// DefaultExpiringDays ventana por defecto de ListExpiring.
const DefaultExpiringDays = 3

// ExpirationUseCase lista lotes por vencer y vencidos con su pérdida estimada.
type ExpirationUseCase struct {
	items    repository.InventoryItemRepository
	products repository.ProductRepository
}

// NewExpirationUseCase construye el caso de uso.
func NewExpirationUseCase(items repository.InventoryItemRepository, products repository.ProductRepository) *ExpirationUseCase {
	return &ExpirationUseCase{items: items, products: products}
}

// ListExpiring lotes con existencias que vencen dentro de withinDays (sin incluir los vencidos).
func (uc *ExpirationUseCase) ListExpiring(ctx context.Context, householdID string, withinDays int) ([]dto.ExpiringItemDTO, error) {
	if withinDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	if withinDays == 0 {
		withinDays = DefaultExpiringDays
	}
	now := time.Now()
	return uc.list(ctx, householdID, now, now.AddDate(0, 0, withinDays), func(it *entity.InventoryItem) bool {
		return it.ExpiresAt.After(now)
	})
}

// ListExpired lotes con existencias cuya fecha de vencimiento ya pasó.
func (uc *ExpirationUseCase) ListExpired(ctx context.Context, householdID string) ([]dto.ExpiringItemDTO, error) {
	now := time.Now()
	return uc.list(ctx, householdID, now, now, func(it *entity.InventoryItem) bool {
		return !it.ExpiresAt.After(now)
	})
}

func (uc *ExpirationUseCase) list(
	ctx context.Context,
	householdID string,
	now, before time.Time,
	keep func(*entity.InventoryItem) bool,
) ([]dto.ExpiringItemDTO, error) {
	items, err := uc.items.ListExpiringBefore(ctx, householdID, before)
	if err != nil {
		return nil, err
	}
	selected := make([]*entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if it.ExpiresAt != nil && keep(it) {
			selected = append(selected, it)
		}
	}
	products, err := loadProducts(ctx, uc.products, householdID, selected)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ExpiringItemDTO, 0, len(selected))
	for _, it := range selected {
		days, _ := it.DaysUntilExpiry(now)
		name := ""
		if p := products[it.ProductID]; p != nil {
			name = p.Name
		}
		out = append(out, dto.ExpiringItemDTO{
			ItemID:        it.ID,
			ProductID:     it.ProductID,
			ProductName:   name,
			LocationID:    it.LocationID,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			ExpiresAt:     *it.ExpiresAt,
			DaysLeft:      days,
			Status:        it.Status(now, decimal.Zero),
			EstimatedLoss: inventory.LineCost(it.Quantity, it.UnitCost),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}
