package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/lists"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
	"github.com/jhoicas/despensa-api/internal/domain/restock"
)

// priceWindowDays ventana del libro de precios usada para el precio promedio.
const priceWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición de artículos básicos.
// Combina existencias con el libro de precios para estimar el costo de reponer.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	items    repository.InventoryItemRepository
	prices   repository.PriceRecordRepository
	lists    repository.ShoppingListRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	items repository.InventoryItemRepository,
	prices repository.PriceRecordRepository,
	lists repository.ShoppingListRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		products: products,
		items:    items,
		prices:   prices,
		lists:    lists,
		now:      time.Now,
	}
}

// GenerateRestockList devuelve los básicos bajo su mínimo con la cantidad sugerida
// y un ranking de prioridad: mayor déficit relativo primero, luego menor costo estimado.
func (uc *ReplenishmentUseCase) GenerateRestockList(ctx context.Context, householdID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Básicos y existencias por producto
	staples, err := uc.products.ListStaples(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(staples) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}
	now := uc.now()
	stock, err := uc.items.StockByProduct(ctx, householdID, now)
	if err != nil {
		return nil, err
	}

	// 2. Evaluar regla y estimar costo
	since := now.AddDate(0, 0, -priceWindowDays)
	type ranked struct {
		dto.ReplenishmentSuggestionDTO
		relative decimal.Decimal
	}
	rows := make([]ranked, 0, len(staples))
	for _, p := range staples {
		onHand := stock[p.ID]
		ev := restock.Evaluate(restock.Rule{MinQuantity: p.MinQuantity, RestockQuantity: p.RestockQuantity}, onHand)
		if !ev.Needed {
			continue
		}
		avg, err := uc.averagePrice(ctx, householdID, p, since)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ranked{
			ReplenishmentSuggestionDTO: dto.ReplenishmentSuggestionDTO{
				ProductID:         p.ID,
				ProductName:       p.Name,
				Category:          p.Category,
				Unit:              p.DefaultUnit,
				OnHand:            onHand,
				MinQuantity:       p.MinQuantity,
				TargetQuantity:    ev.Target,
				SuggestedQuantity: ev.SuggestedQty,
				AveragePrice:      avg,
				EstimatedCost:     inventory.LineCost(ev.SuggestedQty, avg),
			},
			relative: ev.RelativeDeficit(p.MinQuantity),
		})
	}

	// 3. Ordenar por urgencia
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.relative.Equal(b.relative) {
			return a.relative.GreaterThan(b.relative)
		}
		if !a.EstimatedCost.Equal(b.EstimatedCost) {
			return a.EstimatedCost.LessThan(b.EstimatedCost)
		}
		return a.ProductName < b.ProductName
	})

	// 4. Asignar prioridad (1 = más urgente)
	out := make([]dto.ReplenishmentSuggestionDTO, len(rows))
	for i := range rows {
		out[i] = rows[i].ReplenishmentSuggestionDTO
		out[i].Priority = i + 1
	}
	return out, nil
}

// AddToShoppingList agrega las sugerencias de reposición (todas o las indicadas) a una lista activa.
func (uc *ReplenishmentUseCase) AddToShoppingList(ctx context.Context, householdID string, req dto.AddToListRequest) (*dto.AddToListResult, error) {
	suggestions, err := uc.GenerateRestockList(ctx, householdID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		wanted[id] = true
	}

	items := make([]entity.ShoppingListItem, 0, len(suggestions))
	for _, s := range suggestions {
		if len(wanted) > 0 && !wanted[s.ProductID] {
			continue
		}
		items = append(items, entity.ShoppingListItem{
			ProductID:      s.ProductID,
			Name:           s.ProductName,
			Quantity:       s.SuggestedQuantity,
			Unit:           s.Unit,
			EstimatedPrice: s.AveragePrice,
			Source:         entity.ItemSourceRestock,
		})
	}
	added, err := lists.Append(ctx, uc.lists, householdID, req.ListID, items, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.AddToListResult{ListID: req.ListID, Added: added}, nil
}

// averagePrice promedio de precios observados en la ventana; sin observaciones recientes
// usa el último precio conocido y luego el costo promedio del producto.
func (uc *ReplenishmentUseCase) averagePrice(ctx context.Context, householdID string, p *entity.Product, since time.Time) (decimal.Decimal, error) {
	records, err := uc.prices.ListByProduct(ctx, householdID, p.ID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	n := 0
	for _, r := range records {
		if r.RecordedAt.Before(since) {
			continue
		}
		sum = sum.Add(r.UnitPrice)
		n++
	}
	if n > 0 {
		return sum.Div(decimal.NewFromInt(int64(n))).Round(2), nil
	}
	if len(records) > 0 {
		return records[len(records)-1].UnitPrice, nil
	}
	return p.AverageCost.Round(2), nil
}
