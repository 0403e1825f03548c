package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// wasteTopProducts máximo de productos en el resumen de desperdicio.
const wasteTopProducts = 10

// WasteUseCase registro y resumen de desperdicio.
type WasteUseCase struct {
	waste    repository.WasteRepository
	products repository.ProductRepository
	prices   repository.PriceRecordRepository
	txRunner ports.TxRunner
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(
	waste repository.WasteRepository,
	products repository.ProductRepository,
	prices repository.PriceRecordRepository,
	txRunner ports.TxRunner,
) *WasteUseCase {
	return &WasteUseCase{waste: waste, products: products, prices: prices, txRunner: txRunner}
}

// LogWaste registra un desperdicio. Con ItemID descuenta el lote (DISCARD) y valora al costo
// del lote; sin lote, o con lote sin costo, valora al último precio conocido o al costo
// promedio del producto.
func (uc *WasteUseCase) LogWaste(ctx context.Context, householdID, userID string, req dto.LogWasteRequest) (*dto.WasteEventResponse, error) {
	if !entity.IsValidWasteReason(req.Reason) || !req.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(ctx, householdID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	event := &entity.WasteEvent{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		ProductID:   product.ID,
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Reason:      req.Reason,
		OccurredAt:  now,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	if event.Unit == "" {
		event.Unit = product.DefaultUnit
	}

	refPrice, err := uc.referencePrice(ctx, householdID, product)
	if err != nil {
		return nil, err
	}
	if req.ItemID == "" {
		event.EstimatedCost = inventory.LineCost(req.Quantity, refPrice)
	}

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if req.ItemID != "" {
			items, err := ApplyMovement(ctx, r, MovementInput{
				HouseholdID: householdID,
				UserID:      userID,
				Type:        entity.MovementTypeDISCARD,
				ItemID:      req.ItemID,
				Quantity:    req.Quantity,
				Date:        now,
			}, uuid.New().String())
			if err != nil {
				return err
			}
			if items[0].ProductID != product.ID {
				return domain.ErrInvalidInput
			}
			cost := items[0].UnitCost
			if !cost.IsPositive() {
				cost = refPrice
			}
			event.EstimatedCost = inventory.LineCost(req.Quantity, cost)
			if req.Unit == "" {
				event.Unit = items[0].Unit
			}
		}
		return r.Waste.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return toWasteResponse(event), nil
}

// referencePrice último precio registrado del producto; si no hay, su costo promedio.
func (uc *WasteUseCase) referencePrice(ctx context.Context, householdID string, product *entity.Product) (decimal.Decimal, error) {
	latest, err := uc.prices.LatestByProducts(ctx, householdID, []string{product.ID})
	if err != nil {
		return decimal.Zero, err
	}
	if price, ok := latest[product.ID]; ok {
		return price, nil
	}
	return product.AverageCost, nil
}

// WasteSummary totales por motivo y por producto (top 10 por costo) en [from, to).
func (uc *WasteUseCase) WasteSummary(ctx context.Context, householdID string, from, to time.Time) (*dto.WasteSummaryDTO, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.waste.List(ctx, householdID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &dto.WasteSummaryDTO{
		From:      from,
		To:        to,
		Events:    len(events),
		TotalCost: decimal.Zero,
		ByReason:  []dto.WasteByReasonDTO{},
		ByProduct: []dto.WasteByProductDTO{},
	}
	byReason := map[string]*dto.WasteByReasonDTO{}
	byProduct := map[string]*dto.WasteByProductDTO{}
	for _, e := range events {
		summary.TotalCost = summary.TotalCost.Add(e.EstimatedCost)

		r, ok := byReason[e.Reason]
		if !ok {
			r = &dto.WasteByReasonDTO{Reason: e.Reason}
			byReason[e.Reason] = r
		}
		r.Events++
		r.Cost = r.Cost.Add(e.EstimatedCost)

		p, ok := byProduct[e.ProductID]
		if !ok {
			p = &dto.WasteByProductDTO{ProductID: e.ProductID}
			byProduct[e.ProductID] = p
		}
		p.Quantity = p.Quantity.Add(e.Quantity)
		p.Cost = p.Cost.Add(e.EstimatedCost)
	}

	for _, r := range byReason {
		summary.ByReason = append(summary.ByReason, *r)
	}
	sort.Slice(summary.ByReason, func(i, j int) bool {
		a, b := summary.ByReason[i], summary.ByReason[j]
		if !a.Cost.Equal(b.Cost) {
			return a.Cost.GreaterThan(b.Cost)
		}
		return a.Reason < b.Reason
	})

	ids := make([]string, 0, len(byProduct))
	for id, p := range byProduct {
		ids = append(ids, id)
		summary.ByProduct = append(summary.ByProduct, *p)
	}
	sort.Slice(summary.ByProduct, func(i, j int) bool {
		a, b := summary.ByProduct[i], summary.ByProduct[j]
		if !a.Cost.Equal(b.Cost) {
			return a.Cost.GreaterThan(b.Cost)
		}
		return a.ProductID < b.ProductID
	})
	if len(summary.ByProduct) > wasteTopProducts {
		summary.ByProduct = summary.ByProduct[:wasteTopProducts]
	}

	if len(ids) > 0 {
		products, err := uc.products.ListByIDs(ctx, householdID, ids)
		if err != nil {
			return nil, err
		}
		names := make(map[string]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}
		for i := range summary.ByProduct {
			summary.ByProduct[i].ProductName = names[summary.ByProduct[i].ProductID]
		}
	}
	return summary, nil
}

func toWasteResponse(e *entity.WasteEvent) *dto.WasteEventResponse {
	return &dto.WasteEventResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		ItemID:        e.ItemID,
		Quantity:      e.Quantity,
		Unit:          e.Unit,
		Reason:        e.Reason,
		EstimatedCost: e.EstimatedCost,
		OccurredAt:    e.OccurredAt,
	}
}
