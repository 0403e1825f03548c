// Package insights expone las sugerencias inteligentes de compra construidas sobre
// el analizador de patrones (internal/domain/pattern) y las reglas de reposición.
package insights

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// Puntajes por motivo.
const (
	scoreRestockRule = 1.0
	scoreOverdue     = 0.9
	scoreDueBase     = 0.6
	scoreDueWeight   = 0.3
	scoreCompanion   = 0.5
	scoreSeasonal    = 0.4
)

// reasonOrder orden estable de los motivos en la respuesta.
var reasonOrder = []string{
	dto.ReasonRestockRule,
	dto.ReasonOverdue,
	dto.ReasonDueSoon,
	dto.ReasonCompanion,
	dto.ReasonSeasonal,
}

// Settings parámetros de las sugerencias. Cero en LookbackDays/HorizonDays/Limit usa el default.
type Settings struct {
	LookbackDays int
	HorizonDays  int
	Limit        int
	Params       pattern.Params
}

// DefaultSettings 365 días de historial, horizonte de 7 días, 20 sugerencias.
func DefaultSettings() Settings {
	return Settings{
		LookbackDays: 365,
		HorizonDays:  7,
		Limit:        20,
		Params:       pattern.DefaultParams(),
	}
}

// UseCase sugerencias y consultas de patrones de compra.
type UseCase struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	items     repository.InventoryItemRepository
	prices    repository.PriceRecordRepository
	lists     repository.ShoppingListRepository
	settings  Settings
	now       func() time.Time
}

// NewUseCase construye el caso de uso de sugerencias.
func NewUseCase(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	items repository.InventoryItemRepository,
	prices repository.PriceRecordRepository,
	lists repository.ShoppingListRepository,
	settings Settings,
) *UseCase {
	def := DefaultSettings()
	if settings.LookbackDays <= 0 {
		settings.LookbackDays = def.LookbackDays
	}
	if settings.HorizonDays <= 0 {
		settings.HorizonDays = def.HorizonDays
	}
	if settings.Limit <= 0 {
		settings.Limit = def.Limit
	}
	return &UseCase{
		purchases: purchases,
		products:  products,
		items:     items,
		prices:    prices,
		lists:     lists,
		settings:  settings,
		now:       time.Now,
	}
}

// candidate sugerencia en construcción.
type candidate struct {
	productID  string
	score      float64
	reasons    map[string]bool
	qty        decimal.Decimal
	next       *time.Time
	confidence float64
}

func (c *candidate) add(reason string, score float64) {
	c.reasons[reason] = true
	if score > c.score {
		c.score = score
	}
}

// GetSuggestions combina reglas de reposición, predicciones, compañeros de la lista activa
// y estacionalidad en un ranking por puntaje. Excluye productos ya pendientes en listas activas.
func (uc *UseCase) GetSuggestions(ctx context.Context, householdID string, req dto.SuggestionsRequest) (*dto.SuggestionsResponse, error) {
	now := uc.now()
	horizon := uc.settings.HorizonDays
	if req.HorizonDays > 0 {
		horizon = req.HorizonDays
	}
	limit := uc.settings.Limit
	if req.Limit > 0 {
		limit = req.Limit
	}
	p := uc.settings.Params

	history, err := uc.history(ctx, householdID, now)
	if err != nil {
		return nil, err
	}
	onList, err := uc.lists.ActiveProductIDs(ctx, householdID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(onList))
	for _, id := range onList {
		excluded[id] = true
	}

	cands := map[string]*candidate{}
	get := func(id string) *candidate {
		c, ok := cands[id]
		if !ok {
			c = &candidate{productID: id, reasons: map[string]bool{}}
			cands[id] = c
		}
		return c
	}

	// 1. Básicos bajo su mínimo
	staples, err := uc.products.ListStaples(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(staples) > 0 {
		stock, err := uc.items.StockByProduct(ctx, householdID, now)
		if err != nil {
			return nil, err
		}
		for _, sp := range staples {
			ev := evaluate(sp, stock[sp.ID])
			if !ev.Needed {
				continue
			}
			c := get(sp.ID)
			c.add(dto.ReasonRestockRule, scoreRestockRule)
			c.qty = ev.SuggestedQty
		}
	}

	// 2. Predicciones atrasadas o dentro del horizonte
	patterns := pattern.Analyze(history, p)
	avgQty := make(map[string]float64, len(patterns))
	for _, pp := range patterns {
		avgQty[pp.ProductID] = pp.AverageQuantity
	}
	preds := pattern.PredictRestock(patterns, now, p)
	for _, pr := range pattern.DueWithin(preds, now, time.Duration(horizon)*24*time.Hour) {
		c := get(pr.ProductID)
		if pr.Overdue {
			c.add(dto.ReasonOverdue, scoreOverdue)
		} else {
			c.add(dto.ReasonDueSoon, scoreDueBase+scoreDueWeight*pr.Confidence)
		}
		next := pr.NextPurchase
		c.next = &next
		c.confidence = pr.Confidence
	}

	// 3. Compañeros de lo que ya está en la lista
	for _, id := range onList {
		for _, comp := range pattern.Companions(history, id, 0, p) {
			get(comp.ProductID).add(dto.ReasonCompanion, scoreCompanion*comp.Score)
		}
	}

	// 4. Estacionales del mes actual
	for _, sp := range pattern.Seasonal(history, p) {
		if sp.InMonth(now.Month()) {
			get(sp.ProductID).add(dto.ReasonSeasonal, scoreSeasonal)
		}
	}

	for id := range cands {
		if excluded[id] {
			delete(cands, id)
		}
	}
	names, err := uc.productIndex(ctx, householdID, keys(cands))
	if err != nil {
		return nil, err
	}

	out := make([]dto.SuggestionDTO, 0, len(cands))
	for id, c := range cands {
		prod, ok := names[id]
		if !ok {
			// producto eliminado con historial
			continue
		}
		qty := c.qty
		if !qty.IsPositive() {
			qty = quantityFromHistory(avgQty[id])
		}
		out = append(out, dto.SuggestionDTO{
			ProductID:         id,
			ProductName:       prod.Name,
			Score:             round2(c.score),
			Reasons:           sortedReasons(c.reasons),
			SuggestedQuantity: qty,
			Unit:              prod.DefaultUnit,
			NextPurchase:      c.next,
			Confidence:        round2(c.confidence),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return &dto.SuggestionsResponse{GeneratedAt: now, Items: out}, nil
}

// history historial de compras dentro de la ventana configurada.
func (uc *UseCase) history(ctx context.Context, householdID string, now time.Time) ([]pattern.PurchaseRecord, error) {
	since := now.AddDate(0, 0, -uc.settings.LookbackDays)
	return uc.purchases.ListHistory(ctx, householdID, since)
}

func (uc *UseCase) productIndex(ctx context.Context, householdID string, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.products.ListByIDs(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// quantityFromHistory cantidad promedio histórica redondeada a 2 decimales; mínimo 1.
func quantityFromHistory(avg float64) decimal.Decimal {
	q := decimal.NewFromFloat(avg).Round(2)
	if q.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return q
}

func sortedReasons(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, r := range reasonOrder {
		if set[r] {
			out = append(out, r)
		}
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func requireProduct(p *entity.Product) error {
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}
