package insights

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/lists"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
	"github.com/jhoicas/despensa-api/internal/domain/restock"
)

// defaultCompanionLimit compañeros devueltos por GetCompanions cuando limit <= 0.
const defaultCompanionLimit = 10

// AddSuggestionsToList copia a la lista las sugerencias elegidas (origen "suggestion").
// Productos que ya no aparecen en las sugerencias se ignoran.
func (uc *UseCase) AddSuggestionsToList(ctx context.Context, householdID string, req dto.AddSuggestionsRequest) (*dto.AddToListResult, error) {
	res, err := uc.GetSuggestions(ctx, householdID, dto.SuggestionsRequest{Limit: math.MaxInt32})
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		wanted[id] = true
	}
	var chosen []dto.SuggestionDTO
	var ids []string
	for _, s := range res.Items {
		if wanted[s.ProductID] {
			chosen = append(chosen, s)
			ids = append(ids, s.ProductID)
		}
	}
	if len(chosen) == 0 {
		return &dto.AddToListResult{ListID: req.ListID}, nil
	}
	latest, err := uc.prices.LatestByProducts(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]entity.ShoppingListItem, 0, len(chosen))
	for _, s := range chosen {
		items = append(items, entity.ShoppingListItem{
			ProductID:      s.ProductID,
			Name:           s.ProductName,
			Quantity:       s.SuggestedQuantity,
			Unit:           s.Unit,
			EstimatedPrice: latest[s.ProductID],
			Source:         entity.ItemSourceSuggestion,
		})
	}
	added, err := lists.Append(ctx, uc.lists, householdID, req.ListID, items, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.AddToListResult{ListID: req.ListID, Added: added}, nil
}

// GetPatterns patrón de compra de cada producto del historial.
func (uc *UseCase) GetPatterns(ctx context.Context, householdID string) ([]dto.PurchasePatternDTO, error) {
	history, err := uc.history(ctx, householdID, uc.now())
	if err != nil {
		return nil, err
	}
	patterns := pattern.Analyze(history, uc.settings.Params)
	ids := make([]string, 0, len(patterns))
	for _, pp := range patterns {
		ids = append(ids, pp.ProductID)
	}
	names, err := uc.productIndex(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PurchasePatternDTO, 0, len(patterns))
	for _, pp := range patterns {
		prod, ok := names[pp.ProductID]
		if !ok {
			continue
		}
		out = append(out, dto.PurchasePatternDTO{
			ProductID:           pp.ProductID,
			ProductName:         prod.Name,
			PurchaseCount:       pp.PurchaseCount,
			AverageQuantity:     round2(pp.AverageQuantity),
			FirstPurchase:       pp.FirstPurchase,
			LastPurchase:        pp.LastPurchase,
			AverageIntervalDays: round2(pp.AverageIntervalDays),
			Confidence:          round2(pp.Confidence),
			IsRecurring:         pp.IsRecurring,
			PreferredWeekday:    pp.PreferredWeekday.String(),
		})
	}
	return out, nil
}

// GetCompanions productos que suelen comprarse junto a productID.
func (uc *UseCase) GetCompanions(ctx context.Context, householdID, productID string, limit int) ([]dto.CompanionDTO, error) {
	prod, err := uc.products.GetByID(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	if err := requireProduct(prod); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultCompanionLimit
	}
	history, err := uc.history(ctx, householdID, uc.now())
	if err != nil {
		return nil, err
	}
	comps := pattern.Companions(history, productID, limit, uc.settings.Params)
	ids := make([]string, 0, len(comps))
	for _, c := range comps {
		ids = append(ids, c.ProductID)
	}
	names, err := uc.productIndex(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CompanionDTO, 0, len(comps))
	for _, c := range comps {
		p, ok := names[c.ProductID]
		if !ok {
			continue
		}
		out = append(out, dto.CompanionDTO{
			ProductID:   c.ProductID,
			ProductName: p.Name,
			Count:       c.Count,
			Score:       round2(c.Score),
		})
	}
	return out, nil
}

// GetSeasonal productos con meses pico de compra.
func (uc *UseCase) GetSeasonal(ctx context.Context, householdID string) ([]dto.SeasonalDTO, error) {
	history, err := uc.history(ctx, householdID, uc.now())
	if err != nil {
		return nil, err
	}
	seasonal := pattern.Seasonal(history, uc.settings.Params)
	ids := make([]string, 0, len(seasonal))
	for _, s := range seasonal {
		ids = append(ids, s.ProductID)
	}
	names, err := uc.productIndex(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SeasonalDTO, 0, len(seasonal))
	for _, s := range seasonal {
		p, ok := names[s.ProductID]
		if !ok {
			continue
		}
		peaks := make([]int, 0, len(s.PeakMonths))
		for _, m := range s.PeakMonths {
			peaks = append(peaks, int(m))
		}
		out = append(out, dto.SeasonalDTO{
			ProductID:      s.ProductID,
			ProductName:    p.Name,
			MonthlyCounts:  s.MonthlyCounts,
			AverageMonthly: round2(s.AverageMonthly),
			PeakMonths:     peaks,
		})
	}
	return out, nil
}

// GetPredictions próxima compra estimada de los productos con patrón confiable.
func (uc *UseCase) GetPredictions(ctx context.Context, householdID string) ([]dto.PredictionDTO, error) {
	now := uc.now()
	history, err := uc.history(ctx, householdID, now)
	if err != nil {
		return nil, err
	}
	p := uc.settings.Params
	preds := pattern.PredictRestock(pattern.Analyze(history, p), now, p)
	ids := make([]string, 0, len(preds))
	for _, pr := range preds {
		ids = append(ids, pr.ProductID)
	}
	names, err := uc.productIndex(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PredictionDTO, 0, len(preds))
	for _, pr := range preds {
		prod, ok := names[pr.ProductID]
		if !ok {
			continue
		}
		out = append(out, dto.PredictionDTO{
			ProductID:           pr.ProductID,
			ProductName:         prod.Name,
			LastPurchase:        pr.LastPurchase,
			NextPurchase:        pr.NextPurchase,
			AverageIntervalDays: round2(pr.AverageIntervalDays),
			Confidence:          round2(pr.Confidence),
			DaysUntil:           pr.DaysUntil,
			Overdue:             pr.Overdue,
		})
	}
	return out, nil
}

func evaluate(p *entity.Product, onHand decimal.Decimal) restock.Evaluation {
	return restock.Evaluate(restock.Rule{MinQuantity: p.MinQuantity, RestockQuantity: p.RestockQuantity}, onHand)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
