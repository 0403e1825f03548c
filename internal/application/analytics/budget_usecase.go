package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const monthLayout = "2006-01"

// BudgetUseCase presupuestos mensuales y su seguimiento contra las compras.
type BudgetUseCase struct {
	budgets       repository.BudgetRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewBudgetUseCase construye el caso de uso.
func NewBudgetUseCase(budgets repository.BudgetRepository, analyticsRepo repository.AnalyticsRepository) *BudgetUseCase {
	return &BudgetUseCase{budgets: budgets, analyticsRepo: analyticsRepo, now: time.Now}
}

// Set crea o reemplaza el presupuesto del mes (categoría vacía = total).
func (uc *BudgetUseCase) Set(ctx context.Context, householdID string, req dto.SetBudgetRequest) (*dto.BudgetResponse, error) {
	if _, err := time.Parse(monthLayout, req.Month); err != nil {
		return nil, fmt.Errorf("month inválido: %w", domain.ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	b := &entity.BudgetTarget{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Month:       req.Month,
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.budgets.Upsert(ctx, b); err != nil {
		return nil, err
	}
	res := toBudgetResponse(b)
	return &res, nil
}

// List presupuestos del mes.
func (uc *BudgetUseCase) List(ctx context.Context, householdID, month string) ([]dto.BudgetResponse, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, fmt.Errorf("month inválido: %w", domain.ErrInvalidInput)
	}
	list, err := uc.budgets.ListByMonth(ctx, householdID, month)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BudgetResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBudgetResponse(b))
	}
	return out, nil
}

// Delete elimina un presupuesto.
func (uc *BudgetUseCase) Delete(ctx context.Context, householdID, id string) error {
	return uc.budgets.Delete(ctx, householdID, id)
}

// Status gasto del mes contra el presupuesto: porcentaje usado, gasto diario,
// proyección al cierre y días restantes. month vacío = mes en curso.
func (uc *BudgetUseCase) Status(ctx context.Context, householdID, month string) (*dto.BudgetStatusDTO, error) {
	now := uc.now()
	if month == "" {
		month = now.Format(monthLayout)
	}
	start, err := time.ParseInLocation(monthLayout, month, now.Location())
	if err != nil {
		return nil, fmt.Errorf("month inválido: %w", domain.ErrInvalidInput)
	}
	end := start.AddDate(0, 1, 0)

	budgets, err := uc.budgets.ListByMonth(ctx, householdID, month)
	if err != nil {
		return nil, err
	}
	spend, err := uc.analyticsRepo.GetSpendByCategory(ctx, householdID, start, end)
	if err != nil {
		return nil, err
	}
	return buildStatus(month, start, end, now, budgets, spend), nil
}

func buildStatus(
	month string,
	start, end, now time.Time,
	budgets []*entity.BudgetTarget,
	spend []repository.CategorySpend,
) *dto.BudgetStatusDTO {
	spent := decimal.Zero
	byCategory := make(map[string]decimal.Decimal, len(spend))
	for _, s := range spend {
		spent = spent.Add(s.Total)
		byCategory[strings.ToLower(s.Category)] = byCategory[strings.ToLower(s.Category)].Add(s.Total)
	}

	// Objetivo: presupuesto total; sin total, la suma de los de categoría
	target := decimal.Zero
	categorySum := decimal.Zero
	hasTotal := false
	categories := []dto.CategoryBudgetDTO{}
	for _, b := range budgets {
		if b.Category == "" {
			target = b.Amount
			hasTotal = true
			continue
		}
		categorySum = categorySum.Add(b.Amount)
		catSpent := byCategory[strings.ToLower(b.Category)]
		categories = append(categories, dto.CategoryBudgetDTO{
			Category:    b.Category,
			Target:      b.Amount,
			Spent:       catSpent.Round(2),
			UsedPercent: percent(catSpent, b.Amount),
			OverBudget:  catSpent.GreaterThan(b.Amount),
		})
	}
	if !hasTotal {
		target = categorySum
	}

	daysInMonth := int(end.Sub(start).Hours() / 24)
	var elapsed int
	switch {
	case !now.Before(end):
		elapsed = daysInMonth
	case now.Before(start):
		elapsed = 0
	default:
		elapsed = now.Day()
	}

	burn := decimal.Zero
	if elapsed > 0 {
		burn = spent.Div(decimal.NewFromInt(int64(elapsed))).Round(2)
	}
	projected := spent
	if elapsed > 0 && elapsed < daysInMonth {
		projected = spent.Div(decimal.NewFromInt(int64(elapsed))).Mul(decimal.NewFromInt(int64(daysInMonth)))
	}

	return &dto.BudgetStatusDTO{
		Month:          month,
		Target:         target,
		Spent:          spent.Round(2),
		Remaining:      target.Sub(spent).Round(2),
		UsedPercent:    percent(spent, target),
		DailyBurnRate:  burn,
		ProjectedSpend: projected.Round(2),
		DaysElapsed:    elapsed,
		DaysRemaining:  daysInMonth - elapsed,
		OverBudget:     target.IsPositive() && spent.GreaterThan(target),
		Categories:     categories,
	}
}

func toBudgetResponse(b *entity.BudgetTarget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:       b.ID,
		Month:    b.Month,
		Category: b.Category,
		Amount:   b.Amount,
	}
}
