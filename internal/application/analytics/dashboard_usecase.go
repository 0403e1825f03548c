// Package analytics contiene los casos de uso de reportes del hogar: resumen del
// dashboard, presupuestos, reporte de gasto y libro de precios.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const (
	dashboardTopProducts  = 5 // productos en el widget del dashboard
	dashboardExpiringDays = 3
)

// ItemLister lotes del inventario con su estado derivado.
type ItemLister interface {
	List(ctx context.Context, householdID string, f dto.InventoryItemFilter) ([]dto.InventoryItemResponse, error)
}

// ExpiringLister lotes próximos a vencer.
type ExpiringLister interface {
	ListExpiring(ctx context.Context, householdID string, withinDays int) ([]dto.ExpiringItemDTO, error)
}

// RestockLister básicos bajo su mínimo.
type RestockLister interface {
	GenerateRestockList(ctx context.Context, householdID string) ([]dto.ReplenishmentSuggestionDTO, error)
}

// DashboardUseCase genera el resumen del inventario y del mes en curso.
//
// Fuentes: casos de uso de inventario (estado, vencimientos, reposición) y
// AnalyticsRepository/BudgetRepository/WasteRepository para el mes.
type DashboardUseCase struct {
	items         ItemLister
	expiring      ExpiringLister
	restock       RestockLister
	analyticsRepo repository.AnalyticsRepository
	budgets       repository.BudgetRepository
	waste         repository.WasteRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	items ItemLister,
	expiring ExpiringLister,
	restock RestockLister,
	analyticsRepo repository.AnalyticsRepository,
	budgets repository.BudgetRepository,
	waste repository.WasteRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		items:         items,
		expiring:      expiring,
		restock:       restock,
		analyticsRepo: analyticsRepo,
		budgets:       budgets,
		waste:         waste,
		now:           time.Now,
	}
}

// result resultado de una consulta lanzada en paralelo.
type result[T any] struct {
	val T
	err error
}

func async[T any](fn func() (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v, err}
	}()
	return ch
}

// GetSummary construye el DashboardSummaryDTO del hogar.
//
// Siete consultas en paralelo:
//  1. lotes por estado
//  2. por vencer en 3 días
//  3. básicos a reponer
//  4. gasto del mes por categoría
//  5. presupuesto del mes
//  6. desperdicio del mes
//  7. top 5 productos del mes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, householdID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Mes en curso: día 1 a las 00:00 – mañana a las 00:00 (exclusivo)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	month := now.Format(monthLayout)

	itemsCh := async(func() ([]dto.InventoryItemResponse, error) {
		return uc.items.List(ctx, householdID, dto.InventoryItemFilter{})
	})
	expiringCh := async(func() ([]dto.ExpiringItemDTO, error) {
		return uc.expiring.ListExpiring(ctx, householdID, dashboardExpiringDays)
	})
	restockCh := async(func() ([]dto.ReplenishmentSuggestionDTO, error) {
		return uc.restock.GenerateRestockList(ctx, householdID)
	})
	spendCh := async(func() ([]repository.CategorySpend, error) {
		return uc.analyticsRepo.GetSpendByCategory(ctx, householdID, monthStart, monthEnd)
	})
	budgetCh := async(func() ([]*entity.BudgetTarget, error) {
		return uc.budgets.ListByMonth(ctx, householdID, month)
	})
	wasteCh := async(func() ([]*entity.WasteEvent, error) {
		return uc.waste.List(ctx, householdID, monthStart, monthEnd)
	})
	topCh := async(func() ([]repository.TopProductResult, error) {
		return uc.analyticsRepo.GetTopProducts(ctx, householdID, monthStart, monthEnd, dashboardTopProducts)
	})

	items, expiring, restock := <-itemsCh, <-expiringCh, <-restockCh
	spend, budgets, waste, top := <-spendCh, <-budgetCh, <-wasteCh, <-topCh

	for _, r := range []struct {
		name string
		err  error
	}{
		{"inventario", items.err},
		{"por vencer", expiring.err},
		{"reposición", restock.err},
		{"gasto del mes", spend.err},
		{"presupuesto", budgets.err},
		{"desperdicio", waste.err},
		{"top productos", top.err},
	} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", r.name, r.err)
		}
	}

	// ── Agregados ────────────────────────────────────────────────────────────
	byStatus := map[string]int{}
	for _, it := range items.val {
		byStatus[it.Status]++
	}

	spent := decimal.Zero
	for _, s := range spend.val {
		spent = spent.Add(s.Total)
	}

	target, categorySum := decimal.Zero, decimal.Zero
	hasTotal := false
	for _, b := range budgets.val {
		if b.Category == "" {
			target, hasTotal = b.Amount, true
		} else {
			categorySum = categorySum.Add(b.Amount)
		}
	}
	if !hasTotal {
		target = categorySum
	}

	wasteCost := decimal.Zero
	for _, w := range waste.val {
		wasteCost = wasteCost.Add(w.EstimatedCost)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.val))
	for _, t := range top.val {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			Purchases:   t.Purchases,
			Quantity:    t.Quantity,
			Total:       t.Total.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		StockByStatus: byStatus,
		ExpiringSoon:  expiring.val,
		RestockNeeded: len(restock.val),
		MonthlySpend:  spent.Round(2),
		MonthlyBudget: target,
		BudgetUsed:    percent(spent, target),
		MonthlyWaste:  wasteCost.Round(2),
		TopProducts:   topProducts,
		DateLabel:     monthLabel(now),
		GeneratedAt:   now,
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
