package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const (
	defaultTopN     = 20
	maxTopN         = 200
	paretoThreshold = 80 // el top ~20% de productos concentra el 80% del gasto
	dateLayout      = "2006-01-02"
)

var (
	hundred  = decimal.NewFromInt(100)
	pareto80 = decimal.NewFromInt(paretoThreshold)
)

// ReportUseCase reporte de gasto por categoría y ranking Pareto de productos.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(analyticsRepo repository.AnalyticsRepository) *ReportUseCase {
	return &ReportUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// SpendReport genera el reporte de gasto del período.
func (uc *ReportUseCase) SpendReport(ctx context.Context, householdID string, req dto.SpendReportRequest) (*dto.SpendReportDTO, error) {
	start, end, err := parsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	// 1) Categorías y productos en paralelo
	type categoryResult struct {
		rows []repository.CategorySpend
		err  error
	}
	type productResult struct {
		rows []repository.TopProductResult
		err  error
	}
	catChan := make(chan categoryResult, 1)
	prodChan := make(chan productResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.GetSpendByCategory(ctx, householdID, start, end)
		catChan <- categoryResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopProducts(ctx, householdID, start, end, 0)
		prodChan <- productResult{rows, err}
	}()

	catRes := <-catChan
	prodRes := <-prodChan
	if catRes.err != nil {
		return nil, fmt.Errorf("analytics: categorías: %w", catRes.err)
	}
	if prodRes.err != nil {
		return nil, fmt.Errorf("analytics: productos: %w", prodRes.err)
	}

	// 2) Total y participación por categoría
	total := decimal.Zero
	for _, c := range catRes.rows {
		total = total.Add(c.Total)
	}
	categories := make([]dto.CategorySpendDTO, 0, len(catRes.rows))
	for _, c := range catRes.rows {
		categories = append(categories, dto.CategorySpendDTO{
			Category: c.Category,
			Total:    c.Total.Round(2),
			Percent:  percent(c.Total, total),
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Total.GreaterThan(categories[j].Total)
	})

	// 3) Ranking Pareto de productos por gasto
	count := 0
	for _, p := range prodRes.rows {
		count += p.Purchases
	}
	ranking := buildProductRanking(prodRes.rows, total)
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	pareto := []dto.ProductSpendDTO{}
	for _, p := range ranking {
		if p.IsTopPareto {
			pareto = append(pareto, p)
		}
	}

	avg := decimal.Zero
	if count > 0 {
		avg = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	return &dto.SpendReportDTO{
		Period: dto.PeriodDTO{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Add(-time.Nanosecond).Format(dateLayout),
		},
		Total:           total.Round(2),
		Categories:      categories,
		ProductRanking:  ranking,
		ParetoProducts:  pareto,
		PurchaseCount:   count,
		AveragePurchase: avg,
	}, nil
}

// buildProductRanking ordena por gasto descendente y marca los productos que, acumulados,
// no superan el 80% del gasto. El primero siempre es Pareto.
func buildProductRanking(rows []repository.TopProductResult, total decimal.Decimal) []dto.ProductSpendDTO {
	if len(rows) == 0 {
		return []dto.ProductSpendDTO{}
	}
	sorted := make([]repository.TopProductResult, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Total.Equal(sorted[j].Total) {
			return sorted[i].Total.GreaterThan(sorted[j].Total)
		}
		return sorted[i].ProductName < sorted[j].ProductName
	})

	ranking := make([]dto.ProductSpendDTO, 0, len(sorted))
	cumulative := decimal.Zero
	for i, r := range sorted {
		pct := percent(r.Total, total)
		cumulative = cumulative.Add(pct)
		ranking = append(ranking, dto.ProductSpendDTO{
			Rank:              i + 1,
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			Purchases:         r.Purchases,
			Quantity:          r.Quantity,
			Total:             r.Total.Round(2),
			Percent:           pct,
			CumulativePercent: cumulative.Round(2),
			IsTopPareto:       cumulative.LessThanOrEqual(pareto80) || i == 0,
		})
	}
	return ranking
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// parsePeriod convierte las fechas en [start, end). Sin fechas = del día 1 del mes a hoy.
func parsePeriod(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	loc := now.Location()
	if endStr == "" {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %w", domain.ErrInvalidInput)
		}
		end = end.AddDate(0, 0, 1) // inclusive hasta el final del día
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %w", domain.ErrInvalidInput)
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date no puede ser posterior a end_date: %w", domain.ErrInvalidInput)
	}
	return start, end, nil
}
