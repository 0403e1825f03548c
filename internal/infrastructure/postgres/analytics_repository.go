package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para analítica de gasto del hogar.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSpendByCategory agrupa el gasto en compras por categoría de producto en [start, end).
// Los productos sin categoría se consolidan en la categoría vacía.
func (r *AnalyticsRepo) GetSpendByCategory(
	ctx context.Context,
	householdID string,
	start, end time.Time,
) ([]repository.CategorySpend, error) {
	const query = `
	SELECT
	    COALESCE(p.category, '')  AS category,
	    SUM(t.total)              AS total
	FROM purchase_transactions t
	JOIN products p ON p.id = t.product_id
	WHERE t.household_id = $1
	  AND t.purchased_at >= $2
	  AND t.purchased_at <  $3
	GROUP BY COALESCE(p.category, '')
	ORDER BY category`

	rows, err := r.q.Query(ctx, query, householdID, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSpendByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategorySpend
	for rows.Next() {
		var row repository.CategorySpend
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, fmt.Errorf("analytics.GetSpendByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetTopProducts devuelve los `limit` productos con más compras en el período,
// desempatando por gasto total. limit 0 = todos.
func (r *AnalyticsRepo) GetTopProducts(
	ctx context.Context,
	householdID string,
	start, end time.Time,
	limit int,
) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id::text         AS product_id,
	    p.name             AS product_name,
	    COUNT(*)           AS purchases,
	    SUM(t.quantity)    AS quantity,
	    SUM(t.total)       AS total
	FROM purchase_transactions t
	JOIN products p ON p.id = t.product_id
	WHERE t.household_id = $1
	  AND t.purchased_at >= $2
	  AND t.purchased_at <  $3
	GROUP BY p.id, p.name
	ORDER BY purchases DESC, total DESC, product_id
	LIMIT $4`

	lim, _ := pageArgs(limit, 0)
	rows, err := r.q.Query(ctx, query, householdID, start, end, lim)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(
			&row.ProductID,
			&row.ProductName,
			&row.Purchases,
			&row.Quantity,
			&row.Total,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	return results, nil
}
