package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetBudgetRequest fija el presupuesto de un mes (total o por categoría).
type SetBudgetRequest struct {
	Month    string          `json:"month" validate:"required,yearmonth"`
	Category string          `json:"category" validate:"omitempty,max=80"`
	Amount   decimal.Decimal `json:"amount" validate:"dgt0"`
}

// BudgetResponse presupuesto mensual.
type BudgetResponse struct {
	ID       string          `json:"id"`
	Month    string          `json:"month"`
	Category string          `json:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetStatusDTO estado del presupuesto de un mes.
type BudgetStatusDTO struct {
	Month          string              `json:"month"`
	Target         decimal.Decimal     `json:"target"`
	Spent          decimal.Decimal     `json:"spent"`
	Remaining      decimal.Decimal     `json:"remaining"`
	UsedPercent    decimal.Decimal     `json:"used_percent"`
	DailyBurnRate  decimal.Decimal     `json:"daily_burn_rate"`
	ProjectedSpend decimal.Decimal     `json:"projected_spend"`
	DaysElapsed    int                 `json:"days_elapsed"`
	DaysRemaining  int                 `json:"days_remaining"`
	OverBudget     bool                `json:"over_budget"`
	Categories     []CategoryBudgetDTO `json:"categories"`
}

// CategoryBudgetDTO gasto vs presupuesto de una categoría.
type CategoryBudgetDTO struct {
	Category    string          `json:"category"`
	Target      decimal.Decimal `json:"target"`
	Spent       decimal.Decimal `json:"spent"`
	UsedPercent decimal.Decimal `json:"used_percent"`
	OverBudget  bool            `json:"over_budget"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Inventario
	StockByStatus map[string]int    `json:"stock_by_status"`
	ExpiringSoon  []ExpiringItemDTO `json:"expiring_soon"`
	RestockNeeded int               `json:"restock_needed"`

	// Mes en curso (día 1 – hoy)
	MonthlySpend  decimal.Decimal `json:"monthly_spend"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	BudgetUsed    decimal.Decimal `json:"budget_used_percent"`
	MonthlyWaste  decimal.Decimal `json:"monthly_waste"`
	TopProducts   []TopProductDTO `json:"top_products"`

	DateLabel   string    `json:"date_label"` // ej: "Febrero 2026"
	GeneratedAt time.Time `json:"generated_at"`
}

// TopProductDTO producto más comprado del período.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Purchases   int             `json:"purchases"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// SpendReportRequest período del reporte de gasto (YYYY-MM-DD). Vacío = mes en curso.
type SpendReportRequest struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	TopN      int    `query:"top_n" validate:"omitempty,min=1,max=200"`
}

// PeriodDTO rango de fechas de un reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SpendReportDTO gasto del período por categoría y ranking de productos.
type SpendReportDTO struct {
	Period          PeriodDTO          `json:"period"`
	Total           decimal.Decimal    `json:"total"`
	Categories      []CategorySpendDTO `json:"categories"`
	ProductRanking  []ProductSpendDTO  `json:"product_ranking"`
	ParetoProducts  []ProductSpendDTO  `json:"pareto_products"`
	PurchaseCount   int                `json:"purchase_count"`
	AveragePurchase decimal.Decimal    `json:"average_purchase"`
}

// CategorySpendDTO gasto de una categoría y su participación.
type CategorySpendDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
}

// ProductSpendDTO posición de un producto en el ranking de gasto.
type ProductSpendDTO struct {
	Rank              int             `json:"rank"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Purchases         int             `json:"purchases"`
	Quantity          decimal.Decimal `json:"quantity"`
	Total             decimal.Decimal `json:"total"`
	Percent           decimal.Decimal `json:"percent"`
	CumulativePercent decimal.Decimal `json:"cumulative_percent"`
	IsTopPareto       bool            `json:"is_top_pareto"`
}
