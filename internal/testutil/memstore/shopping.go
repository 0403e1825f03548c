package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var (
	_ repository.ShoppingListRepository = (*listRepo)(nil)
	_ repository.PurchaseRepository     = (*purchaseRepo)(nil)
	_ repository.PriceRecordRepository  = (*priceRepo)(nil)
	_ repository.ReceiptRepository      = (*receiptRepo)(nil)
	_ repository.MealPlanRepository     = (*mealRepo)(nil)
	_ repository.AnalyticsRepository    = (*analyticsRepo)(nil)
)

type listRepo struct{ s *Store }

// ShoppingLists repositorio de listas de compras.
func (s *Store) ShoppingLists() repository.ShoppingListRepository { return &listRepo{s} }

func (r *listRepo) Create(_ context.Context, l *entity.ShoppingList) error {
	defer r.s.lock()()
	cp := *l
	cp.Items = nil
	r.s.st.lists[l.ID] = cp
	for _, it := range l.Items {
		r.s.st.listItems[it.ID] = it
	}
	return nil
}

func (r *listRepo) GetByID(_ context.Context, householdID, id string) (*entity.ShoppingList, error) {
	defer r.s.lock()()
	l, ok := r.s.st.lists[id]
	if !ok || l.HouseholdID != householdID {
		return nil, nil
	}
	l.Items = nil
	for _, it := range r.s.st.listItems {
		if it.ListID == id {
			l.Items = append(l.Items, it)
		}
	}
	slices.SortFunc(l.Items, func(a, b entity.ShoppingListItem) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return &l, nil
}

func (r *listRepo) List(_ context.Context, householdID, status string) ([]*entity.ShoppingList, error) {
	defer r.s.lock()()
	var out []*entity.ShoppingList
	for _, l := range r.s.st.lists {
		if l.HouseholdID == householdID && (status == "" || l.Status == status) {
			out = append(out, &l)
		}
	}
	slices.SortFunc(out, func(a, b *entity.ShoppingList) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *listRepo) Update(_ context.Context, l *entity.ShoppingList) error {
	defer r.s.lock()()
	cp := *l
	cp.Items = nil
	r.s.st.lists[l.ID] = cp
	return nil
}

func (r *listRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if l, ok := r.s.st.lists[id]; ok && l.HouseholdID == householdID {
		delete(r.s.st.lists, id)
		for itemID, it := range r.s.st.listItems {
			if it.ListID == id {
				delete(r.s.st.listItems, itemID)
			}
		}
	}
	return nil
}

func (r *listRepo) AddItem(_ context.Context, it *entity.ShoppingListItem) error {
	defer r.s.lock()()
	if _, ok := r.s.st.lists[it.ListID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.listItems[it.ID] = *it
	return nil
}

func (r *listRepo) GetItem(_ context.Context, listID, itemID string) (*entity.ShoppingListItem, error) {
	defer r.s.lock()()
	it, ok := r.s.st.listItems[itemID]
	if !ok || it.ListID != listID {
		return nil, nil
	}
	return &it, nil
}

func (r *listRepo) UpdateItem(_ context.Context, it *entity.ShoppingListItem) error {
	defer r.s.lock()()
	r.s.st.listItems[it.ID] = *it
	return nil
}

func (r *listRepo) DeleteItem(_ context.Context, listID, itemID string) error {
	defer r.s.lock()()
	if it, ok := r.s.st.listItems[itemID]; ok && it.ListID == listID {
		delete(r.s.st.listItems, itemID)
	}
	return nil
}

func (r *listRepo) ActiveProductIDs(_ context.Context, householdID string) ([]string, error) {
	defer r.s.lock()()
	seen := map[string]bool{}
	var out []string
	for _, it := range r.s.st.listItems {
		l, ok := r.s.st.lists[it.ListID]
		if !ok || l.HouseholdID != householdID || l.Status != entity.ShoppingListActive {
			continue
		}
		if it.ProductID != "" && !it.Checked && !seen[it.ProductID] {
			seen[it.ProductID] = true
			out = append(out, it.ProductID)
		}
	}
	slices.Sort(out)
	return out, nil
}

type purchaseRepo struct{ s *Store }

// Purchases repositorio de compras.
func (s *Store) Purchases() repository.PurchaseRepository { return &purchaseRepo{s} }

func (r *purchaseRepo) Create(_ context.Context, p *entity.PurchaseTransaction) error {
	defer r.s.lock()()
	r.s.st.purchases = append(r.s.st.purchases, *p)
	return nil
}

func (r *purchaseRepo) List(_ context.Context, householdID string, f repository.PurchaseFilter) ([]*entity.PurchaseTransaction, error) {
	defer r.s.lock()()
	var out []*entity.PurchaseTransaction
	for _, p := range r.s.st.purchases {
		if p.HouseholdID != householdID || !inRange(p.PurchasedAt, f.From, f.To) {
			continue
		}
		if f.ProductID != "" && p.ProductID != f.ProductID {
			continue
		}
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *entity.PurchaseTransaction) int { return b.PurchasedAt.Compare(a.PurchasedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *purchaseRepo) ListHistory(_ context.Context, householdID string, since time.Time) ([]pattern.PurchaseRecord, error) {
	defer r.s.lock()()
	var out []pattern.PurchaseRecord
	for _, p := range r.s.st.purchases {
		if p.HouseholdID != householdID || p.PurchasedAt.Before(since) {
			continue
		}
		out = append(out, pattern.PurchaseRecord{
			ProductID:   p.ProductID,
			Quantity:    p.Quantity.InexactFloat64(),
			PurchasedAt: p.PurchasedAt,
		})
	}
	return out, nil
}

type priceRepo struct{ s *Store }

// Prices repositorio de precios.
func (s *Store) Prices() repository.PriceRecordRepository { return &priceRepo{s} }

func (r *priceRepo) Create(_ context.Context, p *entity.PriceRecord) error {
	defer r.s.lock()()
	r.s.st.prices = append(r.s.st.prices, *p)
	return nil
}

func (r *priceRepo) ListByProduct(_ context.Context, householdID, productID string) ([]*entity.PriceRecord, error) {
	defer r.s.lock()()
	var out []*entity.PriceRecord
	for _, p := range r.s.st.prices {
		if p.HouseholdID == householdID && p.ProductID == productID {
			out = append(out, &p)
		}
	}
	slices.SortStableFunc(out, func(a, b *entity.PriceRecord) int { return a.RecordedAt.Compare(b.RecordedAt) })
	return out, nil
}

func (r *priceRepo) LatestByProducts(_ context.Context, householdID string, productIDs []string) (map[string]decimal.Decimal, error) {
	defer r.s.lock()()
	want := map[string]bool{}
	for _, id := range productIDs {
		want[id] = true
	}
	out := make(map[string]decimal.Decimal)
	latest := make(map[string]time.Time)
	for _, p := range r.s.st.prices {
		if p.HouseholdID != householdID || !want[p.ProductID] {
			continue
		}
		if t, ok := latest[p.ProductID]; !ok || !p.RecordedAt.Before(t) {
			latest[p.ProductID] = p.RecordedAt
			out[p.ProductID] = p.UnitPrice
		}
	}
	return out, nil
}

type receiptRepo struct{ s *Store }

// Receipts repositorio de recibos.
func (s *Store) Receipts() repository.ReceiptRepository { return &receiptRepo{s} }

func (r *receiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	defer r.s.lock()()
	if rc.Number != "" {
		for _, existing := range r.s.st.receipts {
			if existing.HouseholdID == rc.HouseholdID && existing.StoreID == rc.StoreID && existing.Number == rc.Number {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *rc
	cp.Lines = slices.Clone(rc.Lines)
	r.s.st.receipts[rc.ID] = cp
	return nil
}

func (r *receiptRepo) GetByID(_ context.Context, householdID, id string) (*entity.Receipt, error) {
	defer r.s.lock()()
	rc, ok := r.s.st.receipts[id]
	if !ok || rc.HouseholdID != householdID {
		return nil, nil
	}
	rc.Lines = slices.Clone(rc.Lines)
	return &rc, nil
}

func (r *receiptRepo) List(_ context.Context, householdID string, limit, offset int) ([]*entity.Receipt, error) {
	defer r.s.lock()()
	var out []*entity.Receipt
	for _, rc := range r.s.st.receipts {
		if rc.HouseholdID == householdID {
			rc.Lines = nil
			out = append(out, &rc)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Receipt) int { return b.IssuedAt.Compare(a.IssuedAt) })
	return paginate(out, limit, offset), nil
}

type mealRepo struct{ s *Store }

// MealPlans repositorio de planes de comida.
func (s *Store) MealPlans() repository.MealPlanRepository { return &mealRepo{s} }

func (r *mealRepo) Create(_ context.Context, m *entity.MealPlan) error {
	defer r.s.lock()()
	cp := *m
	cp.Ingredients = slices.Clone(m.Ingredients)
	r.s.st.meals[m.ID] = cp
	return nil
}

func (r *mealRepo) GetByID(_ context.Context, householdID, id string) (*entity.MealPlan, error) {
	defer r.s.lock()()
	m, ok := r.s.st.meals[id]
	if !ok || m.HouseholdID != householdID {
		return nil, nil
	}
	m.Ingredients = slices.Clone(m.Ingredients)
	return &m, nil
}

func (r *mealRepo) Update(_ context.Context, m *entity.MealPlan) error {
	defer r.s.lock()()
	cp := *m
	cp.Ingredients = slices.Clone(m.Ingredients)
	r.s.st.meals[m.ID] = cp
	return nil
}

func (r *mealRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if m, ok := r.s.st.meals[id]; ok && m.HouseholdID == householdID {
		delete(r.s.st.meals, id)
	}
	return nil
}

func (r *mealRepo) ListByRange(_ context.Context, householdID string, from, to time.Time) ([]*entity.MealPlan, error) {
	defer r.s.lock()()
	var out []*entity.MealPlan
	for _, m := range r.s.st.meals {
		if m.HouseholdID == householdID && !m.Date.Before(from) && !m.Date.After(to) {
			m.Ingredients = slices.Clone(m.Ingredients)
			out = append(out, &m)
		}
	}
	slices.SortFunc(out, func(a, b *entity.MealPlan) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

type analyticsRepo struct{ s *Store }

// Analytics consultas de lectura sobre compras.
func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

func (r *analyticsRepo) GetSpendByCategory(_ context.Context, householdID string, start, end time.Time) ([]repository.CategorySpend, error) {
	defer r.s.lock()()
	totals := map[string]decimal.Decimal{}
	for _, p := range r.s.st.purchases {
		if p.HouseholdID != householdID || p.PurchasedAt.Before(start) || !p.PurchasedAt.Before(end) {
			continue
		}
		cat := r.s.st.products[p.ProductID].Category
		totals[cat] = totals[cat].Add(p.Total)
	}
	out := make([]repository.CategorySpend, 0, len(totals))
	for cat, total := range totals {
		out = append(out, repository.CategorySpend{Category: cat, Total: total})
	}
	slices.SortFunc(out, func(a, b repository.CategorySpend) int { return strings.Compare(a.Category, b.Category) })
	return out, nil
}

func (r *analyticsRepo) GetTopProducts(_ context.Context, householdID string, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	defer r.s.lock()()
	agg := map[string]*repository.TopProductResult{}
	for _, p := range r.s.st.purchases {
		if p.HouseholdID != householdID || p.PurchasedAt.Before(start) || !p.PurchasedAt.Before(end) {
			continue
		}
		t, ok := agg[p.ProductID]
		if !ok {
			t = &repository.TopProductResult{ProductID: p.ProductID, ProductName: r.s.st.products[p.ProductID].Name}
			agg[p.ProductID] = t
		}
		t.Purchases++
		t.Quantity = t.Quantity.Add(p.Quantity)
		t.Total = t.Total.Add(p.Total)
	}
	out := make([]repository.TopProductResult, 0, len(agg))
	for _, t := range agg {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b repository.TopProductResult) int {
		if a.Purchases != b.Purchases {
			return b.Purchases - a.Purchases
		}
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return paginate(out, limit, 0), nil
}
