package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository     = (*itemRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
	_ repository.AuditRepository             = (*auditRepo)(nil)
	_ repository.WasteRepository             = (*wasteRepo)(nil)
)

type itemRepo struct{ s *Store }

// Items repositorio de lotes de inventario.
func (s *Store) Items() repository.InventoryItemRepository { return &itemRepo{s} }

func (r *itemRepo) Create(_ context.Context, it *entity.InventoryItem) error {
	defer r.s.lock()()
	r.s.st.items[it.ID] = *it
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, householdID, id string) (*entity.InventoryItem, error) {
	defer r.s.lock()()
	it, ok := r.s.st.items[id]
	if !ok || it.HouseholdID != householdID {
		return nil, nil
	}
	return &it, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, householdID, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, householdID, id)
}

func (r *itemRepo) Update(_ context.Context, it *entity.InventoryItem) error {
	defer r.s.lock()()
	r.s.st.items[it.ID] = *it
	return nil
}

func (r *itemRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if it, ok := r.s.st.items[id]; ok && it.HouseholdID == householdID {
		delete(r.s.st.items, id)
	}
	return nil
}

func (r *itemRepo) List(_ context.Context, householdID string, f repository.InventoryItemFilter) ([]*entity.InventoryItem, error) {
	defer r.s.lock()()
	var out []*entity.InventoryItem
	for _, it := range r.s.st.items {
		if it.HouseholdID != householdID {
			continue
		}
		if f.LocationID != "" && it.LocationID != f.LocationID {
			continue
		}
		if f.ProductID != "" && it.ProductID != f.ProductID {
			continue
		}
		if f.InStockOnly && !it.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, &it)
	}
	slices.SortFunc(out, func(a, b *entity.InventoryItem) int {
		if c := a.PurchasedAt.Compare(b.PurchasedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *itemRepo) ListExpiringBefore(_ context.Context, householdID string, before time.Time) ([]*entity.InventoryItem, error) {
	defer r.s.lock()()
	var out []*entity.InventoryItem
	for _, it := range r.s.st.items {
		if it.HouseholdID != householdID || it.ExpiresAt == nil || !it.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		if !it.ExpiresAt.After(before) {
			out = append(out, &it)
		}
	}
	slices.SortFunc(out, func(a, b *entity.InventoryItem) int { return a.ExpiresAt.Compare(*b.ExpiresAt) })
	return out, nil
}

func (r *itemRepo) StockByProduct(_ context.Context, householdID string, at time.Time) (map[string]decimal.Decimal, error) {
	defer r.s.lock()()
	out := make(map[string]decimal.Decimal)
	for _, it := range r.s.st.items {
		if it.HouseholdID == householdID && it.Usable(at) {
			out[it.ProductID] = out[it.ProductID].Add(it.Quantity)
		}
	}
	return out, nil
}

type movementRepo struct{ s *Store }

// Movements repositorio de movimientos.
func (s *Store) Movements() repository.InventoryMovementRepository { return &movementRepo{s} }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	defer r.s.lock()()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *movementRepo) ListByItem(_ context.Context, householdID, itemID string) ([]*entity.InventoryMovement, error) {
	defer r.s.lock()()
	var out []*entity.InventoryMovement
	for _, m := range r.s.st.movements {
		if m.HouseholdID == householdID && m.ItemID == itemID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *movementRepo) List(_ context.Context, householdID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer r.s.lock()()
	var out []*entity.InventoryMovement
	for _, m := range r.s.st.movements {
		if m.HouseholdID != householdID || !inRange(m.Date, from, to) {
			continue
		}
		out = append(out, &m)
	}
	return paginate(out, limit, offset), nil
}

type auditRepo struct{ s *Store }

// Audits repositorio de auditorías.
func (s *Store) Audits() repository.AuditRepository { return &auditRepo{s} }

func (r *auditRepo) CreateSession(_ context.Context, a *entity.AuditSession) error {
	defer r.s.lock()()
	r.s.st.audits[a.ID] = *a
	return nil
}

func (r *auditRepo) GetSession(_ context.Context, householdID, id string) (*entity.AuditSession, error) {
	defer r.s.lock()()
	a, ok := r.s.st.audits[id]
	if !ok || a.HouseholdID != householdID {
		return nil, nil
	}
	return &a, nil
}

func (r *auditRepo) GetOpenSession(_ context.Context, householdID string) (*entity.AuditSession, error) {
	defer r.s.lock()()
	for _, a := range r.s.st.audits {
		if a.HouseholdID == householdID && a.Status == entity.AuditOpen {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *auditRepo) UpdateSession(_ context.Context, a *entity.AuditSession) error {
	defer r.s.lock()()
	r.s.st.audits[a.ID] = *a
	return nil
}

func (r *auditRepo) ListSessions(_ context.Context, householdID string, limit, offset int) ([]*entity.AuditSession, error) {
	defer r.s.lock()()
	var out []*entity.AuditSession
	for _, a := range r.s.st.audits {
		if a.HouseholdID == householdID {
			out = append(out, &a)
		}
	}
	slices.SortFunc(out, func(a, b *entity.AuditSession) int { return b.StartedAt.Compare(a.StartedAt) })
	return paginate(out, limit, offset), nil
}

func (r *auditRepo) CreateItems(_ context.Context, items []*entity.AuditItem) error {
	defer r.s.lock()()
	for _, it := range items {
		r.s.st.auditItems[it.ID] = *it
	}
	return nil
}

func (r *auditRepo) ListItems(_ context.Context, sessionID string) ([]*entity.AuditItem, error) {
	defer r.s.lock()()
	var out []*entity.AuditItem
	for _, it := range r.s.st.auditItems {
		if it.SessionID == sessionID {
			out = append(out, &it)
		}
	}
	slices.SortFunc(out, func(a, b *entity.AuditItem) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *auditRepo) GetItem(_ context.Context, sessionID, id string) (*entity.AuditItem, error) {
	defer r.s.lock()()
	it, ok := r.s.st.auditItems[id]
	if !ok || it.SessionID != sessionID {
		return nil, nil
	}
	return &it, nil
}

func (r *auditRepo) UpdateItem(_ context.Context, it *entity.AuditItem) error {
	defer r.s.lock()()
	r.s.st.auditItems[it.ID] = *it
	return nil
}

type wasteRepo struct{ s *Store }

// Waste repositorio de desperdicio.
func (s *Store) Waste() repository.WasteRepository { return &wasteRepo{s} }

func (r *wasteRepo) Create(_ context.Context, w *entity.WasteEvent) error {
	defer r.s.lock()()
	r.s.st.waste = append(r.s.st.waste, *w)
	return nil
}

func (r *wasteRepo) List(_ context.Context, householdID string, from, to time.Time) ([]*entity.WasteEvent, error) {
	defer r.s.lock()()
	var out []*entity.WasteEvent
	for _, w := range r.s.st.waste {
		if w.HouseholdID == householdID && !w.OccurredAt.Before(from) && w.OccurredAt.Before(to) {
			out = append(out, &w)
		}
	}
	return out, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
