package memstore

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

var (
	_ repository.HouseholdRepository = (*householdRepo)(nil)
	_ repository.UserRepository      = (*userRepo)(nil)
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.LocationRepository  = (*locationRepo)(nil)
	_ repository.StoreRepository     = (*storeRepo)(nil)
	_ repository.NutritionRepository = (*nutritionRepo)(nil)
	_ repository.BudgetRepository    = (*budgetRepo)(nil)
)

type householdRepo struct{ s *Store }

// Households repositorio de hogares.
func (s *Store) Households() repository.HouseholdRepository { return &householdRepo{s} }

func (r *householdRepo) Create(_ context.Context, h *entity.Household) error {
	defer r.s.lock()()
	r.s.st.households[h.ID] = *h
	return nil
}

func (r *householdRepo) GetByID(_ context.Context, id string) (*entity.Household, error) {
	defer r.s.lock()()
	h, ok := r.s.st.households[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *householdRepo) Update(_ context.Context, h *entity.Household) error {
	defer r.s.lock()()
	r.s.st.households[h.ID] = *h
	return nil
}

type userRepo struct{ s *Store }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ListByHousehold(_ context.Context, householdID string) ([]*entity.User, error) {
	defer r.s.lock()()
	var out []*entity.User
	for _, u := range r.s.st.users {
		if u.HouseholdID == householdID {
			out = append(out, &u)
		}
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return strings.Compare(a.Email, b.Email) })
	return out, nil
}

type productRepo struct{ s *Store }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	if p.Barcode != "" {
		for _, existing := range r.s.st.products {
			if existing.HouseholdID == p.HouseholdID && existing.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, householdID, id string) (*entity.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.st.products[id]
	if !ok || p.HouseholdID != householdID {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByBarcode(_ context.Context, householdID, barcode string) (*entity.Product, error) {
	defer r.s.lock()()
	for _, p := range r.s.st.products {
		if p.HouseholdID == householdID && p.Barcode == barcode && barcode != "" {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) FindByName(_ context.Context, householdID, name string) (*entity.Product, error) {
	defer r.s.lock()()
	for _, p := range r.s.st.products {
		if p.HouseholdID == householdID && strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	if p.Barcode != "" {
		for _, existing := range r.s.st.products {
			if existing.ID != p.ID && existing.HouseholdID == p.HouseholdID && existing.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *productRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	defer r.s.lock()()
	p, ok := r.s.st.products[productID]
	if !ok {
		return nil
	}
	p.AverageCost = cost
	r.s.st.products[productID] = p
	return nil
}

func (r *productRepo) List(_ context.Context, householdID string, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.s.lock()()
	var out []*entity.Product
	search := strings.ToLower(f.Search)
	for _, p := range r.s.st.products {
		if p.HouseholdID != householdID {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.StaplesOnly && !p.IsStaple {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Brand), search) {
			continue
		}
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *productRepo) ListByIDs(_ context.Context, householdID string, ids []string) ([]*entity.Product, error) {
	defer r.s.lock()()
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.st.products[id]; ok && p.HouseholdID == householdID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *productRepo) ListStaples(_ context.Context, householdID string) ([]*entity.Product, error) {
	defer r.s.lock()()
	var out []*entity.Product
	for _, p := range r.s.st.products {
		if p.HouseholdID == householdID && p.IsStaple {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *productRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if p, ok := r.s.st.products[id]; ok && p.HouseholdID == householdID {
		delete(r.s.st.products, id)
	}
	return nil
}

type locationRepo struct{ s *Store }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s} }

func (r *locationRepo) Create(_ context.Context, l *entity.StorageLocation) error {
	defer r.s.lock()()
	r.s.st.locations[l.ID] = *l
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, householdID, id string) (*entity.StorageLocation, error) {
	defer r.s.lock()()
	l, ok := r.s.st.locations[id]
	if !ok || l.HouseholdID != householdID {
		return nil, nil
	}
	return &l, nil
}

func (r *locationRepo) Update(_ context.Context, l *entity.StorageLocation) error {
	defer r.s.lock()()
	r.s.st.locations[l.ID] = *l
	return nil
}

func (r *locationRepo) ListByHousehold(_ context.Context, householdID string) ([]*entity.StorageLocation, error) {
	defer r.s.lock()()
	var out []*entity.StorageLocation
	for _, l := range r.s.st.locations {
		if l.HouseholdID == householdID {
			out = append(out, &l)
		}
	}
	slices.SortFunc(out, func(a, b *entity.StorageLocation) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *locationRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if l, ok := r.s.st.locations[id]; ok && l.HouseholdID == householdID {
		delete(r.s.st.locations, id)
	}
	return nil
}

type storeRepo struct{ s *Store }

// Stores repositorio de tiendas.
func (s *Store) Stores() repository.StoreRepository { return &storeRepo{s} }

func (r *storeRepo) Create(_ context.Context, st *entity.Store) error {
	defer r.s.lock()()
	r.s.st.stores[st.ID] = *st
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, householdID, id string) (*entity.Store, error) {
	defer r.s.lock()()
	st, ok := r.s.st.stores[id]
	if !ok || st.HouseholdID != householdID {
		return nil, nil
	}
	return &st, nil
}

func (r *storeRepo) FindByName(_ context.Context, householdID, name string) (*entity.Store, error) {
	defer r.s.lock()()
	for _, st := range r.s.st.stores {
		if st.HouseholdID == householdID && strings.EqualFold(st.Name, strings.TrimSpace(name)) {
			return &st, nil
		}
	}
	return nil, nil
}

func (r *storeRepo) Update(_ context.Context, st *entity.Store) error {
	defer r.s.lock()()
	r.s.st.stores[st.ID] = *st
	return nil
}

func (r *storeRepo) ListByHousehold(_ context.Context, householdID string) ([]*entity.Store, error) {
	defer r.s.lock()()
	var out []*entity.Store
	for _, st := range r.s.st.stores {
		if st.HouseholdID == householdID {
			out = append(out, &st)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Store) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *storeRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	if st, ok := r.s.st.stores[id]; ok && st.HouseholdID == householdID {
		delete(r.s.st.stores, id)
	}
	return nil
}

type nutritionRepo struct{ s *Store }

// Nutrition repositorio de información nutricional.
func (s *Store) Nutrition() repository.NutritionRepository { return &nutritionRepo{s} }

func (r *nutritionRepo) Upsert(_ context.Context, n *entity.NutritionEntry) error {
	defer r.s.lock()()
	r.s.st.nutrition[n.ProductID] = *n
	return nil
}

func (r *nutritionRepo) GetByProduct(_ context.Context, householdID, productID string) (*entity.NutritionEntry, error) {
	defer r.s.lock()()
	n, ok := r.s.st.nutrition[productID]
	if !ok || n.HouseholdID != householdID {
		return nil, nil
	}
	return &n, nil
}

func (r *nutritionRepo) ListByProducts(_ context.Context, householdID string, productIDs []string) (map[string]*entity.NutritionEntry, error) {
	defer r.s.lock()()
	out := make(map[string]*entity.NutritionEntry)
	for _, id := range productIDs {
		if n, ok := r.s.st.nutrition[id]; ok && n.HouseholdID == householdID {
			out[id] = &n
		}
	}
	return out, nil
}

type budgetRepo struct{ s *Store }

// Budgets repositorio de presupuestos.
func (s *Store) Budgets() repository.BudgetRepository { return &budgetRepo{s} }

func (r *budgetRepo) Upsert(_ context.Context, b *entity.BudgetTarget) error {
	defer r.s.lock()()
	for id, existing := range r.s.st.budgets {
		if existing.HouseholdID == b.HouseholdID && existing.Month == b.Month && existing.Category == b.Category {
			b.ID = id
			b.CreatedAt = existing.CreatedAt
		}
	}
	r.s.st.budgets[b.ID] = *b
	return nil
}

func (r *budgetRepo) ListByMonth(_ context.Context, householdID, month string) ([]*entity.BudgetTarget, error) {
	defer r.s.lock()()
	var out []*entity.BudgetTarget
	for _, b := range r.s.st.budgets {
		if b.HouseholdID == householdID && b.Month == month {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *entity.BudgetTarget) int { return strings.Compare(a.Category, b.Category) })
	return out, nil
}

func (r *budgetRepo) Delete(_ context.Context, householdID, id string) error {
	defer r.s.lock()()
	b, ok := r.s.st.budgets[id]
	if !ok || b.HouseholdID != householdID {
		return domain.ErrNotFound
	}
	delete(r.s.st.budgets, id)
	return nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
