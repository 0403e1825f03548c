// Package memstore implementa los puertos de persistencia en memoria para pruebas de casos de uso.
// Run toma una copia del estado y la restaura si la función falla, imitando el rollback.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	households map[string]entity.Household
	users      map[string]entity.User
	products   map[string]entity.Product
	locations  map[string]entity.StorageLocation
	items      map[string]entity.InventoryItem
	movements  []entity.InventoryMovement
	stores     map[string]entity.Store
	prices     []entity.PriceRecord
	purchases  []entity.PurchaseTransaction
	receipts   map[string]entity.Receipt
	lists      map[string]entity.ShoppingList
	listItems  map[string]entity.ShoppingListItem
	nutrition  map[string]entity.NutritionEntry
	meals      map[string]entity.MealPlan
	audits     map[string]entity.AuditSession
	auditItems map[string]entity.AuditItem
	waste      []entity.WasteEvent
	budgets    map[string]entity.BudgetTarget
}

func newState() *state {
	return &state{
		households: map[string]entity.Household{},
		users:      map[string]entity.User{},
		products:   map[string]entity.Product{},
		locations:  map[string]entity.StorageLocation{},
		items:      map[string]entity.InventoryItem{},
		stores:     map[string]entity.Store{},
		receipts:   map[string]entity.Receipt{},
		lists:      map[string]entity.ShoppingList{},
		listItems:  map[string]entity.ShoppingListItem{},
		nutrition:  map[string]entity.NutritionEntry{},
		meals:      map[string]entity.MealPlan{},
		audits:     map[string]entity.AuditSession{},
		auditItems: map[string]entity.AuditItem{},
		budgets:    map[string]entity.BudgetTarget{},
	}
}

// clone copia superficial: las entidades se guardan por valor y los slices
// anidados (líneas, ingredientes) se reemplazan completos en cada escritura.
func (s *state) clone() *state {
	return &state{
		households: maps.Clone(s.households),
		users:      maps.Clone(s.users),
		products:   maps.Clone(s.products),
		locations:  maps.Clone(s.locations),
		items:      maps.Clone(s.items),
		movements:  slices.Clone(s.movements),
		stores:     maps.Clone(s.stores),
		prices:     slices.Clone(s.prices),
		purchases:  slices.Clone(s.purchases),
		receipts:   maps.Clone(s.receipts),
		lists:      maps.Clone(s.lists),
		listItems:  maps.Clone(s.listItems),
		nutrition:  maps.Clone(s.nutrition),
		meals:      maps.Clone(s.meals),
		audits:     maps.Clone(s.audits),
		auditItems: maps.Clone(s.auditItems),
		waste:      slices.Clone(s.waste),
		budgets:    maps.Clone(s.budgets),
	}
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con los repositorios del store; si fn falla restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r ports.TxRepos) error) error {
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Repos devuelve el conjunto de repositorios usado dentro de Run.
func (s *Store) Repos() ports.TxRepos {
	return ports.TxRepos{
		Items:         s.Items(),
		Movements:     s.Movements(),
		Products:      s.Products(),
		Locations:     s.Locations(),
		Purchases:     s.Purchases(),
		Prices:        s.Prices(),
		Receipts:      s.Receipts(),
		Stores:        s.Stores(),
		ShoppingLists: s.ShoppingLists(),
		Audits:        s.Audits(),
		Waste:         s.Waste(),
		Households:    s.Households(),
		Users:         s.Users(),
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// MovementsSnapshot movimientos registrados, en orden de inserción.
func (s *Store) MovementsSnapshot() []entity.InventoryMovement {
	defer s.lock()()
	return slices.Clone(s.st.movements)
}

// PurchasesSnapshot compras registradas, en orden de inserción.
func (s *Store) PurchasesSnapshot() []entity.PurchaseTransaction {
	defer s.lock()()
	return slices.Clone(s.st.purchases)
}

// PricesSnapshot precios registrados, en orden de inserción.
func (s *Store) PricesSnapshot() []entity.PriceRecord {
	defer s.lock()()
	return slices.Clone(s.st.prices)
}
