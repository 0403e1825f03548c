package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// ItemUseCase consultas sobre lotes de inventario y su historial de movimientos.
type ItemUseCase struct {
	items     repository.InventoryItemRepository
	movements repository.InventoryMovementRepository
	products  repository.ProductRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	items repository.InventoryItemRepository,
	movements repository.InventoryMovementRepository,
	products repository.ProductRepository,
) *ItemUseCase {
	return &ItemUseCase{items: items, movements: movements, products: products}
}

// List devuelve los lotes del hogar con estado derivado. El filtro Status se aplica
// después de calcular el estado (no existe como columna).
func (uc *ItemUseCase) List(ctx context.Context, householdID string, f dto.InventoryItemFilter) ([]dto.InventoryItemResponse, error) {
	items, err := uc.items.List(ctx, householdID, repository.InventoryItemFilter{
		LocationID: f.LocationID,
		ProductID:  f.ProductID,
	})
	if err != nil {
		return nil, err
	}
	products, err := uc.productsFor(ctx, householdID, items)
	if err != nil {
		return nil, err
	}
	// LOW_STOCK se mide sobre existencias utilizables de todo el hogar, no del filtro
	now := time.Now()
	totals, err := uc.items.StockByProduct(ctx, householdID, now)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, it := range items {
		p := products[it.ProductID]
		status := itemStatus(it, p, totals[it.ProductID], now)
		if f.Status != "" && f.Status != status {
			continue
		}
		name := ""
		if p != nil {
			name = p.Name
		}
		out = append(out, toItemResponse(it, name, status, now))
	}
	return out, nil
}

// Get devuelve un lote por ID.
func (uc *ItemUseCase) Get(ctx context.Context, householdID, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.items.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, householdID, item.ProductID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	onHand, err := usableOnHand(ctx, uc.items, householdID, item.ProductID, now)
	if err != nil {
		return nil, err
	}
	name := ""
	if product != nil {
		name = product.Name
	}
	res := toItemResponse(item, name, itemStatus(item, product, onHand, now), now)
	return &res, nil
}

// MarkOpened registra la fecha de apertura de un lote.
func (uc *ItemUseCase) MarkOpened(ctx context.Context, householdID, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.items.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OpenedAt == nil {
		now := time.Now()
		item.OpenedAt = &now
		item.UpdatedAt = now
		if err := uc.items.Update(ctx, item); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, householdID, id)
}

// ListMovements historial de movimientos de un lote.
func (uc *ItemUseCase) ListMovements(ctx context.Context, householdID, itemID string) ([]dto.MovementResponse, error) {
	item, err := uc.items.GetByID(ctx, householdID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movements.ListByItem(ctx, householdID, itemID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListAllMovements movimientos del hogar en un rango opcional, paginados.
func (uc *ItemUseCase) ListAllMovements(ctx context.Context, householdID string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementResponse, error) {
	page.DefaultPage()
	list, err := uc.movements.List(ctx, householdID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

func (uc *ItemUseCase) productsFor(ctx context.Context, householdID string, items []*entity.InventoryItem) (map[string]*entity.Product, error) {
	return loadProducts(ctx, uc.products, householdID, items)
}

func loadProducts(ctx context.Context, repo repository.ProductRepository, householdID string, items []*entity.InventoryItem) (map[string]*entity.Product, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := repo.ListByIDs(ctx, householdID, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// usableOnHand existencias del producto que no vencieron en at.
func usableOnHand(ctx context.Context, repo repository.InventoryItemRepository, householdID, productID string, at time.Time) (decimal.Decimal, error) {
	items, err := repo.List(ctx, householdID, repository.InventoryItemFilter{ProductID: productID, InStockOnly: true})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		if it.Usable(at) {
			total = total.Add(it.Quantity)
		}
	}
	return total, nil
}

// itemStatus: LOW_STOCK se evalúa contra el total del producto, no contra el lote.
func itemStatus(it *entity.InventoryItem, p *entity.Product, productTotal decimal.Decimal, now time.Time) string {
	min := decimal.Zero
	if p != nil && p.IsStaple && productTotal.LessThan(p.MinQuantity) {
		min = p.MinQuantity
	}
	return it.Status(now, min)
}

func toItemResponse(it *entity.InventoryItem, productName, status string, now time.Time) dto.InventoryItemResponse {
	res := dto.InventoryItemResponse{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: productName,
		LocationID:  it.LocationID,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		UnitCost:    it.UnitCost,
		PurchasedAt: it.PurchasedAt,
		ExpiresAt:   it.ExpiresAt,
		OpenedAt:    it.OpenedAt,
		Status:      status,
	}
	if days, ok := it.DaysUntilExpiry(now); ok {
		res.DaysUntilExpiry = &days
	}
	return res
}

func toMovementResponses(list []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			ItemID:        m.ItemID,
			LocationID:    m.LocationID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			Date:          m.Date,
		})
	}
	return out
}
