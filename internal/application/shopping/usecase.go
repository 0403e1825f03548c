// Package shopping casos de uso de listas de compras: ítems, cierre de compra y exportación.
package shopping

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// UseCase CRUD de listas e ítems.
type UseCase struct {
	lists      repository.ShoppingListRepository
	products   repository.ProductRepository
	prices     repository.PriceRecordRepository
	stores     repository.StoreRepository
	households repository.HouseholdRepository
	pdf        ports.PDFGenerator
	txRunner   ports.TxRunner
}

// NewUseCase construye el caso de uso. pdf puede ser nil (exportación deshabilitada).
func NewUseCase(
	lists repository.ShoppingListRepository,
	products repository.ProductRepository,
	prices repository.PriceRecordRepository,
	stores repository.StoreRepository,
	households repository.HouseholdRepository,
	pdf ports.PDFGenerator,
	txRunner ports.TxRunner,
) *UseCase {
	return &UseCase{
		lists:      lists,
		products:   products,
		prices:     prices,
		stores:     stores,
		households: households,
		pdf:        pdf,
		txRunner:   txRunner,
	}
}

// CreateList crea una lista activa.
func (uc *UseCase) CreateList(ctx context.Context, householdID string, in dto.CreateShoppingListRequest) (*dto.ShoppingListResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkStore(ctx, householdID, in.StoreID); err != nil {
		return nil, err
	}
	now := time.Now()
	list := &entity.ShoppingList{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Name:        name,
		StoreID:     in.StoreID,
		Status:      entity.ShoppingListActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return ToListResponse(list), nil
}

// List listas del hogar; status vacío = todas.
func (uc *UseCase) List(ctx context.Context, householdID, status string) ([]dto.ShoppingListResponse, error) {
	switch status {
	case "", entity.ShoppingListActive, entity.ShoppingListCompleted, entity.ShoppingListArchived:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.lists.List(ctx, householdID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShoppingListResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *ToListResponse(l))
	}
	return out, nil
}

// Get lista con sus ítems.
func (uc *UseCase) Get(ctx context.Context, householdID, id string) (*dto.ShoppingListResponse, error) {
	list, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	return ToListResponse(list), nil
}

// Update renombra o cambia la tienda de la lista.
func (uc *UseCase) Update(ctx context.Context, householdID, id string, in dto.UpdateShoppingListRequest) (*dto.ShoppingListResponse, error) {
	list, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		list.Name = name
	}
	if in.StoreID != nil {
		if err := uc.checkStore(ctx, householdID, *in.StoreID); err != nil {
			return nil, err
		}
		list.StoreID = *in.StoreID
	}
	list.UpdatedAt = time.Now()
	if err := uc.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return ToListResponse(list), nil
}

// Archive archiva una lista (activa o completada).
func (uc *UseCase) Archive(ctx context.Context, householdID, id string) (*dto.ShoppingListResponse, error) {
	list, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if list.Status == entity.ShoppingListArchived {
		return nil, domain.ErrConflict
	}
	list.Status = entity.ShoppingListArchived
	list.UpdatedAt = time.Now()
	if err := uc.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return ToListResponse(list), nil
}

// Delete elimina la lista con sus ítems.
func (uc *UseCase) Delete(ctx context.Context, householdID, id string) error {
	if _, err := uc.get(ctx, householdID, id); err != nil {
		return err
	}
	return uc.lists.Delete(ctx, householdID, id)
}

// AddItem agrega un ítem a una lista activa. Con producto, nombre y unidad se toman del catálogo
// y el precio estimado del último precio conocido.
func (uc *UseCase) AddItem(ctx context.Context, householdID, listID string, in dto.AddListItemRequest) (*dto.ShoppingListItemResponse, error) {
	list, err := uc.activeList(ctx, householdID, listID)
	if err != nil {
		return nil, err
	}
	if in.Quantity.IsNegative() || in.EstimatedPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.ShoppingListItem{
		ID:             uuid.New().String(),
		ListID:         list.ID,
		ProductID:      in.ProductID,
		Name:           strings.TrimSpace(in.Name),
		Quantity:       in.Quantity,
		Unit:           strings.ToLower(in.Unit),
		EstimatedPrice: in.EstimatedPrice,
		Source:         entity.ItemSourceManual,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Quantity.IsZero() {
		item.Quantity = decimal.NewFromInt(1)
	}
	if in.ProductID != "" {
		product, err := uc.products.GetByID(ctx, householdID, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if item.Name == "" {
			item.Name = product.Name
		}
		if item.Unit == "" {
			item.Unit = product.DefaultUnit
		}
		if item.EstimatedPrice.IsZero() {
			latest, err := uc.prices.LatestByProducts(ctx, householdID, []string{product.ID})
			if err != nil {
				return nil, err
			}
			item.EstimatedPrice = latest[product.ID]
		}
	}
	if item.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.lists.AddItem(ctx, item); err != nil {
		return nil, err
	}
	res := toItemResponse(*item)
	return &res, nil
}

// UpdateItem actualiza un ítem (incluye marcar/desmarcar).
func (uc *UseCase) UpdateItem(ctx context.Context, householdID, listID, itemID string, in dto.UpdateListItemRequest) (*dto.ShoppingListItemResponse, error) {
	if _, err := uc.activeList(ctx, householdID, listID); err != nil {
		return nil, err
	}
	item, err := uc.item(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = strings.ToLower(*in.Unit)
	}
	if in.EstimatedPrice != nil {
		if in.EstimatedPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.EstimatedPrice = *in.EstimatedPrice
	}
	if in.Checked != nil {
		item.Checked = *in.Checked
	}
	if item.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	item.UpdatedAt = time.Now()
	if err := uc.lists.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	res := toItemResponse(*item)
	return &res, nil
}

// ToggleItem invierte el estado marcado de un ítem.
func (uc *UseCase) ToggleItem(ctx context.Context, householdID, listID, itemID string) (*dto.ShoppingListItemResponse, error) {
	if _, err := uc.activeList(ctx, householdID, listID); err != nil {
		return nil, err
	}
	item, err := uc.item(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	checked := !item.Checked
	return uc.UpdateItem(ctx, householdID, listID, itemID, dto.UpdateListItemRequest{Checked: &checked})
}

// RemoveItem quita un ítem de una lista activa.
func (uc *UseCase) RemoveItem(ctx context.Context, householdID, listID, itemID string) error {
	if _, err := uc.activeList(ctx, householdID, listID); err != nil {
		return err
	}
	if _, err := uc.item(ctx, listID, itemID); err != nil {
		return err
	}
	return uc.lists.DeleteItem(ctx, listID, itemID)
}

// ExportPDF genera el PDF imprimible de la lista.
func (uc *UseCase) ExportPDF(ctx context.Context, householdID, listID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrExternalService
	}
	list, err := uc.get(ctx, householdID, listID)
	if err != nil {
		return nil, err
	}
	household, err := uc.households.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.ShoppingListPDF(ctx, list, household)
}

func (uc *UseCase) get(ctx context.Context, householdID, id string) (*entity.ShoppingList, error) {
	list, err := uc.lists.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, domain.ErrNotFound
	}
	return list, nil
}

func (uc *UseCase) activeList(ctx context.Context, householdID, id string) (*entity.ShoppingList, error) {
	list, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if list.Status != entity.ShoppingListActive {
		return nil, domain.ErrConflict
	}
	return list, nil
}

func (uc *UseCase) item(ctx context.Context, listID, itemID string) (*entity.ShoppingListItem, error) {
	item, err := uc.lists.GetItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *UseCase) checkStore(ctx context.Context, householdID, storeID string) error {
	if storeID == "" {
		return nil
	}
	st, err := uc.stores.GetByID(ctx, householdID, storeID)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}
	return nil
}

// ToListResponse mapea la lista (con ítems si los trae) a su DTO.
func ToListResponse(l *entity.ShoppingList) *dto.ShoppingListResponse {
	res := &dto.ShoppingListResponse{
		ID:             l.ID,
		Name:           l.Name,
		StoreID:        l.StoreID,
		Status:         l.Status,
		CompletedAt:    l.CompletedAt,
		Items:          make([]dto.ShoppingListItemResponse, 0, len(l.Items)),
		EstimatedTotal: l.EstimatedTotal().Round(2),
		CreatedAt:      l.CreatedAt,
	}
	for _, it := range l.Items {
		res.Items = append(res.Items, toItemResponse(it))
	}
	return res
}

func toItemResponse(it entity.ShoppingListItem) dto.ShoppingListItemResponse {
	return dto.ShoppingListItemResponse{
		ID:             it.ID,
		ProductID:      it.ProductID,
		Name:           it.Name,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		EstimatedPrice: it.EstimatedPrice,
		Checked:        it.Checked,
		Source:         it.Source,
	}
}
