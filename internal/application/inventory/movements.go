package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/expiration"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (ADD, CONSUME, ADJUST, MOVE, DISCARD) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner ports.TxRunner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner ports.TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento.
//
// ADD: ProductID, LocationID, Quantity > 0; UnitCost y ExpiresAt opcionales.
// CONSUME / DISCARD: ItemID, Quantity > 0.
// ADJUST: ItemID, Quantity con signo.
// MOVE: ItemID, ToLocationID, Quantity > 0.
type MovementInput struct {
	HouseholdID  string
	UserID       string
	Type         string
	ProductID    string
	ItemID       string
	LocationID   string
	ToLocationID string
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
	ExpiresAt    *time.Time
	Date         time.Time // cero = ahora
}

// MovementResult transacción generada y lotes afectados (para MOVE parcial, el lote nuevo va al final).
type MovementResult struct {
	TransactionID string
	Items         []*entity.InventoryItem
}

// RegisterMovement inicia una transacción, bloquea el lote, aplica la lógica según tipo y hace Commit o Rollback.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	txID := uuid.New().String()

	var items []*entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		items, err = ApplyMovement(ctx, r, input, txID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MovementResult{TransactionID: txID, Items: items}, nil
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(
	ctx context.Context,
	householdID, userID string,
	in dto.RegisterMovementRequest,
) (*dto.MovementResultDTO, error) {
	res, err := uc.RegisterMovement(ctx, MovementInput{
		HouseholdID:  householdID,
		UserID:       userID,
		Type:         in.Type,
		ProductID:    in.ProductID,
		ItemID:       in.ItemID,
		LocationID:   in.LocationID,
		ToLocationID: in.ToLocationID,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		UnitCost:     in.UnitCost,
		ExpiresAt:    in.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := &dto.MovementResultDTO{TransactionID: res.TransactionID, Items: make([]dto.InventoryItemResponse, 0, len(res.Items))}
	for _, it := range res.Items {
		out.Items = append(out.Items, toItemResponse(it, "", it.Status(now, decimal.Zero), now))
	}
	return out, nil
}

func validateMovement(in MovementInput) error {
	if in.HouseholdID == "" {
		return domain.ErrInvalidInput
	}
	positive := in.Quantity.GreaterThan(decimal.Zero)
	switch in.Type {
	case entity.MovementTypeADD:
		if in.ProductID == "" || in.LocationID == "" || !positive || in.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeCONSUME, entity.MovementTypeDISCARD:
		if in.ItemID == "" || !positive {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUST:
		if in.ItemID == "" || in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeMOVE:
		if in.ItemID == "" || in.ToLocationID == "" || !positive {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement aplica un movimiento con los repositorios de una transacción ya abierta.
// Lo usan otros casos de uso (cierre de lista, auditoría, desperdicio) para compartir la tx.
func ApplyMovement(ctx context.Context, r ports.TxRepos, input MovementInput, txID string) ([]*entity.InventoryItem, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	switch input.Type {
	case entity.MovementTypeADD:
		return doADD(ctx, r, input, txID)
	case entity.MovementTypeCONSUME, entity.MovementTypeDISCARD:
		return doOUT(ctx, r, input, txID)
	case entity.MovementTypeADJUST:
		return doADJUST(ctx, r, input, txID)
	case entity.MovementTypeMOVE:
		return doMOVE(ctx, r, input, txID)
	}
	return nil, domain.ErrInvalidInput
}

// doADD: crea un lote nuevo, estima vencimiento si no viene, recalcula costo promedio y guarda movimiento.
func doADD(ctx context.Context, r ports.TxRepos, input MovementInput, txID string) ([]*entity.InventoryItem, error) {
	product, err := r.Products.GetByID(ctx, input.HouseholdID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := r.Locations.GetByID(ctx, input.HouseholdID, input.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	onHand, err := productOnHand(ctx, r.Items, input.HouseholdID, product.ID)
	if err != nil {
		return nil, err
	}
	newCost := inventory.WeightedAverageCost(onHand, product.AverageCost, input.Quantity, input.UnitCost)
	if !newCost.Equal(product.AverageCost) {
		if err := r.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
			return nil, err
		}
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		expiresAt = expiration.EstimateExpiry(product, loc.Kind, input.Date)
	}
	unit := input.Unit
	if unit == "" {
		unit = product.DefaultUnit
	}
	item := &entity.InventoryItem{
		ID:          uuid.New().String(),
		HouseholdID: input.HouseholdID,
		ProductID:   product.ID,
		LocationID:  loc.ID,
		Quantity:    input.Quantity,
		Unit:        unit,
		UnitCost:    input.UnitCost,
		PurchasedAt: input.Date,
		ExpiresAt:   expiresAt,
		CreatedAt:   input.Date,
		UpdatedAt:   input.Date,
	}
	if err := r.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	if err := writeMovement(ctx, r.Movements, input, txID, item, item.LocationID, input.Quantity); err != nil {
		return nil, err
	}
	return []*entity.InventoryItem{item}, nil
}

// doOUT: bloquea el lote, verifica existencias >= cantidad solicitada, resta y guarda movimiento al costo del lote.
func doOUT(ctx context.Context, r ports.TxRepos, input MovementInput, txID string) ([]*entity.InventoryItem, error) {
	item, err := lockItem(ctx, r.Items, input)
	if err != nil {
		return nil, err
	}
	if item.Quantity.LessThan(input.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity = item.Quantity.Sub(input.Quantity)
	item.UpdatedAt = input.Date
	if err := r.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := writeMovement(ctx, r.Movements, input, txID, item, item.LocationID, input.Quantity.Neg()); err != nil {
		return nil, err
	}
	return []*entity.InventoryItem{item}, nil
}

// doADJUST: delta con signo; el resultado no puede quedar negativo.
func doADJUST(ctx context.Context, r ports.TxRepos, input MovementInput, txID string) ([]*entity.InventoryItem, error) {
	item, err := lockItem(ctx, r.Items, input)
	if err != nil {
		return nil, err
	}
	newQty := item.Quantity.Add(input.Quantity)
	if newQty.LessThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity = newQty
	item.UpdatedAt = input.Date
	if err := r.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := writeMovement(ctx, r.Movements, input, txID, item, item.LocationID, input.Quantity); err != nil {
		return nil, err
	}
	return []*entity.InventoryItem{item}, nil
}

// doMOVE: traslada el lote completo o lo divide si el traslado es parcial.
// Sin fecha explícita, entrar o salir del congelador recalcula el vencimiento.
func doMOVE(ctx context.Context, r ports.TxRepos, input MovementInput, txID string) ([]*entity.InventoryItem, error) {
	item, err := lockItem(ctx, r.Items, input)
	if err != nil {
		return nil, err
	}
	if item.LocationID == input.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if item.Quantity.LessThan(input.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	dest, err := r.Locations.GetByID(ctx, input.HouseholdID, input.ToLocationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, domain.ErrNotFound
	}

	expiresAt, err := moveExpiry(ctx, r, input, item, dest)
	if err != nil {
		return nil, err
	}

	fromLocation := item.LocationID
	var moved *entity.InventoryItem
	if item.Quantity.Equal(input.Quantity) {
		item.LocationID = dest.ID
		item.ExpiresAt = expiresAt
		item.UpdatedAt = input.Date
		if err := r.Items.Update(ctx, item); err != nil {
			return nil, err
		}
		moved = item
	} else {
		item.Quantity = item.Quantity.Sub(input.Quantity)
		item.UpdatedAt = input.Date
		if err := r.Items.Update(ctx, item); err != nil {
			return nil, err
		}
		split := *item
		split.ID = uuid.New().String()
		split.LocationID = dest.ID
		split.Quantity = input.Quantity
		split.ExpiresAt = expiresAt
		split.CreatedAt = input.Date
		if err := r.Items.Create(ctx, &split); err != nil {
			return nil, err
		}
		moved = &split
	}

	if err := writeMovement(ctx, r.Movements, input, txID, item, fromLocation, input.Quantity.Neg()); err != nil {
		return nil, err
	}
	if err := writeMovement(ctx, r.Movements, input, txID, moved, dest.ID, input.Quantity); err != nil {
		return nil, err
	}
	if moved == item {
		return []*entity.InventoryItem{item}, nil
	}
	return []*entity.InventoryItem{item, moved}, nil
}

func lockItem(ctx context.Context, repo repository.InventoryItemRepository, input MovementInput) (*entity.InventoryItem, error) {
	// Bloquea la fila del lote (SELECT FOR UPDATE) para evitar condiciones de carrera
	item, err := repo.GetForUpdate(ctx, input.HouseholdID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func writeMovement(
	ctx context.Context,
	repo repository.InventoryMovementRepository,
	input MovementInput,
	txID string,
	item *entity.InventoryItem,
	locationID string,
	qty decimal.Decimal,
) error {
	return repo.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		HouseholdID:   input.HouseholdID,
		ProductID:     item.ProductID,
		ItemID:        item.ID,
		LocationID:    locationID,
		Type:          input.Type,
		Quantity:      qty,
		UnitCost:      item.UnitCost,
		Date:          input.Date,
		CreatedAt:     time.Now(),
		CreatedBy:     input.UserID,
	})
}

// moveExpiry vencimiento del lote en su destino. Al entrar al congelador vale la estimación
// para el congelador; al salir, la estimación para el destino contada desde el traslado,
// sin superar la fecha vigente.
func moveExpiry(ctx context.Context, r ports.TxRepos, input MovementInput, item *entity.InventoryItem, dest *entity.StorageLocation) (*time.Time, error) {
	if input.ExpiresAt != nil {
		return input.ExpiresAt, nil
	}
	leaving := false
	if dest.Kind != entity.LocationFreezer {
		src, err := r.Locations.GetByID(ctx, input.HouseholdID, item.LocationID)
		if err != nil {
			return nil, err
		}
		leaving = src != nil && src.Kind == entity.LocationFreezer
		if !leaving {
			return item.ExpiresAt, nil
		}
	}

	product, err := r.Products.GetByID(ctx, input.HouseholdID, item.ProductID)
	if err != nil {
		return nil, err
	}
	est := expiration.EstimateExpiry(product, dest.Kind, input.Date)
	if est == nil {
		return item.ExpiresAt, nil
	}
	if leaving && item.ExpiresAt != nil && item.ExpiresAt.Before(*est) {
		return item.ExpiresAt, nil
	}
	return est, nil
}

func productOnHand(ctx context.Context, repo repository.InventoryItemRepository, householdID, productID string) (decimal.Decimal, error) {
	items, err := repo.List(ctx, householdID, repository.InventoryItemFilter{ProductID: productID, InStockOnly: true})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity)
	}
	return total, nil
}
