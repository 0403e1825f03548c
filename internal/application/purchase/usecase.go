// Package purchase registra compras, recibos (manuales o UBL) y precios observados.
// Es la fuente del historial que consume el analizador de patrones.
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase casos de uso de compras y precios.
type UseCase struct {
	purchases repository.PurchaseRepository
	receipts  repository.ReceiptRepository
	parser    ports.ReceiptParser
	txRunner  ports.TxRunner
}

// NewUseCase construye el caso de uso. parser puede ser nil (importación UBL deshabilitada).
func NewUseCase(
	purchases repository.PurchaseRepository,
	receipts repository.ReceiptRepository,
	parser ports.ReceiptParser,
	txRunner ports.TxRunner,
) *UseCase {
	return &UseCase{purchases: purchases, receipts: receipts, parser: parser, txRunner: txRunner}
}

// RecordPurchase registra una compra suelta y, con precio, su observación en el libro de precios.
func (uc *UseCase) RecordPurchase(ctx context.Context, householdID, userID string, in dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error) {
	if !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	purchasedAt := now
	if in.PurchasedAt != nil {
		purchasedAt = *in.PurchasedAt
	}
	p := &entity.PurchaseTransaction{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		ProductID:   in.ProductID,
		StoreID:     in.StoreID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Total:       inventory.LineCost(in.Quantity, in.UnitPrice),
		PurchasedAt: purchasedAt,
		CreatedAt:   now,
		CreatedBy:   userID,
	}

	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		product, err := r.Products.GetByID(ctx, householdID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := checkStore(ctx, r.Stores, householdID, in.StoreID); err != nil {
			return err
		}
		if err := r.Purchases.Create(ctx, p); err != nil {
			return err
		}
		if !in.UnitPrice.IsPositive() {
			return nil
		}
		return r.Prices.Create(ctx, &entity.PriceRecord{
			ID:          uuid.New().String(),
			HouseholdID: householdID,
			ProductID:   in.ProductID,
			StoreID:     in.StoreID,
			UnitPrice:   in.UnitPrice,
			Quantity:    in.Quantity,
			Source:      entity.PriceSourcePurchase,
			RecordedAt:  purchasedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	res := toPurchaseResponse(p)
	return &res, nil
}

// ListPurchases compras del hogar por rango de fechas (inclusive) y producto.
func (uc *UseCase) ListPurchases(ctx context.Context, householdID string, f dto.PurchaseFilter) ([]dto.PurchaseResponse, error) {
	f.DefaultPage()
	from, to, err := parseRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	list, err := uc.purchases.List(ctx, householdID, repository.PurchaseFilter{
		ProductID: f.ProductID,
		From:      from,
		To:        to,
		Limit:     f.Limit,
		Offset:    f.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// RecordPrice registra un precio observado sin compra (ej. visto en la góndola).
func (uc *UseCase) RecordPrice(ctx context.Context, householdID string, in dto.RecordPriceRequest) error {
	if !in.UnitPrice.IsPositive() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		product, err := r.Products.GetByID(ctx, householdID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := checkStore(ctx, r.Stores, householdID, in.StoreID); err != nil {
			return err
		}
		return r.Prices.Create(ctx, &entity.PriceRecord{
			ID:          uuid.New().String(),
			HouseholdID: householdID,
			ProductID:   in.ProductID,
			StoreID:     in.StoreID,
			UnitPrice:   in.UnitPrice,
			Source:      entity.PriceSourceManual,
			RecordedAt:  time.Now(),
		})
	})
}

func checkStore(ctx context.Context, stores repository.StoreRepository, householdID, storeID string) error {
	if storeID == "" {
		return nil
	}
	st, err := stores.GetByID(ctx, householdID, storeID)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}
	return nil
}

// parseRange convierte YYYY-MM-DD en límites; to es inclusive hasta el final del día.
func parseRange(fromStr, toStr string) (from, to *time.Time, err error) {
	if fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("from inválido: %w", domain.ErrInvalidInput)
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("to inválido: %w", domain.ErrInvalidInput)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("from no puede ser posterior a to: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func toPurchaseResponse(p *entity.PurchaseTransaction) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:             p.ID,
		ProductID:      p.ProductID,
		StoreID:        p.StoreID,
		ReceiptID:      p.ReceiptID,
		ShoppingListID: p.ShoppingListID,
		Quantity:       p.Quantity,
		UnitPrice:      p.UnitPrice,
		Total:          p.Total,
		PurchasedAt:    p.PurchasedAt,
	}
}
