package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/inventory"
)

const defaultCurrency = "COP"

// CreateReceipt registra un recibo manual. Las líneas sin product_id se asocian por código
// de barras y luego por nombre; las asociadas generan compra y precio.
func (uc *UseCase) CreateReceipt(ctx context.Context, householdID, userID string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	issuedAt := now
	if in.IssuedAt != nil {
		issuedAt = *in.IssuedAt
	}
	receipt := &entity.Receipt{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		StoreID:     in.StoreID,
		Number:      strings.TrimSpace(in.Number),
		IssuedAt:    issuedAt,
		Currency:    defaultCurrency,
		Source:      entity.ReceiptSourceManual,
		CreatedAt:   now,
	}
	for _, l := range in.Lines {
		if !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			ID:          uuid.New().String(),
			ReceiptID:   receipt.ID,
			Description: strings.TrimSpace(l.Description),
			Barcode:     strings.TrimSpace(l.Barcode),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   inventory.LineCost(l.Quantity, l.UnitPrice),
			ProductID:   l.ProductID,
		})
	}
	receipt.Total = sumLines(receipt.Lines)

	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if err := checkStore(ctx, r.Stores, householdID, in.StoreID); err != nil {
			return err
		}
		return persistReceipt(ctx, r, receipt, userID)
	})
	if err != nil {
		return nil, err
	}
	logUnmatched(receipt)
	return toReceiptResponse(receipt), nil
}

// ImportUBL importa una factura electrónica UBL 2.1. La tienda se busca por el nombre del
// proveedor y se crea si no existe.
func (uc *UseCase) ImportUBL(ctx context.Context, householdID, userID string, data []byte) (*dto.ReceiptResponse, error) {
	if uc.parser == nil {
		return nil, domain.ErrExternalService
	}
	parsed, err := uc.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(parsed.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	receipt := &entity.Receipt{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Number:      parsed.Number,
		IssuedAt:    parsed.IssuedAt,
		Currency:    parsed.Currency,
		Source:      entity.ReceiptSourceUBL,
		CreatedAt:   now,
	}
	if receipt.IssuedAt.IsZero() {
		receipt.IssuedAt = now
	}
	if receipt.Currency == "" {
		receipt.Currency = defaultCurrency
	}
	for _, l := range parsed.Lines {
		lineTotal := l.LineTotal
		if lineTotal.IsZero() {
			lineTotal = inventory.LineCost(l.Quantity, l.UnitPrice)
		}
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			ID:          uuid.New().String(),
			ReceiptID:   receipt.ID,
			Description: l.Description,
			Barcode:     l.Barcode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	receipt.Total = parsed.Total
	if !receipt.Total.IsPositive() {
		receipt.Total = sumLines(receipt.Lines)
	}

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if name := strings.TrimSpace(parsed.SupplierName); name != "" {
			st, err := r.Stores.FindByName(ctx, householdID, name)
			if err != nil {
				return err
			}
			if st == nil {
				st = &entity.Store{
					ID:          uuid.New().String(),
					HouseholdID: householdID,
					Name:        name,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := r.Stores.Create(ctx, st); err != nil {
					return err
				}
			}
			receipt.StoreID = st.ID
		}
		return persistReceipt(ctx, r, receipt, userID)
	})
	if err != nil {
		return nil, err
	}
	logUnmatched(receipt)
	return toReceiptResponse(receipt), nil
}

// GetReceipt recibo con sus líneas.
func (uc *UseCase) GetReceipt(ctx context.Context, householdID, id string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.receipts.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	return toReceiptResponse(receipt), nil
}

// ListReceipts recibos del hogar, más recientes primero.
func (uc *UseCase) ListReceipts(ctx context.Context, householdID string, page dto.PageRequest) ([]dto.ReceiptResponse, error) {
	page.DefaultPage()
	list, err := uc.receipts.List(ctx, householdID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReceiptResponse(r))
	}
	return out, nil
}

// logUnmatched deja constancia de las líneas que no generaron compra.
func logUnmatched(receipt *entity.Receipt) {
	for _, l := range receipt.Lines {
		if l.ProductID != "" {
			continue
		}
		log.Warn().
			Str("household_id", receipt.HouseholdID).
			Str("receipt_id", receipt.ID).
			Str("description", l.Description).
			Str("barcode", l.Barcode).
			Msg("línea de recibo sin producto asociado")
	}
}

// persistReceipt asocia las líneas a productos, guarda el recibo y genera compras y precios
// de las líneas asociadas.
func persistReceipt(ctx context.Context, r ports.TxRepos, receipt *entity.Receipt, userID string) error {
	householdID := receipt.HouseholdID
	for i := range receipt.Lines {
		line := &receipt.Lines[i]
		if line.ProductID != "" {
			p, err := r.Products.GetByID(ctx, householdID, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if line.Description == "" {
				line.Description = p.Name
			}
			continue
		}
		id, err := matchProduct(ctx, r, householdID, line)
		if err != nil {
			return err
		}
		line.ProductID = id
	}

	if err := r.Receipts.Create(ctx, receipt); err != nil {
		return err
	}

	now := time.Now()
	for _, line := range receipt.Lines {
		if line.ProductID == "" {
			continue
		}
		err := r.Purchases.Create(ctx, &entity.PurchaseTransaction{
			ID:          uuid.New().String(),
			HouseholdID: householdID,
			ProductID:   line.ProductID,
			StoreID:     receipt.StoreID,
			ReceiptID:   receipt.ID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.LineTotal,
			PurchasedAt: receipt.IssuedAt,
			CreatedAt:   now,
			CreatedBy:   userID,
		})
		if err != nil {
			return err
		}
		if !line.UnitPrice.IsPositive() {
			continue
		}
		err = r.Prices.Create(ctx, &entity.PriceRecord{
			ID:          uuid.New().String(),
			HouseholdID: householdID,
			ProductID:   line.ProductID,
			StoreID:     receipt.StoreID,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Source:      entity.PriceSourceReceipt,
			RecordedAt:  receipt.IssuedAt,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// matchProduct busca por código de barras y luego por nombre exacto (sin mayúsculas).
func matchProduct(ctx context.Context, r ports.TxRepos, householdID string, line *entity.ReceiptLine) (string, error) {
	if line.Barcode != "" {
		p, err := r.Products.GetByBarcode(ctx, householdID, line.Barcode)
		if err != nil {
			return "", err
		}
		if p != nil {
			return p.ID, nil
		}
	}
	if line.Description != "" {
		p, err := r.Products.FindByName(ctx, householdID, line.Description)
		if err != nil {
			return "", err
		}
		if p != nil {
			return p.ID, nil
		}
	}
	return "", nil
}

func sumLines(lines []entity.ReceiptLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

func toReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	res := &dto.ReceiptResponse{
		ID:       r.ID,
		StoreID:  r.StoreID,
		Number:   r.Number,
		IssuedAt: r.IssuedAt,
		Total:    r.Total,
		Currency: r.Currency,
		Source:   r.Source,
		Lines:    make([]dto.ReceiptLineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		if l.ProductID != "" {
			res.Matched++
		} else {
			res.Unmatched++
		}
		res.Lines = append(res.Lines, dto.ReceiptLineResponse{
			ID:          l.ID,
			Description: l.Description,
			Barcode:     l.Barcode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
			ProductID:   l.ProductID,
		})
	}
	return res
}
