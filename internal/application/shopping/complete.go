package shopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	domaininv "github.com/jhoicas/despensa-api/internal/domain/inventory"
)

// Motivos de omisión al cerrar una lista.
const (
	SkipNoProduct = "sin producto asociado"
	SkipNoQty     = "cantidad no positiva"
)

// CompleteList cierra la compra en una sola transacción: cada ítem marcado con producto genera
// una compra, un registro de precio (si se indicó precio pagado) y, con AddToInventory, un ADD
// en la ubicación indicada. Ítems sin producto se omiten y se reportan.
func (uc *UseCase) CompleteList(ctx context.Context, householdID, userID, listID string, in dto.CompleteListRequest) (*dto.CompleteListResult, error) {
	if in.AddToInventory && in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, p := range in.Prices {
		if p.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	purchasedAt := now
	if in.PurchasedAt != nil {
		purchasedAt = *in.PurchasedAt
	}

	result := &dto.CompleteListResult{ListID: listID, Total: decimal.Zero}
	txID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		list, err := r.ShoppingLists.GetByID(ctx, householdID, listID)
		if err != nil {
			return err
		}
		if list == nil {
			return domain.ErrNotFound
		}
		if list.Status != entity.ShoppingListActive {
			return domain.ErrConflict
		}
		storeID := in.StoreID
		if storeID == "" {
			storeID = list.StoreID
		}
		if storeID != "" {
			st, err := r.Stores.GetByID(ctx, householdID, storeID)
			if err != nil {
				return err
			}
			if st == nil {
				return domain.ErrNotFound
			}
		}

		for _, item := range list.Items {
			if !item.Checked {
				continue
			}
			if item.ProductID == "" {
				result.Skipped = append(result.Skipped, dto.SkippedLine{Ref: item.Name, Reason: SkipNoProduct})
				continue
			}
			if !item.Quantity.IsPositive() {
				result.Skipped = append(result.Skipped, dto.SkippedLine{Ref: item.Name, Reason: SkipNoQty})
				continue
			}

			paid, explicit := in.Prices[item.ID]
			if !explicit {
				paid = item.EstimatedPrice
			}
			total := domaininv.LineCost(item.Quantity, paid)
			err := r.Purchases.Create(ctx, &entity.PurchaseTransaction{
				ID:             uuid.New().String(),
				HouseholdID:    householdID,
				ProductID:      item.ProductID,
				StoreID:        storeID,
				ShoppingListID: list.ID,
				Quantity:       item.Quantity,
				UnitPrice:      paid,
				Total:          total,
				PurchasedAt:    purchasedAt,
				CreatedAt:      now,
				CreatedBy:      userID,
			})
			if err != nil {
				return err
			}
			result.Purchases++
			result.Total = result.Total.Add(total)

			if explicit && paid.IsPositive() {
				err := r.Prices.Create(ctx, &entity.PriceRecord{
					ID:          uuid.New().String(),
					HouseholdID: householdID,
					ProductID:   item.ProductID,
					StoreID:     storeID,
					UnitPrice:   paid,
					Quantity:    item.Quantity,
					Source:      entity.PriceSourcePurchase,
					RecordedAt:  purchasedAt,
				})
				if err != nil {
					return err
				}
				result.PriceRecords++
			}

			if in.AddToInventory {
				_, err := inventory.ApplyMovement(ctx, r, inventory.MovementInput{
					HouseholdID: householdID,
					UserID:      userID,
					Type:        entity.MovementTypeADD,
					ProductID:   item.ProductID,
					LocationID:  in.LocationID,
					Quantity:    item.Quantity,
					Unit:        item.Unit,
					UnitCost:    paid,
					Date:        purchasedAt,
				}, txID)
				if err != nil {
					return err
				}
				result.InventoryAdds++
			}
		}

		list.Status = entity.ShoppingListCompleted
		list.CompletedAt = &now
		list.UpdatedAt = now
		return r.ShoppingLists.Update(ctx, list)
	})
	if err != nil {
		return nil, err
	}
	for _, s := range result.Skipped {
		log.Warn().
			Str("household_id", householdID).
			Str("list_id", listID).
			Str("item", s.Ref).
			Str("reason", s.Reason).
			Msg("ítem omitido al completar la lista")
	}
	result.Total = result.Total.Round(2)
	return result, nil
}
