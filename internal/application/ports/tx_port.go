package ports

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Items         repository.InventoryItemRepository
	Movements     repository.InventoryMovementRepository
	Products      repository.ProductRepository
	Locations     repository.LocationRepository
	Purchases     repository.PurchaseRepository
	Prices        repository.PriceRecordRepository
	Receipts      repository.ReceiptRepository
	Stores        repository.StoreRepository
	ShoppingLists repository.ShoppingListRepository
	Audits        repository.AuditRepository
	Waste         repository.WasteRepository
	Households    repository.HouseholdRepository
	Users         repository.UserRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
