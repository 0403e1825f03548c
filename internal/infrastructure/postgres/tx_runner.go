package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/despensa-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye el juego de repositorios transaccionales sobre q (pool o tx).
func NewRepos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Items:         NewInventoryItemRepository(q),
		Movements:     NewInventoryMovementRepository(q),
		Products:      NewProductRepository(q),
		Locations:     NewLocationRepository(q),
		Purchases:     NewPurchaseRepository(q),
		Prices:        NewPriceRecordRepository(q),
		Receipts:      NewReceiptRepository(q),
		Stores:        NewStoreRepository(q),
		ShoppingLists: NewShoppingListRepository(q),
		Audits:        NewAuditRepository(q),
		Waste:         NewWasteRepository(q),
		Households:    NewHouseholdRepository(q),
		Users:         NewUserRepository(q),
	}
}
