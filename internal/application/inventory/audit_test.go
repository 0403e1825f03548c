package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

func newAudit(f *fixture) *inventory.AuditUseCase {
	return inventory.NewAuditUseCase(f.store.Audits(), f.store.Items(), f.store.Locations(), f.store)
}

func TestAudit_FlujoCompletoAjustaDiferencias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "arroz", "Arroz", "dry goods")
	f.product(t, "leche", "Leche", "dairy")
	f.item(t, "a", "arroz", f.pantry.ID, "3", "3000", nil)
	f.item(t, "b", "arroz", f.pantry.ID, "2", "3000", nil)
	f.item(t, "c", "leche", f.fridge.ID, "1", "4000", nil)
	uc := newAudit(f)

	session, err := uc.StartAudit(ctx, hh, "u1", dto.StartAuditRequest{LocationID: f.pantry.ID})
	require.NoError(t, err)
	require.Len(t, session.Items, 2)

	_, err = uc.StartAudit(ctx, hh, "u1", dto.StartAuditRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	lines := map[string]string{}
	for _, it := range session.Items {
		lines[it.ItemID] = it.ID
	}
	_, err = uc.RecordCount(ctx, hh, session.ID, lines["a"], dec("2"))
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, hh, session.ID, lines["b"], dec("2"))
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, hh, session.ID, lines["b"], dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	report, err := uc.Complete(ctx, hh, "u1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Counted)
	assert.Equal(t, 0, report.Uncounted)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "a", report.Discrepancies[0].ItemID)
	assert.True(t, dec("-1").Equal(report.Discrepancies[0].Delta))
	assert.NotEmpty(t, report.TransactionID)

	item, err := f.store.Items().GetByID(ctx, hh, "a")
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(item.Quantity))

	movs := f.store.MovementsSnapshot()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeADJUST, movs[0].Type)
	assert.True(t, dec("-1").Equal(movs[0].Quantity))

	got, err := uc.Get(ctx, hh, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditCompleted, got.Status)

	_, err = uc.RecordCount(ctx, hh, session.ID, lines["a"], dec("1"))
	assert.ErrorIs(t, err, domain.ErrAuditClosed)
	_, err = uc.Complete(ctx, hh, "u1", session.ID)
	assert.ErrorIs(t, err, domain.ErrAuditClosed)
}

func TestAudit_CancelNoAjusta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "arroz", "Arroz", "dry goods")
	f.item(t, "a", "arroz", f.pantry.ID, "3", "3000", nil)
	uc := newAudit(f)

	session, err := uc.StartAudit(ctx, hh, "u1", dto.StartAuditRequest{})
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, hh, session.ID, session.Items[0].ID, dec("0"))
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(ctx, hh, session.ID))
	assert.ErrorIs(t, uc.Cancel(ctx, hh, session.ID), domain.ErrAuditClosed)
	assert.Empty(t, f.store.MovementsSnapshot())

	// cancelada la sesión se puede abrir otra
	_, err = uc.StartAudit(ctx, hh, "u1", dto.StartAuditRequest{})
	require.NoError(t, err)

	list, err := uc.List(ctx, hh, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAudit_UbicacionInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := newAudit(f).StartAudit(context.Background(), hh, "u1", dto.StartAuditRequest{LocationID: "nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
