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
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// AuditUseCase conteos físicos: snapshot de lo registrado, conteo y ajuste de diferencias.
type AuditUseCase struct {
	audits    repository.AuditRepository
	items     repository.InventoryItemRepository
	locations repository.LocationRepository
	txRunner  ports.TxRunner
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(
	audits repository.AuditRepository,
	items repository.InventoryItemRepository,
	locations repository.LocationRepository,
	txRunner ports.TxRunner,
) *AuditUseCase {
	return &AuditUseCase{audits: audits, items: items, locations: locations, txRunner: txRunner}
}

// StartAudit abre una sesión para el hogar (o una ubicación). Solo puede haber una abierta.
func (uc *AuditUseCase) StartAudit(ctx context.Context, householdID, userID string, req dto.StartAuditRequest) (*dto.AuditSessionResponse, error) {
	open, err := uc.audits.GetOpenSession(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrConflict
	}
	if req.LocationID != "" {
		loc, err := uc.locations.GetByID(ctx, householdID, req.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}

	stock, err := uc.items.List(ctx, householdID, repository.InventoryItemFilter{LocationID: req.LocationID, InStockOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.AuditSession{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		LocationID:  req.LocationID,
		Status:      entity.AuditOpen,
		StartedAt:   now,
		StartedBy:   userID,
	}
	lines := make([]*entity.AuditItem, 0, len(stock))
	for _, it := range stock {
		lines = append(lines, &entity.AuditItem{
			ID:               uuid.New().String(),
			SessionID:        session.ID,
			ItemID:           it.ID,
			ProductID:        it.ProductID,
			ExpectedQuantity: it.Quantity,
		})
	}

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if err := r.Audits.CreateSession(ctx, session); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return r.Audits.CreateItems(ctx, lines)
	})
	if err != nil {
		return nil, err
	}
	return toAuditResponse(session, lines), nil
}

// RecordCount registra la cantidad contada de una línea de auditoría.
func (uc *AuditUseCase) RecordCount(ctx context.Context, householdID, sessionID, auditItemID string, counted decimal.Decimal) (*dto.AuditItemResponse, error) {
	if counted.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.openSession(ctx, householdID, sessionID); err != nil {
		return nil, err
	}
	line, err := uc.audits.GetItem(ctx, sessionID, auditItemID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	line.CountedQuantity = &counted
	if err := uc.audits.UpdateItem(ctx, line); err != nil {
		return nil, err
	}
	res := toAuditItemResponse(line)
	return &res, nil
}

// Complete cierra la sesión: cada línea contada con diferencia genera un ADJUST
// que deja el lote en la cantidad contada. Todo en una sola transacción.
func (uc *AuditUseCase) Complete(ctx context.Context, householdID, userID, sessionID string) (*dto.AuditReportDTO, error) {
	session, err := uc.openSession(ctx, householdID, sessionID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.audits.ListItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report := &dto.AuditReportDTO{SessionID: sessionID, Discrepancies: []dto.AuditDiscrepancyDTO{}}
	txID := uuid.New().String()
	now := time.Now()

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		adjusted := false
		for _, line := range lines {
			diff, ok := line.Discrepancy()
			if !ok {
				report.Uncounted++
				continue
			}
			report.Counted++
			if diff.IsZero() {
				continue
			}
			report.Discrepancies = append(report.Discrepancies, dto.AuditDiscrepancyDTO{
				ItemID:    line.ItemID,
				ProductID: line.ProductID,
				Expected:  line.ExpectedQuantity,
				Counted:   *line.CountedQuantity,
				Delta:     diff,
			})

			// El lote pudo cambiar desde el snapshot: el delta se calcula contra la cantidad actual.
			item, err := r.Items.GetForUpdate(ctx, householdID, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			delta := line.CountedQuantity.Sub(item.Quantity)
			if !delta.IsZero() {
				_, err = ApplyMovement(ctx, r, MovementInput{
					HouseholdID: householdID,
					UserID:      userID,
					Type:        entity.MovementTypeADJUST,
					ItemID:      item.ID,
					Quantity:    delta,
					Date:        now,
				}, txID)
				if err != nil {
					return err
				}
				adjusted = true
			}
			line.Adjusted = true
			if err := r.Audits.UpdateItem(ctx, line); err != nil {
				return err
			}
		}
		if adjusted {
			report.TransactionID = txID
		}
		session.Status = entity.AuditCompleted
		session.CompletedAt = &now
		return r.Audits.UpdateSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Cancel descarta la sesión sin ajustar inventario.
func (uc *AuditUseCase) Cancel(ctx context.Context, householdID, sessionID string) error {
	session, err := uc.openSession(ctx, householdID, sessionID)
	if err != nil {
		return err
	}
	now := time.Now()
	session.Status = entity.AuditCancelled
	session.CompletedAt = &now
	return uc.audits.UpdateSession(ctx, session)
}

// Get devuelve la sesión con sus líneas.
func (uc *AuditUseCase) Get(ctx context.Context, householdID, sessionID string) (*dto.AuditSessionResponse, error) {
	session, err := uc.audits.GetSession(ctx, householdID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.audits.ListItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toAuditResponse(session, lines), nil
}

// List sesiones del hogar, más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, householdID string, page dto.PageRequest) ([]dto.AuditSessionResponse, error) {
	page.DefaultPage()
	sessions, err := uc.audits.ListSessions(ctx, householdID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *toAuditResponse(s, nil))
	}
	return out, nil
}

func (uc *AuditUseCase) openSession(ctx context.Context, householdID, sessionID string) (*entity.AuditSession, error) {
	session, err := uc.audits.GetSession(ctx, householdID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.Status != entity.AuditOpen {
		return nil, domain.ErrAuditClosed
	}
	return session, nil
}

func toAuditResponse(s *entity.AuditSession, lines []*entity.AuditItem) *dto.AuditSessionResponse {
	res := &dto.AuditSessionResponse{
		ID:          s.ID,
		LocationID:  s.LocationID,
		Status:      s.Status,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
	for _, l := range lines {
		res.Items = append(res.Items, toAuditItemResponse(l))
	}
	return res
}

func toAuditItemResponse(l *entity.AuditItem) dto.AuditItemResponse {
	return dto.AuditItemResponse{
		ID:               l.ID,
		ItemID:           l.ItemID,
		ProductID:        l.ProductID,
		ExpectedQuantity: l.ExpectedQuantity,
		CountedQuantity:  l.CountedQuantity,
		Adjusted:         l.Adjusted,
	}
}
