package repository

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para sesiones de auditoría.
type AuditRepository interface {
	CreateSession(ctx context.Context, s *entity.AuditSession) error
	GetSession(ctx context.Context, householdID, id string) (*entity.AuditSession, error)
	// GetOpenSession sesión abierta del hogar, si existe.
	GetOpenSession(ctx context.Context, householdID string) (*entity.AuditSession, error)
	UpdateSession(ctx context.Context, s *entity.AuditSession) error
	ListSessions(ctx context.Context, householdID string, limit, offset int) ([]*entity.AuditSession, error)

	CreateItems(ctx context.Context, items []*entity.AuditItem) error
	ListItems(ctx context.Context, sessionID string) ([]*entity.AuditItem, error)
	GetItem(ctx context.Context, sessionID, id string) (*entity.AuditItem, error)
	UpdateItem(ctx context.Context, item *entity.AuditItem) error
}
