package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// LocationUseCase casos de uso para ubicaciones de almacenamiento (alacena, nevera, congelador).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación en el hogar.
func (uc *LocationUseCase) Create(ctx context.Context, householdID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !entity.IsValidLocationKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.StorageLocation{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Name:        name,
		Kind:        in.Kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, householdID, id string) (*dto.LocationResponse, error) {
	loc, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Update cambia nombre o tipo. Cambiar el tipo no recalcula vencimientos existentes.
func (uc *LocationUseCase) Update(ctx context.Context, householdID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		loc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Kind != nil {
		if !entity.IsValidLocationKind(*in.Kind) {
			return nil, domain.ErrInvalidInput
		}
		loc.Kind = *in.Kind
	}
	if loc.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	loc.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista las ubicaciones del hogar.
func (uc *LocationUseCase) List(ctx context.Context, householdID string) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Delete elimina una ubicación. Si tiene lotes el repositorio devuelve domain.ErrConflict.
func (uc *LocationUseCase) Delete(ctx context.Context, householdID, id string) error {
	if _, err := uc.get(ctx, householdID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, householdID, id)
}

func (uc *LocationUseCase) get(ctx context.Context, householdID, id string) (*entity.StorageLocation, error) {
	loc, err := uc.repo.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

func toLocationResponse(l *entity.StorageLocation) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Kind:      l.Kind,
		CreatedAt: l.CreatedAt,
	}
}
