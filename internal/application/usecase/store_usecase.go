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

// StoreUseCase CRUD de tiendas donde compra el hogar.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una tienda. El nombre es único por hogar (sin distinguir mayúsculas).
func (uc *StoreUseCase) Create(ctx context.Context, householdID string, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.FindByName(ctx, householdID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	st := &entity.Store{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Name:        name,
		Address:     in.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return toStoreResponse(st), nil
}

// GetByID obtiene una tienda.
func (uc *StoreUseCase) GetByID(ctx context.Context, householdID, id string) (*dto.StoreResponse, error) {
	st, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(st), nil
}

// Update actualiza nombre o dirección.
func (uc *StoreUseCase) Update(ctx context.Context, householdID, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	st, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(name, st.Name) {
			existing, err := uc.repo.FindByName(ctx, householdID, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicate
			}
		}
		st.Name = name
	}
	if in.Address != nil {
		st.Address = *in.Address
	}
	st.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return toStoreResponse(st), nil
}

// List tiendas del hogar.
func (uc *StoreUseCase) List(ctx context.Context, householdID string) ([]dto.StoreResponse, error) {
	list, err := uc.repo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStoreResponse(s))
	}
	return out, nil
}

// Delete elimina una tienda.
func (uc *StoreUseCase) Delete(ctx context.Context, householdID, id string) error {
	if _, err := uc.get(ctx, householdID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, householdID, id)
}

func (uc *StoreUseCase) get(ctx context.Context, householdID, id string) (*entity.Store, error) {
	st, err := uc.repo.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}
