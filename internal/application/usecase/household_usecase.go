package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// HouseholdUseCase consulta y actualización del hogar autenticado y sus miembros.
type HouseholdUseCase struct {
	repo  repository.HouseholdRepository
	users repository.UserRepository
}

// NewHouseholdUseCase construye el caso de uso con los puertos de persistencia.
func NewHouseholdUseCase(repo repository.HouseholdRepository, users repository.UserRepository) *HouseholdUseCase {
	return &HouseholdUseCase{repo: repo, users: users}
}

// Get devuelve el hogar.
func (uc *HouseholdUseCase) Get(ctx context.Context, householdID string) (*dto.HouseholdResponse, error) {
	h, err := uc.get(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return ToHouseholdResponse(h), nil
}

// Update cambia nombre o moneda.
func (uc *HouseholdUseCase) Update(ctx context.Context, householdID string, in dto.UpdateHouseholdRequest) (*dto.HouseholdResponse, error) {
	h, err := uc.get(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		h.Name = name
	}
	if in.Currency != nil {
		h.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	h.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return ToHouseholdResponse(h), nil
}

// Members lista los usuarios del hogar.
func (uc *HouseholdUseCase) Members(ctx context.Context, householdID string) ([]dto.UserResponse, error) {
	list, err := uc.users.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

func (uc *HouseholdUseCase) get(ctx context.Context, householdID string) (*entity.Household, error) {
	h, err := uc.repo.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

// ToHouseholdResponse mapea la entidad a su DTO.
func ToHouseholdResponse(h *entity.Household) *dto.HouseholdResponse {
	return &dto.HouseholdResponse{
		ID:        h.ID,
		Name:      h.Name,
		Currency:  h.Currency,
		CreatedAt: h.CreatedAt,
	}
}

// ToUserResponse mapea un usuario a su DTO (sin hash de password).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		HouseholdID: u.HouseholdID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}
