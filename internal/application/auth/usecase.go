// Package auth registro de hogares y miembros, y login con JWT.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
	"github.com/jhoicas/despensa-api/pkg/jwt"
)

const (
	statusActive    = "active"
	defaultCurrency = "COP"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo      repository.UserRepository
	householdRepo repository.HouseholdRepository
	txRunner      ports.TxRunner
	jwtCfg        JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	householdRepo repository.HouseholdRepository,
	txRunner ports.TxRunner,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, householdRepo: householdRepo, txRunner: txRunner, jwtCfg: jwtCfg}
}

// RegisterHousehold crea el hogar y su usuario propietario en una sola transacción y
// devuelve el token de sesión. ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterHousehold(ctx context.Context, in dto.RegisterHouseholdRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	household := &entity.Household{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.HouseholdName),
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := newUser(household.ID, email, string(hash), in.Name, entity.RoleOwner, now)

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if err := r.Households.Create(ctx, household); err != nil {
			return err
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return uc.session(user, household)
}

// RegisterMember agrega un usuario al hogar. Solo el propietario puede hacerlo.
func (uc *AuthUseCase) RegisterMember(ctx context.Context, householdID, actorRole string, in dto.RegisterMemberRequest) (*dto.UserResponse, error) {
	if actorRole != entity.RoleOwner {
		return nil, domain.ErrForbidden
	}
	household, err := uc.householdRepo.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, domain.ErrNotFound
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleMember
	}
	user := newUser(householdID, email, string(hash), in.Name, role, time.Now())
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	res := usecase.ToUserResponse(user)
	return &res, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario + hogar.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		return nil, domain.ErrForbidden
	}
	household, err := uc.householdRepo.GetByID(ctx, user.HouseholdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, domain.ErrNotFound
	}
	return uc.session(user, household)
}

func (uc *AuthUseCase) session(user *entity.User, household *entity.Household) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.HouseholdID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		User:      usecase.ToUserResponse(user),
		Household: *usecase.ToHouseholdResponse(household),
	}, nil
}

func newUser(householdID, email, hash, name, role string, now time.Time) *entity.User {
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}
	return &entity.User{
		ID:           uuid.New().String(),
		HouseholdID:  householdID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       statusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
