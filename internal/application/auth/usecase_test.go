package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/auth"
	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func newAuth(s *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s.Users(), s.Households(), s, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "despensa-api"})
}

func register(t *testing.T, uc *auth.AuthUseCase) *dto.LoginResponse {
	t.Helper()
	res, err := uc.RegisterHousehold(context.Background(), dto.RegisterHouseholdRequest{
		HouseholdName: "Casa Gómez",
		Email:         "Ana@Example.com ",
		Password:      "clave-segura",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterHousehold_CreaPropietarioYToken(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)

	res := register(t, uc)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, entity.RoleOwner, res.User.Role)
	assert.Equal(t, "COP", res.Household.Currency)
	assert.Equal(t, res.Household.ID, res.User.HouseholdID)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, res.Household.ID, claims.HouseholdID)

	_, err = uc.RegisterHousehold(context.Background(), dto.RegisterHouseholdRequest{
		HouseholdName: "Otra", Email: "ana@example.com", Password: "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	reg := register(t, uc)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Equal(t, "Casa Gómez", res.Household.Name)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterMember_SoloPropietario(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	reg := register(t, uc)
	ctx := context.Background()

	_, err := uc.RegisterMember(ctx, reg.Household.ID, entity.RoleMember, dto.RegisterMemberRequest{Email: "bob@example.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	member, err := uc.RegisterMember(ctx, reg.Household.ID, entity.RoleOwner, dto.RegisterMemberRequest{Email: "bob@example.com", Password: "clave-segura", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, member.Role)
	assert.Equal(t, reg.Household.ID, member.HouseholdID)

	_, err = uc.RegisterMember(ctx, reg.Household.ID, entity.RoleOwner, dto.RegisterMemberRequest{Email: "bob@example.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "bob@example.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, member.ID, res.User.ID)
}
