package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u1", "h1", "owner", "despensa-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "h1", claims.HouseholdID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "despensa-api", claims.Issuer)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := jwt.Generate("secreto", "u1", "h1", "member", "despensa-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := jwt.Generate("secreto", "u1", "h1", "member", "despensa-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", expired)
	assert.Error(t, err, "expirado")

	_, err = jwt.Generate("", "u1", "h1", "member", "x", 5)
	assert.Error(t, err)
}
