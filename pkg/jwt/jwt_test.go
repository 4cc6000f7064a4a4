package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invorya-client/pkg/jwt"
)

const secret = "secret-solo-para-tests"

func TestGenerateYParse_RoundtripDeClaims(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "9000000001", "OWNER", false, "invorya", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "9000000001", claims.Phone)
	assert.Equal(t, "OWNER", claims.Role)
	assert.False(t, claims.IsSuperAdmin)
	assert.Equal(t, "invorya", claims.Issuer)
}

func TestParse_FirmaIncorrectaFalla(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "9000000001", "OWNER", false, "invorya", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_TokenExpiradoFalla(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "9000000001", "OWNER", false, "invorya", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacioFalla(t *testing.T) {
	_, err := jwt.Generate("", "u1", "9000000001", "OWNER", false, "invorya", 60)
	assert.Error(t, err)
}

func TestExpiresAt_LeeLaExpiracionSinValidarFirma(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "9000000001", "OWNER", true, "invorya", 30)
	require.NoError(t, err)

	exp, err := jwt.ExpiresAt(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)
}
