package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUser   = "00000000-0000-0000-0000-000000000001"
	testOrg    = "00000000-0000-0000-0000-000000000002"
	testSess   = "00000000-0000-0000-0000-000000000003"
	testIssuer = "crm-pro-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := jwt.Generate(testSecret, testUser, testOrg, "admin", testSess, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := jwt.Parse(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUser, claims.UserID)
	assert.Equal(t, testOrg, claims.OrganizationID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, testSess, claims.SessionID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

// Un perfil sin organización todavía puede autenticarse: el claim viaja vacío.
func TestGenerate_OrganizacionVaciaEsValida(t *testing.T) {
	tok, err := jwt.Generate(testSecret, testUser, "", "member", testSess, testIssuer, 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Empty(t, claims.OrganizationID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(testSecret, testUser, testOrg, "admin", testSess, testIssuer, -1)
	require.NoError(t, err)

	_, err = jwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(testSecret, testUser, testOrg, "admin", testSess, testIssuer, 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", testUser, testOrg, "admin", testSess, testIssuer, 60)
	assert.Error(t, err)
}
