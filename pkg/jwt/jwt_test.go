package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testSubject = pkgjwt.Subject{
	UserID:      "00000000-0000-0000-0000-000000000001",
	Username:    "cajero1",
	Role:        "cashier",
	Permissions: []string{"sales.create"},
	SessionID:   "00000000-0000-0000-0000-0000000000aa",
}

func TestGenerateAndParse_Access(t *testing.T) {
	tok, exp, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.AccessToken, testSubject, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testSubject.UserID, claims.UserID)
	assert.Equal(t, "cajero1", claims.Username)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, []string{"sales.create"}, claims.Permissions)
	assert.Equal(t, testSubject.SessionID, claims.SessionID)
}

func TestRefreshToken_NoLlevaPermisos(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.RefreshToken, testSubject, 24*time.Hour)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, claims.Permissions)
}

func TestParse_TipoIncorrecto(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.RefreshToken, testSubject, time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.AccessToken)
	assert.ErrorIs(t, err, pkgjwt.ErrWrongTokenType)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.AccessToken, testSubject, -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.AccessToken)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.AccessToken, testSubject, time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok, pkgjwt.AccessToken)
	assert.Error(t, err)
}

func TestGenerate_TokensDistintosEnElMismoSegundo(t *testing.T) {
	a, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.AccessToken, testSubject, time.Hour)
	require.NoError(t, err)
	b, _, err := pkgjwt.Generate(testSecret, "pos-test", pkgjwt.AccessToken, testSubject, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "el jti aleatorio garantiza hashes de sesión distintos")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate("", "pos-test", pkgjwt.AccessToken, testSubject, time.Hour)
	assert.Error(t, err)
}
