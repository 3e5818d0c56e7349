package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/pkg/jwt"
)

var testJWT = JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "comisiones-test"}

func minCostHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthorize(t *testing.T) {
	g, err := NewAccessGate(minCostHash(t, "s3nha"), "", testJWT, nil)
	require.NoError(t, err)

	assert.True(t, g.Authorize("s3nha"))
	assert.False(t, g.Authorize("S3NHA"))
	assert.False(t, g.Authorize(""))
	assert.False(t, g.Authorize("s3nha "))
}

func TestNewAccessGate_PasswordEnClaro(t *testing.T) {
	g, err := NewAccessGate("", "dev", testJWT, nil)
	require.NoError(t, err)
	assert.True(t, g.Authorize("dev"))
}

func TestNewAccessGate_SinCredencialOHashInvalido(t *testing.T) {
	_, err := NewAccessGate("", "", testJWT, nil)
	assert.Error(t, err)

	_, err = NewAccessGate("no-es-bcrypt", "", testJWT, nil)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	g, err := NewAccessGate(minCostHash(t, "s3nha"), "", testJWT, nil)
	require.NoError(t, err)

	out, err := g.Login(dto.LoginRequest{Password: "s3nha"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.False(t, out.ExpiresAt.IsZero())

	sub, sid, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, OperatorSubject, sub)
	assert.NotEmpty(t, sid)

	_, err = g.Login(dto.LoginRequest{Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("x")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("x")))
}
