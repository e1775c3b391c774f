// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/tireshop-backend/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret, tokenType string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now().UTC()
	claims := &Claims{
		UserID:    42,
		Email:     "admin@example.com",
		IsAdmin:   true,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newTestVerifier() *Verifier {
	return NewVerifier(&config.JWTConfig{Secret: testSecret})
}

func TestValidateAccessToken(t *testing.T) {
	verifier := newTestVerifier()

	claims, err := verifier.ValidateAccessToken(signToken(t, testSecret, "access", time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	verifier := newTestVerifier()

	_, err := verifier.ValidateAccessToken(signToken(t, testSecret, "refresh", time.Hour))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token type")
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	verifier := newTestVerifier()

	_, err := verifier.ValidateAccessToken(signToken(t, testSecret, "access", -time.Minute))

	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	verifier := newTestVerifier()

	other := signToken(t, "another-secret-another-secret-32", "access", time.Hour)
	_, err := verifier.ValidateAccessToken(other)

	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}
