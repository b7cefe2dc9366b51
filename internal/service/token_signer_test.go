package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/pkg/config"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            testSigningKey,
		Issuer:            "central-admin-api",
		Audience:          []string{"central-admin-dashboard"},
		AccessTokenExpiry: 15 * time.Minute,
	}
}

func TestNewTokenSignerRejectsShortKey(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = "too-short"

	_, err := NewTokenSigner(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestNewTokenSignerRejectsEmptyKey(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := NewTokenSigner(cfg)
	require.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	token, expiresAt, err := signer.Sign("user-1", "jack@test.com", "Jack", "staff")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "jack@test.com", claims.Email)
	assert.Equal(t, "Jack", claims.DisplayName)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "central-admin-api", claims.Issuer)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	token, _, err := signer.Sign("user-1", "jack@test.com", "Jack", "staff")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = signer.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Issuer = "someone-else"
	other, err := NewTokenSigner(otherCfg)
	require.NoError(t, err)

	token, _, err := other.Sign("user-1", "jack@test.com", "Jack", "staff")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.AccessClaims{
		Email: "jack@test.com",
		Role:  "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "central-admin-api",
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"central-admin-dashboard"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "central-admin-api",
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"central-admin-dashboard"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestNewRefreshSecretIsUniqueAndOpaque(t *testing.T) {
	signer, err := NewTokenSigner(testJWTConfig())
	require.NoError(t, err)

	first, err := signer.NewRefreshSecret()
	require.NoError(t, err)
	second, err := signer.NewRefreshSecret()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "=")
	assert.GreaterOrEqual(t, len(first), 40)
}

func TestHashRefreshSecretIsDeterministic(t *testing.T) {
	hashA := HashRefreshSecret("secret-material")
	hashB := HashRefreshSecret("secret-material")
	hashC := HashRefreshSecret("other-material")

	assert.Equal(t, hashA, hashB)
	assert.NotEqual(t, hashA, hashC)
	assert.NotEqual(t, "secret-material", hashA)
}
