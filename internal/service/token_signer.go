package service

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/pkg/config"
)

// minSigningKeyBytes is the smallest accepted HMAC key. A shorter key is a
// configuration fault and aborts construction rather than weakening every
// token the service would ever sign.
const minSigningKeyBytes = 32

// refreshSecretBytes sizes the refresh token secret at 256 bits.
const refreshSecretBytes = 32

// TokenSigner mints and verifies signed access tokens and generates refresh
// secrets. Access tokens are stateless: once issued they stay valid until
// expiry regardless of refresh-token revocation.
type TokenSigner struct {
	secret       []byte
	issuer       string
	audience     []string
	accessExpiry time.Duration
}

// NewTokenSigner validates the signing configuration and builds a signer.
func NewTokenSigner(cfg config.JWTConfig) (*TokenSigner, error) {
	if len(cfg.Secret) < minSigningKeyBytes {
		return nil, fmt.Errorf("jwt signing key must be at least %d bytes, got %d", minSigningKeyBytes, len(cfg.Secret))
	}
	expiry := cfg.AccessTokenExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &TokenSigner{
		secret:       []byte(cfg.Secret),
		issuer:       cfg.Issuer,
		audience:     cfg.Audience,
		accessExpiry: expiry,
	}, nil
}

// Sign issues an HS256 access token carrying the principal's identity and
// role claims.
func (s *TokenSigner) Sign(subjectID, identifier, displayName, roleName string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.accessExpiry)
	claims := &models.AccessClaims{
		Email:       identifier,
		DisplayName: displayName,
		Role:        roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subjectID,
			Audience:  s.audience,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses an access token, checking signature algorithm, issuer,
// audience and expiry.
func (s *TokenSigner) Verify(tokenString string) (*models.AccessClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if len(s.audience) > 0 {
		opts = append(opts, jwt.WithAudience(s.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// AccessExpiry exposes the configured access-token lifetime.
func (s *TokenSigner) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// NewRefreshSecret generates a fresh 256-bit refresh secret. The plaintext
// is handed to the caller exactly once; only its hash is ever stored.
func (s *TokenSigner) NewRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashRefreshSecret derives the storage key for a refresh secret. SHA-512 is
// sufficient here because the input is high-entropy random material, not a
// password.
func HashRefreshSecret(secret string) string {
	sum := sha512.Sum512([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
