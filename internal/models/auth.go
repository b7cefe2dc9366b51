package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthRecord owns the hashed password for exactly one principal. Refresh
// token entries reference it by id; the plaintext password never leaves the
// hasher.
type AuthRecord struct {
	ID             string `db:"id"`
	HashedPassword string `db:"hashed_password"`
}

// LoginRequest holds credentials for authenticating a principal. Email
// doubles as the client identifier (user code or username) for client
// logins.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token pair and identifying fields. The
// refresh token plaintext appears here once and is never recoverable again.
type LoginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UserID       string `json:"user_id,omitempty"`
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	Role         string `json:"role,omitempty"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest optionally names the refresh token to retire. Logout is
// idempotent, so the token may be absent or garbage.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AccessClaims is the JWT payload for access tokens. Validity is determined
// entirely by signature and expiry; no server-side state is consulted.
type AccessClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}
