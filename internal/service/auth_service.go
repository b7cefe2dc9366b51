package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

// authStore is the persistence capability consumed by the authentication
// core: principal lookup across both classes, auth-record and role loading,
// and the refresh-entry collection operations.
type authStore interface {
	FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindClientByIdentifier(ctx context.Context, identifier string) (*models.Client, error)
	FindStaffByAuthID(ctx context.Context, authID string) (*models.Staff, error)
	FindClientByAuthID(ctx context.Context, authID string) (*models.Client, error)
	FindAuthRecordByID(ctx context.Context, id string) (*models.AuthRecord, error)
	FindRoleByID(ctx context.Context, id string) (*models.Role, error)
	FindRefreshEntryByHash(ctx context.Context, tokenHash string) (*models.RefreshTokenEntry, error)
	AppendRefreshEntry(ctx context.Context, entry *models.RefreshTokenEntry) error
	RemoveRefreshEntry(ctx context.Context, authID, tokenHash string) (int64, error)
}

// AuthService orchestrates login, refresh-token rotation and logout.
type AuthService struct {
	store         authStore
	signer        *TokenSigner
	validator     *validator.Validate
	logger        *zap.Logger
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(store authStore, signer *TokenSigner, validate *validator.Validate, logger *zap.Logger, refreshExpiry time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if refreshExpiry <= 0 {
		refreshExpiry = 7 * 24 * time.Hour
	}
	return &AuthService{
		store:         store,
		signer:        signer,
		validator:     validate,
		logger:        logger,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// Login authenticates a principal by identifier and password and issues an
// access/refresh token pair. Every credential failure — unknown identifier,
// missing client credentials, wrong password — surfaces as the same generic
// invalid-credentials error so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	principal, err := s.findPrincipalByIdentifier(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve principal")
	}

	if principal.AuthID == "" {
		// Client provisioned without dashboard credentials.
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	record, err := s.store.FindAuthRecordByID(ctx, principal.AuthID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The principal references an auth record that does not exist.
			// This is data corruption, not a credentials problem.
			s.logger.Error("authentication record missing for principal",
				zap.String("principal_id", principal.ID),
				zap.String("auth_id", principal.AuthID),
				zap.String("kind", string(principal.Kind)))
			return nil, appErrors.Clone(appErrors.ErrInternal, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load authentication record")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.HashedPassword), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	roleName := s.roleName(ctx, principal)

	accessToken, _, err := s.signer.Sign(principal.ID, principal.Identifier, principal.DisplayName, roleName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	refreshSecret, err := s.mintRefreshEntry(ctx, principal.AuthID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}

	return &models.LoginResponse{
		Success:      true,
		Message:      "Login successful",
		UserID:       principal.ID,
		Email:        principal.Identifier,
		FirstName:    principal.DisplayName,
		Role:         roleName,
		Token:        accessToken,
		RefreshToken: refreshSecret,
	}, nil
}

// Refresh exchanges a refresh secret for a new access/refresh pair, rotating
// the underlying entry. The consumed secret becomes permanently unusable the
// moment it is removed; a replay of it fails the hash lookup, which is the
// intended detect-and-revoke signal. Two concurrent refreshes with the same
// secret race on the remove: the first writer wins and the second fails.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshRequest) (*models.RefreshResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRefreshToken, "")
	}

	tokenHash := HashRefreshSecret(req.RefreshToken)

	entry, err := s.store.FindRefreshEntryByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidRefreshToken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up refresh token")
	}

	now := s.now().UTC()
	if !entry.Active(now) {
		// Expired garbage; purge it so the collection does not accumulate.
		if _, purgeErr := s.store.RemoveRefreshEntry(ctx, entry.AuthID, entry.TokenHash); purgeErr != nil {
			s.logger.Warn("failed to purge expired refresh entry", zap.Error(purgeErr))
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidRefreshToken, "")
	}

	principal, err := s.findPrincipalByAuthID(ctx, entry.AuthID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("no principal owns refresh entry's auth record",
				zap.String("auth_id", entry.AuthID))
			return nil, appErrors.Clone(appErrors.ErrInvalidRefreshToken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve principal")
	}

	roleName := s.roleName(ctx, principal)

	accessToken, _, err := s.signer.Sign(principal.ID, principal.Identifier, principal.DisplayName, roleName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	// Rotation: remove the consumed entry, then append the replacement.
	// The two writes are individually atomic but deliberately not wrapped
	// in a transaction; a crash in between terminates the session, which
	// fails safe (the user re-logs in, nobody gets the old token back).
	removed, err := s.store.RemoveRefreshEntry(ctx, entry.AuthID, entry.TokenHash)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire refresh token")
	}
	if removed == 0 {
		// A concurrent refresh consumed the entry between lookup and
		// removal. First writer wins.
		return nil, appErrors.Clone(appErrors.ErrInvalidRefreshToken, "")
	}

	refreshSecret, err := s.mintRefreshEntry(ctx, entry.AuthID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}

	return &models.RefreshResponse{
		Token:        accessToken,
		RefreshToken: refreshSecret,
	}, nil
}

// Logout retires the presented refresh secret. It never fails observably:
// missing, malformed, already-consumed and unknown tokens are all treated as
// a successful no-op, because surfacing an error here has no security value.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	tokenHash := HashRefreshSecret(refreshToken)

	entry, err := s.store.FindRefreshEntryByHash(ctx, tokenHash)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("logout lookup failed", zap.Error(err))
		}
		return
	}

	if _, err := s.store.RemoveRefreshEntry(ctx, entry.AuthID, entry.TokenHash); err != nil {
		s.logger.Warn("logout failed to remove refresh entry", zap.Error(err))
	}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.AccessClaims, error) {
	claims, err := s.signer.Verify(tokenString)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return claims, nil
}

// findPrincipalByIdentifier resolves an identifier across both principal
// classes: staff by email first, then client by user code or username.
func (s *AuthService) findPrincipalByIdentifier(ctx context.Context, identifier string) (models.Principal, error) {
	for _, kind := range []models.PrincipalKind{models.PrincipalStaff, models.PrincipalClient} {
		principal, err := s.lookupPrincipal(ctx, kind, identifier)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return models.Principal{}, err
		}
		return principal, nil
	}
	return models.Principal{}, sql.ErrNoRows
}

func (s *AuthService) lookupPrincipal(ctx context.Context, kind models.PrincipalKind, identifier string) (models.Principal, error) {
	switch kind {
	case models.PrincipalStaff:
		staff, err := s.store.FindStaffByEmail(ctx, identifier)
		if err != nil {
			return models.Principal{}, err
		}
		return staff.Principal(), nil
	default:
		client, err := s.store.FindClientByIdentifier(ctx, identifier)
		if err != nil {
			return models.Principal{}, err
		}
		return client.Principal(), nil
	}
}

// findPrincipalByAuthID resolves the owner of an auth record across both
// principal classes.
func (s *AuthService) findPrincipalByAuthID(ctx context.Context, authID string) (models.Principal, error) {
	staff, err := s.store.FindStaffByAuthID(ctx, authID)
	if err == nil {
		return staff.Principal(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Principal{}, err
	}

	client, err := s.store.FindClientByAuthID(ctx, authID)
	if err != nil {
		return models.Principal{}, err
	}
	return client.Principal(), nil
}

// roleName resolves the principal's role, degrading to the Unknown sentinel
// on any failure: a broken role reference must not lock users out.
func (s *AuthService) roleName(ctx context.Context, principal models.Principal) string {
	role, err := s.store.FindRoleByID(ctx, principal.RoleID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("role lookup failed", zap.String("role_id", principal.RoleID), zap.Error(err))
		} else {
			s.logger.Warn("principal references missing role",
				zap.String("principal_id", principal.ID),
				zap.String("role_id", principal.RoleID))
		}
		return models.RoleUnknown
	}
	return role.Name
}

// mintRefreshEntry generates a fresh secret, appends its hashed entry to the
// auth record's collection and returns the plaintext exactly once.
func (s *AuthService) mintRefreshEntry(ctx context.Context, authID string) (string, error) {
	secret, err := s.signer.NewRefreshSecret()
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	entry := &models.RefreshTokenEntry{
		TokenID:   uuid.NewString(),
		AuthID:    authID,
		TokenHash: HashRefreshSecret(secret),
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshExpiry),
	}

	if err := s.store.AppendRefreshEntry(ctx, entry); err != nil {
		return "", err
	}
	return secret, nil
}
