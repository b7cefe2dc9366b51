package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/central-adp/central-admin-api/internal/models"
)

// AuthRepository provides the credential-store and refresh-entry persistence
// consumed by the authentication core. Refresh entries form the per-record
// rotation collection: append and remove are single-statement writes, each
// atomic on its own, and deliberately never wrapped together in a
// transaction.
type AuthRepository struct {
	db *sqlx.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sqlx.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindStaffByEmail returns a staff principal by email address.
func (r *AuthRepository) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	const query = `SELECT id, first_name, email, phone, role_id, auth_id, created_at, updated_at FROM staff WHERE email = $1 LIMIT 1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff by email: %w", err)
	}
	return &staff, nil
}

// FindClientByIdentifier returns a client matching the user code or username.
func (r *AuthRepository) FindClientByIdentifier(ctx context.Context, identifier string) (*models.Client, error) {
	const query = `SELECT id, user_code, username, role_id, auth_id, created_at, updated_at FROM clients WHERE user_code = $1 OR username = $1 LIMIT 1`
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, identifier); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by identifier: %w", err)
	}
	return &client, nil
}

// FindStaffByAuthID resolves the staff principal owning an auth record.
func (r *AuthRepository) FindStaffByAuthID(ctx context.Context, authID string) (*models.Staff, error) {
	const query = `SELECT id, first_name, email, phone, role_id, auth_id, created_at, updated_at FROM staff WHERE auth_id = $1 LIMIT 1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, authID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff by auth id: %w", err)
	}
	return &staff, nil
}

// FindClientByAuthID resolves the client principal owning an auth record.
func (r *AuthRepository) FindClientByAuthID(ctx context.Context, authID string) (*models.Client, error) {
	const query = `SELECT id, user_code, username, role_id, auth_id, created_at, updated_at FROM clients WHERE auth_id = $1 LIMIT 1`
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, authID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by auth id: %w", err)
	}
	return &client, nil
}

// FindAuthRecordByID loads an authentication record.
func (r *AuthRepository) FindAuthRecordByID(ctx context.Context, id string) (*models.AuthRecord, error) {
	const query = `SELECT id, hashed_password FROM authentications WHERE id = $1 LIMIT 1`
	var record models.AuthRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find auth record: %w", err)
	}
	return &record, nil
}

// FindRoleByID loads a role.
func (r *AuthRepository) FindRoleByID(ctx context.Context, id string) (*models.Role, error) {
	const query = `SELECT id, name, permissions FROM roles WHERE id = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}

// FindRefreshEntryByHash locates the rotation entry for a presented secret.
// Expiry is not filtered here: expired garbage may linger in the collection
// and the caller decides whether the entry is still active.
func (r *AuthRepository) FindRefreshEntryByHash(ctx context.Context, tokenHash string) (*models.RefreshTokenEntry, error) {
	const query = `SELECT token_id, auth_id, token_hash, created_at, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = $1 LIMIT 1`
	var entry models.RefreshTokenEntry
	if err := r.db.GetContext(ctx, &entry, query, tokenHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh entry: %w", err)
	}
	return &entry, nil
}

// AppendRefreshEntry adds a rotation entry to the auth record's collection.
func (r *AuthRepository) AppendRefreshEntry(ctx context.Context, entry *models.RefreshTokenEntry) error {
	if entry.TokenID == "" {
		entry.TokenID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (token_id, auth_id, token_hash, created_at, expires_at, revoked_at) VALUES (:token_id, :auth_id, :token_hash, :created_at, :expires_at, :revoked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append refresh entry: %w", err)
	}
	return nil
}

// RemoveRefreshEntry deletes the entry matching the hash from the record's
// collection and reports how many rows were removed. Zero rows is not an
// error: the entry may already have been consumed by a concurrent rotation
// or an earlier logout.
func (r *AuthRepository) RemoveRefreshEntry(ctx context.Context, authID, tokenHash string) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE auth_id = $1 AND token_hash = $2`
	res, err := r.db.ExecContext(ctx, query, authID, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("remove refresh entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove refresh entry rows: %w", err)
	}
	return affected, nil
}

// PurgeExpiredEntries evicts rotation entries that expired before the given
// cutoff. Called opportunistically; lookups never assume it has run.
func (r *AuthRepository) PurgeExpiredEntries(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge expired entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired entries rows: %w", err)
	}
	return affected, nil
}
