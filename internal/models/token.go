package models

import "time"

// RefreshTokenEntry is one rotation record in an authentication record's
// entry collection. Only the SHA-512 hash of the secret is persisted; the
// plaintext is returned to the caller once at mint time.
//
// An entry is active while revoked_at is unset and expires_at is in the
// future. Consumed and logged-out entries are deleted rather than flagged,
// but expired garbage may linger until a lookup purges it, so expiry is
// always checked on read.
type RefreshTokenEntry struct {
	TokenID   string     `db:"token_id"`
	AuthID    string     `db:"auth_id"`
	TokenHash string     `db:"token_hash"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Active reports whether the entry may still be exchanged at the given
// instant. An entry expiring exactly now is already expired.
func (e *RefreshTokenEntry) Active(now time.Time) bool {
	if e == nil || e.RevokedAt != nil {
		return false
	}
	return e.ExpiresAt.After(now)
}
