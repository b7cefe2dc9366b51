package models

import "github.com/lib/pq"

// Role describes an RBAC role. Permissions are stored as a text array and
// only ever read by the authentication core; role management mutates them.
type Role struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Permissions pq.StringArray `db:"permissions" json:"permissions"`
}

// RoleUnknown is the sentinel role name stamped on tokens when a principal
// references a role that cannot be resolved. Logins degrade instead of
// failing on role-integrity faults.
const RoleUnknown = "Unknown"

// HasPermission reports whether the role grants the named permission.
func (r *Role) HasPermission(permission string) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
