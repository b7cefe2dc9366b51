package models

import "time"

// PrincipalKind tags the two classes of authenticated principal.
type PrincipalKind string

const (
	PrincipalStaff  PrincipalKind = "Staff"
	PrincipalClient PrincipalKind = "Client"
)

// Staff represents a back-office user stored in the staff table.
type Staff struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	RoleID    string    `db:"role_id" json:"role_id"`
	AuthID    string    `db:"auth_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Client represents an end customer stored in the clients table. Clients
// provisioned without dashboard access have no authentication record.
type Client struct {
	ID        string    `db:"id" json:"id"`
	UserCode  string    `db:"user_code" json:"user_code"`
	Username  string    `db:"username" json:"username"`
	RoleID    string    `db:"role_id" json:"role_id"`
	AuthID    *string   `db:"auth_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Principal is the unified view of a staff or client identity consumed by
// the authentication core. Identifier is the email for staff and the user
// code for clients; AuthID references the owning authentication record.
type Principal struct {
	Kind        PrincipalKind
	ID          string
	DisplayName string
	Identifier  string
	RoleID      string
	AuthID      string
}

// Principal adapts a staff row to the unified principal view.
func (s *Staff) Principal() Principal {
	return Principal{
		Kind:        PrincipalStaff,
		ID:          s.ID,
		DisplayName: s.FirstName,
		Identifier:  s.Email,
		RoleID:      s.RoleID,
		AuthID:      s.AuthID,
	}
}

// Principal adapts a client row to the unified principal view. The zero
// AuthID marks a client without credentials.
func (c *Client) Principal() Principal {
	p := Principal{
		Kind:        PrincipalClient,
		ID:          c.ID,
		DisplayName: c.Username,
		Identifier:  c.UserCode,
		RoleID:      c.RoleID,
	}
	if c.AuthID != nil {
		p.AuthID = *c.AuthID
	}
	return p
}

// UserFilter captures filtering criteria for the unified user listing.
type UserFilter struct {
	UserType string
	RoleID   string
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
