package dto

// UnifiedUser merges staff and client records into one management row.
type UnifiedUser struct {
	ID       string `json:"id"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	UserCode string `json:"user_code,omitempty"`
	Phone    string `json:"phone,omitempty"`
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
	HasLogin bool   `json:"has_login"`
}

// CreateStaffRequest provisions a staff member with credentials.
type CreateStaffRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	RoleName  string `json:"role_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// CreateClientRequest provisions a client, optionally with credentials.
type CreateClientRequest struct {
	UserCode string `json:"user_code" validate:"required"`
	Username string `json:"username" validate:"required"`
	RoleName string `json:"role_name" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// UpdateUserRequest mutates the editable fields of either user type.
type UpdateUserRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	RoleID string `json:"role_id"`
}
