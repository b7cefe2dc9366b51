package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/central-adp/central-admin-api/internal/models"
)

// UserRepository provides database access for unified user management
// across the staff and clients tables.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListStaff returns staff rows matching the optional role and search filters.
func (r *UserRepository) ListStaff(ctx context.Context, roleID, search string) ([]models.Staff, error) {
	query := `SELECT id, first_name, email, phone, role_id, auth_id, created_at, updated_at FROM staff WHERE 1=1`
	var args []interface{}
	if roleID != "" {
		args = append(args, roleID)
		query += fmt.Sprintf(" AND role_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY first_name ASC"

	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// ListClients returns client rows matching the optional role and search filters.
func (r *UserRepository) ListClients(ctx context.Context, roleID, search string) ([]models.Client, error) {
	query := `SELECT id, user_code, username, role_id, auth_id, created_at, updated_at FROM clients WHERE 1=1`
	var args []interface{}
	if roleID != "" {
		args = append(args, roleID)
		query += fmt.Sprintf(" AND role_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += fmt.Sprintf(" AND (LOWER(user_code) LIKE $%d OR LOWER(username) LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY username ASC"

	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// FindStaffByID returns a staff member by identifier.
func (r *UserRepository) FindStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	const query = `SELECT id, first_name, email, phone, role_id, auth_id, created_at, updated_at FROM staff WHERE id = $1 LIMIT 1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	return &staff, nil
}

// FindClientByID returns a client by identifier.
func (r *UserRepository) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	const query = `SELECT id, user_code, username, role_id, auth_id, created_at, updated_at FROM clients WHERE id = $1 LIMIT 1`
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return &client, nil
}

// CreateStaff inserts the auth record first, then the staff row referencing
// it. A crash in between leaves an orphaned auth record, which is harmless:
// nothing can resolve to it.
func (r *UserRepository) CreateStaff(ctx context.Context, staff *models.Staff, record *models.AuthRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	staff.AuthID = record.ID
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	const authQuery = `INSERT INTO authentications (id, hashed_password) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, authQuery, record.ID, record.HashedPassword); err != nil {
		return fmt.Errorf("create auth record: %w", err)
	}

	const staffQuery = `INSERT INTO staff (id, first_name, email, phone, role_id, auth_id, created_at, updated_at) VALUES (:id, :first_name, :email, :phone, :role_id, :auth_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, staffQuery, staff); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// CreateClient inserts a client, with an auth record only when credentials
// were supplied.
func (r *UserRepository) CreateClient(ctx context.Context, client *models.Client, record *models.AuthRecord) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	if record != nil {
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		const authQuery = `INSERT INTO authentications (id, hashed_password) VALUES ($1, $2)`
		if _, err := r.db.ExecContext(ctx, authQuery, record.ID, record.HashedPassword); err != nil {
			return fmt.Errorf("create auth record: %w", err)
		}
		client.AuthID = &record.ID
	}

	const clientQuery = `INSERT INTO clients (id, user_code, username, role_id, auth_id, created_at, updated_at) VALUES (:id, :user_code, :username, :role_id, :auth_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, clientQuery, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// UpdateStaff updates the mutable fields of a staff member.
func (r *UserRepository) UpdateStaff(ctx context.Context, staff *models.Staff) error {
	staff.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET first_name = :first_name, phone = :phone, role_id = :role_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// UpdateClient updates the mutable fields of a client.
func (r *UserRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now().UTC()
	const query = `UPDATE clients SET username = :username, role_id = :role_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// DeleteStaff removes a staff member and cascades to the owned auth record
// and its refresh entries.
func (r *UserRepository) DeleteStaff(ctx context.Context, id string) error {
	staff, err := r.FindStaffByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return r.deleteAuthRecord(ctx, staff.AuthID)
}

// DeleteClient removes a client and cascades to any owned auth record.
func (r *UserRepository) DeleteClient(ctx context.Context, id string) error {
	client, err := r.FindClientByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if client.AuthID == nil {
		return nil
	}
	return r.deleteAuthRecord(ctx, *client.AuthID)
}

func (r *UserRepository) deleteAuthRecord(ctx context.Context, authID string) error {
	if authID == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE auth_id = $1`, authID); err != nil {
		return fmt.Errorf("delete refresh entries: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM authentications WHERE id = $1`, authID); err != nil {
		return fmt.Errorf("delete auth record: %w", err)
	}
	return nil
}

// CountStaff returns the number of staff users.
func (r *UserRepository) CountStaff(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM staff`); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return total, nil
}

// CountClients returns the number of client users.
func (r *UserRepository) CountClients(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients`); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return total, nil
}
