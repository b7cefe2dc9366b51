package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

const (
	UserTypeStaff  = "staff"
	UserTypeClient = "client"
)

type userStore interface {
	ListStaff(ctx context.Context, roleID, search string) ([]models.Staff, error)
	ListClients(ctx context.Context, roleID, search string) ([]models.Client, error)
	FindStaffByID(ctx context.Context, id string) (*models.Staff, error)
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	CreateStaff(ctx context.Context, staff *models.Staff, record *models.AuthRecord) error
	CreateClient(ctx context.Context, client *models.Client, record *models.AuthRecord) error
	UpdateStaff(ctx context.Context, staff *models.Staff) error
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteStaff(ctx context.Context, id string) error
	DeleteClient(ctx context.Context, id string) error
}

type roleStore interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

// UserService implements unified user management across staff and clients.
type UserService struct {
	users     userStore
	roles     roleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userStore, roles roleStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, validator: validate, logger: logger}
}

// List returns the merged staff and client listing matching the filter.
// UserType narrows to one class; empty means both.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]dto.UnifiedUser, error) {
	roleNames, err := s.roleNameIndex(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roles")
	}

	var users []dto.UnifiedUser

	if filter.UserType == "" || filter.UserType == UserTypeStaff {
		staff, err := s.users.ListStaff(ctx, filter.RoleID, filter.Search)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
		}
		for i := range staff {
			users = append(users, staffToUnified(&staff[i], roleNames))
		}
	}

	if filter.UserType == "" || filter.UserType == UserTypeClient {
		clients, err := s.users.ListClients(ctx, filter.RoleID, filter.Search)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clients")
		}
		for i := range clients {
			users = append(users, clientToUnified(&clients[i], roleNames))
		}
	}

	return users, nil
}

// Get returns a single unified user row by type and identifier.
func (s *UserService) Get(ctx context.Context, userType, id string) (*dto.UnifiedUser, error) {
	roleNames, err := s.roleNameIndex(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roles")
	}

	switch userType {
	case UserTypeStaff:
		staff, err := s.users.FindStaffByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOrInternal(err, "staff member not found")
		}
		u := staffToUnified(staff, roleNames)
		return &u, nil
	case UserTypeClient:
		client, err := s.users.FindClientByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOrInternal(err, "client not found")
		}
		u := clientToUnified(client, roleNames)
		return &u, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "user type must be staff or client")
	}
}

// CreateStaff provisions a staff member with hashed credentials.
func (s *UserService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest) (*dto.UnifiedUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}

	role, err := s.roles.FindByName(ctx, req.RoleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role: "+req.RoleName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	staff := &models.Staff{
		FirstName: req.FirstName,
		Email:     req.Email,
		Phone:     req.Phone,
		RoleID:    role.ID,
	}
	record := &models.AuthRecord{HashedPassword: string(hashed)}

	if err := s.users.CreateStaff(ctx, staff, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
	}

	u := staffToUnified(staff, map[string]string{role.ID: role.Name})
	return &u, nil
}

// CreateClient provisions a client, issuing credentials only when a password
// was supplied.
func (s *UserService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.UnifiedUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}

	role, err := s.roles.FindByName(ctx, req.RoleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role: "+req.RoleName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	client := &models.Client{
		UserCode: req.UserCode,
		Username: req.Username,
		RoleID:   role.ID,
	}

	var record *models.AuthRecord
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		record = &models.AuthRecord{HashedPassword: string(hashed)}
	}

	if err := s.users.CreateClient(ctx, client, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create client")
	}

	u := clientToUnified(client, map[string]string{role.ID: role.Name})
	return &u, nil
}

// Update mutates the editable fields of either user type.
func (s *UserService) Update(ctx context.Context, userType, id string, req dto.UpdateUserRequest) (*dto.UnifiedUser, error) {
	if req.RoleID != "" {
		if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role id")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
		}
	}

	switch userType {
	case UserTypeStaff:
		staff, err := s.users.FindStaffByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOrInternal(err, "staff member not found")
		}
		if req.Name != "" {
			staff.FirstName = req.Name
		}
		if req.Phone != "" {
			staff.Phone = req.Phone
		}
		if req.RoleID != "" {
			staff.RoleID = req.RoleID
		}
		if err := s.users.UpdateStaff(ctx, staff); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff")
		}
		return s.Get(ctx, userType, id)
	case UserTypeClient:
		client, err := s.users.FindClientByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOrInternal(err, "client not found")
		}
		if req.Name != "" {
			client.Username = req.Name
		}
		if req.RoleID != "" {
			client.RoleID = req.RoleID
		}
		if err := s.users.UpdateClient(ctx, client); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update client")
		}
		return s.Get(ctx, userType, id)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "user type must be staff or client")
	}
}

// Delete removes a user and cascades to any owned credentials and sessions.
func (s *UserService) Delete(ctx context.Context, userType, id string) error {
	var err error
	switch userType {
	case UserTypeStaff:
		err = s.users.DeleteStaff(ctx, id)
	case UserTypeClient:
		err = s.users.DeleteClient(ctx, id)
	default:
		return appErrors.Clone(appErrors.ErrValidation, "user type must be staff or client")
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

// Roles lists the available roles.
func (s *UserService) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, nil
}

func (s *UserService) roleNameIndex(ctx context.Context) (map[string]string, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(roles))
	for _, role := range roles {
		index[role.ID] = role.Name
	}
	return index, nil
}

func (s *UserService) notFoundOrInternal(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "database error")
}

func staffToUnified(staff *models.Staff, roleNames map[string]string) dto.UnifiedUser {
	return dto.UnifiedUser{
		ID:       staff.ID,
		UserType: UserTypeStaff,
		Name:     staff.FirstName,
		Email:    staff.Email,
		Phone:    staff.Phone,
		RoleID:   staff.RoleID,
		RoleName: roleNameOrUnknown(roleNames, staff.RoleID),
		HasLogin: staff.AuthID != "",
	}
}

func clientToUnified(client *models.Client, roleNames map[string]string) dto.UnifiedUser {
	return dto.UnifiedUser{
		ID:       client.ID,
		UserType: UserTypeClient,
		Name:     client.Username,
		UserCode: client.UserCode,
		RoleID:   client.RoleID,
		RoleName: roleNameOrUnknown(roleNames, client.RoleID),
		HasLogin: client.AuthID != nil,
	}
}

func roleNameOrUnknown(roleNames map[string]string, roleID string) string {
	if name, ok := roleNames[roleID]; ok {
		return name
	}
	return models.RoleUnknown
}
