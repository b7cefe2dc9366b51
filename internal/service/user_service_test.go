package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

type fakeUserStore struct {
	staff   []models.Staff
	clients []models.Client

	createdStaff   *models.Staff
	createdRecord  *models.AuthRecord
	createdClient  *models.Client
	clientRecord   *models.AuthRecord
	deletedStaff   []string
	deletedClients []string
}

func (f *fakeUserStore) ListStaff(context.Context, string, string) ([]models.Staff, error) {
	return f.staff, nil
}

func (f *fakeUserStore) ListClients(context.Context, string, string) ([]models.Client, error) {
	return f.clients, nil
}

func (f *fakeUserStore) FindStaffByID(_ context.Context, id string) (*models.Staff, error) {
	for i := range f.staff {
		if f.staff[i].ID == id {
			return &f.staff[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) FindClientByID(_ context.Context, id string) (*models.Client, error) {
	for i := range f.clients {
		if f.clients[i].ID == id {
			return &f.clients[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) CreateStaff(_ context.Context, staff *models.Staff, record *models.AuthRecord) error {
	staff.ID = "staff-new"
	record.ID = "auth-new"
	staff.AuthID = record.ID
	f.createdStaff = staff
	f.createdRecord = record
	return nil
}

func (f *fakeUserStore) CreateClient(_ context.Context, client *models.Client, record *models.AuthRecord) error {
	client.ID = "client-new"
	if record != nil {
		record.ID = "auth-new"
		client.AuthID = &record.ID
	}
	f.createdClient = client
	f.clientRecord = record
	return nil
}

func (f *fakeUserStore) UpdateStaff(context.Context, *models.Staff) error   { return nil }
func (f *fakeUserStore) UpdateClient(context.Context, *models.Client) error { return nil }

func (f *fakeUserStore) DeleteStaff(_ context.Context, id string) error {
	f.deletedStaff = append(f.deletedStaff, id)
	return nil
}

func (f *fakeUserStore) DeleteClient(_ context.Context, id string) error {
	f.deletedClients = append(f.deletedClients, id)
	return nil
}

func (f *fakeUserStore) CountStaff(context.Context) (int, error) {
	return len(f.staff), nil
}

func (f *fakeUserStore) CountClients(context.Context) (int, error) {
	return len(f.clients), nil
}

type fakeRoleStore struct {
	roles []models.Role
}

func (f *fakeRoleStore) List(context.Context) ([]models.Role, error) {
	return f.roles, nil
}

func (f *fakeRoleStore) FindByID(_ context.Context, id string) (*models.Role, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			return &f.roles[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRoleStore) FindByName(_ context.Context, name string) (*models.Role, error) {
	for i := range f.roles {
		if f.roles[i].Name == name {
			return &f.roles[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func newTestUserService() (*UserService, *fakeUserStore) {
	authID := "auth-2"
	users := &fakeUserStore{
		staff: []models.Staff{
			{ID: "staff-1", FirstName: "Jack", Email: "jack@test.com", RoleID: "role-admin", AuthID: "auth-1"},
		},
		clients: []models.Client{
			{ID: "client-1", UserCode: "CL-0001", Username: "acme", RoleID: "role-client", AuthID: &authID},
			{ID: "client-2", UserCode: "CL-0002", Username: "globex", RoleID: "role-missing"},
		},
	}
	roles := &fakeRoleStore{roles: []models.Role{
		{ID: "role-admin", Name: "Admin"},
		{ID: "role-client", Name: "client"},
	}}
	return NewUserService(users, roles, nil, nil), users
}

func TestUserServiceListMergesBothTypes(t *testing.T) {
	svc, _ := newTestUserService()

	users, err := svc.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, UserTypeStaff, users[0].UserType)
	assert.Equal(t, "Admin", users[0].RoleName)
	assert.True(t, users[0].HasLogin)

	assert.Equal(t, UserTypeClient, users[1].UserType)
	assert.True(t, users[1].HasLogin)

	// Client without credentials, pointing at a missing role.
	assert.False(t, users[2].HasLogin)
	assert.Equal(t, models.RoleUnknown, users[2].RoleName)
}

func TestUserServiceListFiltersByType(t *testing.T) {
	svc, _ := newTestUserService()

	staffOnly, err := svc.List(context.Background(), models.UserFilter{UserType: UserTypeStaff})
	require.NoError(t, err)
	require.Len(t, staffOnly, 1)
	assert.Equal(t, "staff-1", staffOnly[0].ID)
}

func TestUserServiceCreateStaffHashesPassword(t *testing.T) {
	svc, store := newTestUserService()

	user, err := svc.CreateStaff(context.Background(), dto.CreateStaffRequest{
		FirstName: "Jill",
		Email:     "jill@test.com",
		RoleName:  "Admin",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff-new", user.ID)
	assert.True(t, user.HasLogin)

	require.NotNil(t, store.createdRecord)
	assert.NotEqual(t, "password123", store.createdRecord.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(store.createdRecord.HashedPassword), []byte("password123")))
}

func TestUserServiceCreateStaffUnknownRole(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.CreateStaff(context.Background(), dto.CreateStaffRequest{
		FirstName: "Jill",
		Email:     "jill@test.com",
		RoleName:  "does-not-exist",
		Password:  "password123",
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestUserServiceCreateClientWithoutPassword(t *testing.T) {
	svc, store := newTestUserService()

	user, err := svc.CreateClient(context.Background(), dto.CreateClientRequest{
		UserCode: "CL-0003",
		Username: "initech",
		RoleName: "client",
	})
	require.NoError(t, err)
	assert.False(t, user.HasLogin)
	assert.Nil(t, store.clientRecord)
}

func TestUserServiceDeleteUnknownType(t *testing.T) {
	svc, _ := newTestUserService()

	err := svc.Delete(context.Background(), "vendor", "x")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestUserServiceDelete(t *testing.T) {
	svc, store := newTestUserService()

	require.NoError(t, svc.Delete(context.Background(), UserTypeStaff, "staff-1"))
	assert.Equal(t, []string{"staff-1"}, store.deletedStaff)
}
