package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/central-adp/central-admin-api/internal/middleware"
	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/internal/service"
	"github.com/central-adp/central-admin-api/pkg/config"
)

type stubAuthStore struct {
	staff  *models.Staff
	record *models.AuthRecord
	role   *models.Role

	entries map[string]*models.RefreshTokenEntry
	removed int
}

func (s *stubAuthStore) FindStaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	if s.staff != nil && s.staff.Email == email {
		return s.staff, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindClientByIdentifier(context.Context, string) (*models.Client, error) {
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindStaffByAuthID(_ context.Context, authID string) (*models.Staff, error) {
	if s.staff != nil && s.staff.AuthID == authID {
		return s.staff, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindClientByAuthID(context.Context, string) (*models.Client, error) {
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindAuthRecordByID(_ context.Context, id string) (*models.AuthRecord, error) {
	if s.record != nil && s.record.ID == id {
		return s.record, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindRoleByID(_ context.Context, id string) (*models.Role, error) {
	if s.role != nil && s.role.ID == id {
		return s.role, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) FindRefreshEntryByHash(_ context.Context, hash string) (*models.RefreshTokenEntry, error) {
	if entry, ok := s.entries[hash]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAuthStore) AppendRefreshEntry(_ context.Context, entry *models.RefreshTokenEntry) error {
	if s.entries == nil {
		s.entries = make(map[string]*models.RefreshTokenEntry)
	}
	s.entries[entry.TokenHash] = entry
	return nil
}

func (s *stubAuthStore) RemoveRefreshEntry(_ context.Context, _, hash string) (int64, error) {
	if _, ok := s.entries[hash]; !ok {
		return 0, nil
	}
	delete(s.entries, hash)
	s.removed++
	return 1, nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *stubAuthStore) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubAuthStore{
		staff:  &models.Staff{ID: "staff-1", FirstName: "Jack", Email: "jack@test.com", RoleID: "role-1", AuthID: "auth-1"},
		record: &models.AuthRecord{ID: "auth-1", HashedPassword: string(hashed)},
		role:   &models.Role{ID: "role-1", Name: "Admin"},
	}

	signer, err := service.NewTokenSigner(config.JWTConfig{
		Secret:            "0123456789abcdef0123456789abcdef",
		Issuer:            "central-admin-api",
		Audience:          []string{"central-admin-dashboard"},
		AccessTokenExpiry: 15 * time.Minute,
	})
	require.NoError(t, err)

	svc := service.NewAuthService(store, signer, nil, nil, 7*24*time.Hour)
	return NewAuthHandler(svc, nil), store
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return rec
}

type envelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	h, store := newTestAuthHandler(t)

	rec := performJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"jack@test.com","password":"password123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env.Data["success"])
	assert.Equal(t, "Login successful", env.Data["message"])
	assert.Equal(t, "Admin", env.Data["role"])
	assert.NotEmpty(t, env.Data["token"])
	assert.NotEmpty(t, env.Data["refresh_token"])
	assert.Len(t, store.entries, 1)
}

func TestAuthHandlerLoginInvalidPayload(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	rec := performJSON(t, h.Login, http.MethodPost, "/auth/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginGenericUnauthorized(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	unknown := performJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"nobody@test.com","password":"password123"}`)
	wrongPass := performJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"jack@test.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)

	var unknownEnv, wrongEnv envelope
	require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &unknownEnv))
	require.NoError(t, json.Unmarshal(wrongPass.Body.Bytes(), &wrongEnv))
	assert.Equal(t, unknownEnv.Error["message"], wrongEnv.Error["message"])
}

func TestAuthHandlerRefreshInvalidToken(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	rec := performJSON(t, h.Refresh, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"never-issued"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLogoutAlwaysSucceeds(t *testing.T) {
	h, store := newTestAuthHandler(t)

	for _, body := range []string{"", "{broken", `{"refresh_token":"unknown"}`} {
		rec := performJSON(t, h.Logout, http.MethodPost, "/auth/logout", body)
		assert.Equal(t, http.StatusOK, rec.Code)

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "Logged out successfully", env.Data["message"])
	}
	assert.Zero(t, store.removed)
}

func TestAuthHandlerMe(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.AccessClaims{
		Email:       "jack@test.com",
		DisplayName: "Jack",
		Role:        "Admin",
	})

	h.Me(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "jack@test.com", env.Data["email"])
	assert.Equal(t, "Admin", env.Data["role"])
}

func TestAuthHandlerMeUnauthorized(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
