package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/central-adp/central-admin-api/internal/models"
)

func performRBAC(t *testing.T, claims *models.AccessClaims, paramID string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/resource", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}

	called := false
	RBAC(allowed...)(c)
	if !c.IsAborted() {
		called = true
	}
	if called {
		return http.StatusOK
	}
	return rec.Code
}

func claimsWith(role, subject string) *models.AccessClaims {
	claims := &models.AccessClaims{Role: role}
	claims.Subject = subject
	return claims
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	code := performRBAC(t, claimsWith("Admin", "user-1"), "", "Admin")
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACRejectsOtherRole(t *testing.T) {
	code := performRBAC(t, claimsWith("client", "user-1"), "", "Admin")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	code := performRBAC(t, nil, "", "Admin")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRBACAllowsSelf(t *testing.T) {
	code := performRBAC(t, claimsWith("client", "user-1"), "user-1", "Admin", AllowSelf)
	assert.Equal(t, http.StatusOK, code)

	code = performRBAC(t, claimsWith("client", "user-1"), "user-2", "Admin", AllowSelf)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACUnknownRoleNeverMatchesRoleList(t *testing.T) {
	// A degraded role must not grant role-based access, even if someone
	// configures a route allowing the literal sentinel.
	code := performRBAC(t, claimsWith(models.RoleUnknown, "user-1"), "", models.RoleUnknown)
	assert.Equal(t, http.StatusForbidden, code)

	// SELF still works for a degraded role.
	code = performRBAC(t, claimsWith(models.RoleUnknown, "user-1"), "user-1", AllowSelf)
	assert.Equal(t, http.StatusOK, code)
}
