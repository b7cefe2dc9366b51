package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

// AllowSelf is the RBAC marker permitting a principal to act on its own
// resource (the route's :id parameter matching the token subject).
const AllowSelf = "SELF"

// RBAC enforces role-based access control for routes. Role names are
// compared verbatim against the token's role claim; principals whose role
// degraded to Unknown only pass SELF checks.
func RBAC(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			abortWith(c, appErrors.ErrUnauthorized)
			return
		}
		claims, ok := claimsValue.(*models.AccessClaims)
		if !ok {
			abortWith(c, appErrors.ErrUnauthorized)
			return
		}

		allowSelf := false
		allowedRoles := make(map[string]struct{})
		for _, a := range allowed {
			if a == AllowSelf {
				allowSelf = true
				continue
			}
			allowedRoles[a] = struct{}{}
		}

		if claims.Role != models.RoleUnknown {
			if _, ok := allowedRoles[claims.Role]; ok {
				c.Next()
				return
			}
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == claims.Subject {
				c.Next()
				return
			}
		}

		abortWith(c, appErrors.ErrForbidden)
	}
}
