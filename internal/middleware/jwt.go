package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/service"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// ContextUserKey is the gin context key storing access-token claims.
const ContextUserKey = "currentUser"

// JWT requires a valid Bearer access token and stores its claims in the
// request context for downstream handlers.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortWith(c, err)
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func abortWith(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
