package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/middleware"
	"github.com/central-adp/central-admin-api/internal/models"
)

// claimsFromContext returns the authenticated principal's claims, or nil when
// the route ran without the JWT middleware.
func claimsFromContext(c *gin.Context) *models.AccessClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.AccessClaims)
	return claims
}
