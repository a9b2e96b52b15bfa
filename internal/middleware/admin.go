package middleware

import (
	"net/http"

	"rently/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates admin surfaces. This is the single place the admin role
// is checked; handlers never re-inspect role themselves.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
