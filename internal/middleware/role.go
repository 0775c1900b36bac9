package middleware

import (
	"github.com/gin-gonic/gin"

	"homehub/internal/pkg/apperr"
	"homehub/internal/pkg/response"
)

var (
	errRoleMissing       = apperr.Auth("UNAUTHORIZED", "Role not found in token")
	errInsufficientRoles = apperr.Forbidden("FORBIDDEN", "Access denied: insufficient permissions")
)

// RequireRole ensures that the authenticated user has one of the roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.HandleError(c, errRoleMissing)
			c.Abort()
			return
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.HandleError(c, errInsufficientRoles)
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
