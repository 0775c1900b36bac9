package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"homehub/internal/pkg/apperr"
	"homehub/internal/pkg/jwt"
	"homehub/internal/pkg/response"
)

var (
	errAuthHeaderMissing = apperr.Auth("AUTH_HEADER_MISSING", "Authorization header is required")
	errInvalidAuthFormat = apperr.Auth("INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
	errInvalidToken      = apperr.Auth("INVALID_TOKEN", "Invalid or expired token")
)

// ActiveChecker rejects tokens of accounts that were deactivated after the
// token was issued.
type ActiveChecker interface {
	EnsureActive(ctx context.Context, userID int64) error
}

// JWTAuth requires a valid bearer token and puts "user_id" (int64) and
// "role" (string) into the gin context.
func JWTAuth(tokens *jwt.Service, users ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.HandleError(c, errAuthHeaderMissing)
			c.Abort()
			return
		}
		if err := authenticate(c, tokens, users, header); err != nil {
			response.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid is still rejected.
func OptionalAuth(tokens *jwt.Service, users ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if err := authenticate(c, tokens, users, header); err != nil {
			response.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *jwt.Service, users ActiveChecker, header string) error {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return errInvalidAuthFormat
	}

	claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return errInvalidToken
	}

	if users != nil {
		if err := users.EnsureActive(c.Request.Context(), claims.UserID); err != nil {
			return err
		}
	}

	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return nil
}
