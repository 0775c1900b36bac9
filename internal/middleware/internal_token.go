package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homehub/internal/pkg/apperr"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/response"
)

var (
	errInternalTokenMissing = apperr.Auth("AUTH_MISSING", "Authorization header is required")
	errInternalTokenInvalid = apperr.Forbidden("AUTH_INVALID", "Invalid internal token")
)

// InternalTokenAuth protects collaborator endpoints using a static bearer token.
func InternalTokenAuth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			logAuthFailure(c, "missing_auth")
			response.HandleError(c, errInternalTokenMissing)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logAuthFailure(c, "invalid_auth_format")
			response.HandleError(c, errInvalidAuthFormat)
			c.Abort()
			return
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logAuthFailure(c, "invalid_token")
			response.HandleError(c, errInternalTokenInvalid)
			c.Abort()
			return
		}

		c.Next()
	}
}

func logAuthFailure(c *gin.Context, reason string) {
	logger.Log.WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"request_id": requestID(c),
		"reason":     reason,
	}).Warn("internal auth rejected")
}
