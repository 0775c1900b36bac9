package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homehub/internal/pkg/apperr"
)

// Success writes the resource itself; the web client reads response bodies directly.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Message writes a plain acknowledgement.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// CustomError writes the error body. "error" and "message" both carry the
// human readable text.
func CustomError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"error":   message,
		"message": message,
		"code":    code,
	})
}

// HandleError maps a service error onto the HTTP error body. Unclassified
// errors are attached to the gin context for the error logger and reported
// as 500 without leaking details.
func HandleError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(apperr.HTTPStatus(appErr.Kind), gin.H{
			"error":   appErr.Message,
			"message": appErr.Message,
			"code":    appErr.Code,
			"kind":    appErr.Kind,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": "Internal server error",
		"code":    "INTERNAL_ERROR",
		"kind":    apperr.KindInternal,
	})
}
