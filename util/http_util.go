// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// RespondWithError logs err and writes {error, message}. The message is the
// underlying error text, which may be empty.
func RespondWithError(c *gin.Context, code int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	if code >= 500 {
		logger.Error(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	} else {
		logger.Warn(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	}
	c.JSON(code, gin.H{"error": message, "message": detail})
}

// GetUserIDFromContext returns the authenticated user's id, or "" for an
// anonymous request.
func GetUserIDFromContext(c *gin.Context) string {
	v, exists := c.Get("user")
	if !exists {
		return ""
	}
	if identity, ok := v.(*model.Identity); ok && identity != nil {
		return identity.ID
	}
	return ""
}
