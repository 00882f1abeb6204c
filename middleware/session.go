// middleware/session.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// IdentityKey is the gin context key holding the authenticated *model.Identity.
const IdentityKey = "user"

// TokenVerifier decodes a session token into an identity.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

type tokenBody struct {
	Token string `json:"token"`
}

// Session attaches the identity of a valid session token to the request.
// It never rejects a request: missing or invalid tokens leave it anonymous,
// and authorization is left to the handlers that consume the identity.
func Session(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("Ignoring invalid session token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			c.Next()
			return
		}

		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		logger.Debug("Session authenticated", zap.String("userID", identity.ID))
		c.Next()
	}
}

// extractToken checks the JSON body, the query string and the Authorization
// header, in that order.
func extractToken(c *gin.Context) string {
	if hasJSONBody(c.Request) {
		var body tokenBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil && body.Token != "" {
			return strings.TrimSpace(body.Token)
		}
	}

	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token
	}

	return stripScheme(c.GetHeader("Authorization"))
}

// stripScheme drops a single leading scheme word such as "Bearer". Headers
// with more than a scheme and a token carry no token.
func stripScheme(header string) string {
	fields := strings.Fields(header)
	switch len(fields) {
	case 1:
		return fields[0]
	case 2:
		return fields[1]
	default:
		return ""
	}
}

func hasJSONBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return false
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), binding.MIMEJSON)
}

// GetIdentity returns the identity set by Session, if any.
func GetIdentity(c *gin.Context) *model.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*model.Identity)
	return identity
}
