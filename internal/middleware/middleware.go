package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-tapas-api/internal/auth"
	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie is the HttpOnly cookie carrying the admin credential
	SessionCookie = "auth-token"
	// PrincipalKey is the gin context key of the authenticated principal
	PrincipalKey = "principal"
)

// Authenticator validates a credential string
type Authenticator interface {
	Authenticate(token string) (auth.Principal, error)
}

// RequireSession gates the admin API behind a valid credential.
// The token is read from the Bearer Authorization header first, then from the session cookie.
// A missing credential answers 401 and an invalid or expired one 403, both with a generic message.
func RequireSession(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			respondWithAuthError(c, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication token is required")
			return
		}

		principal, err := authenticator.Authenticate(token)
		if err != nil {
			status, code := http.StatusForbidden, models.CodeForbidden
			if errors.Is(err, models.ErrUnauthorized) {
				status, code = http.StatusUnauthorized, models.CodeUnauthorized
			}
			log.WithError(err).WithField("path", c.FullPath()).Debug("Rejected credential")
			respondWithAuthError(c, status, code, "Invalid token")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// ExtractToken returns the credential of the request, or an empty string
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// respondWithAuthError aborts the chain with the API error envelope
func respondWithAuthError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.NewErrorResponse(code, message))
}
