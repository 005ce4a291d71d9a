package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
	"github.com/noah-isme/event-tracker-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated session.
const ContextUserKey = "currentUser"

// SessionAuthenticator resolves bearer tokens to live sessions.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.SessionUser, error)
}

// JWT protects routes by requiring a bearer token bound to a live session.
// Every failure is reported as the same 401 so callers cannot probe tokens.
func JWT(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if appErrors.FromError(err).Status >= http.StatusInternalServerError {
				response.Abort(c, err)
				return
			}
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the session stored by JWT.
func CurrentUser(c *gin.Context) (*models.SessionUser, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.SessionUser)
	return user, ok && user != nil
}
