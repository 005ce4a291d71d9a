package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/middleware"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
	"github.com/noah-isme/event-tracker-api/pkg/response"
)

// sessionFromContext returns the authenticated session or writes a 401.
func sessionFromContext(c *gin.Context) (*models.SessionUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return user, true
}
