package handler

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/dto"
	"github.com/noah-isme/event-tracker-api/internal/models"
	"github.com/noah-isme/event-tracker-api/pkg/response"
)

type eventService interface {
	ListPublic(ctx context.Context, params url.Values) (*dto.EventListResponse, error)
	ListMine(ctx context.Context, userID string, params url.Values) (*dto.TrackedEventListResponse, error)
	Toggle(ctx context.Context, userID, eventID string) ([]string, error)
	Me(ctx context.Context, user *models.SessionUser) (*models.MeResponse, error)
}

// EventHandler serves the public listing and the per-user endpoints.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events
// @Description Filtered, sorted and cursor-paginated public event listing
// @Tags Events
// @Produce json
// @Param scope query string false "upcoming (default), past or all"
// @Param from query string false "Inclusive lower bound YYYY-MM-DD"
// @Param to query string false "Inclusive upper bound YYYY-MM-DD"
// @Param type query []string false "Type filters, repeated or comma separated" collectionFormat(multi)
// @Param limit query int false "Page size 1-100 (default 25)"
// @Param cursor query string false "nextCursor of the previous page"
// @Success 200 {object} dto.EventListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	res, err := h.service.ListPublic(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// MyEvents godoc
// @Summary List events with completion state
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Param scope query string false "upcoming (default), past or all"
// @Param from query string false "Inclusive lower bound YYYY-MM-DD"
// @Param to query string false "Inclusive upper bound YYYY-MM-DD"
// @Param type query []string false "Type filters" collectionFormat(multi)
// @Param status query string false "todo (default), done or all"
// @Param limit query int false "Page size 1-100 (default 25)"
// @Param cursor query string false "nextCursor of the previous page"
// @Success 200 {object} dto.TrackedEventListResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /me/events [get]
func (h *EventHandler) MyEvents(c *gin.Context) {
	user, ok := sessionFromContext(c)
	if !ok {
		return
	}
	res, err := h.service.ListMine(c.Request.Context(), user.UserID, c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Toggle godoc
// @Summary Toggle completion of an event
// @Tags Me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ToggleRequest true "Event to toggle"
// @Success 200 {object} dto.ToggleResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /me/toggle [post]
func (h *EventHandler) Toggle(c *gin.Context) {
	user, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.ToggleRequest
	// A malformed body leaves EventID empty, which the service rejects.
	_ = c.ShouldBindJSON(&req)

	completed, err := h.service.Toggle(c.Request.Context(), user.UserID, req.EventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToggleResponse{Completed: completed})
}

// Me godoc
// @Summary Current user
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MeResponse
// @Failure 401 {object} response.ErrorBody
// @Router /me [get]
func (h *EventHandler) Me(c *gin.Context) {
	user, ok := sessionFromContext(c)
	if !ok {
		return
	}
	res, err := h.service.Me(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
