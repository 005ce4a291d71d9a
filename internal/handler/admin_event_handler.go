package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/dto"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
	"github.com/noah-isme/event-tracker-api/pkg/response"
)

type adminEventService interface {
	Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id string) (*models.Event, error)
}

// AdminEventHandler exposes event management to administrators.
type AdminEventHandler struct {
	service adminEventService
}

// NewAdminEventHandler constructs an AdminEventHandler.
func NewAdminEventHandler(svc adminEventService) *AdminEventHandler {
	return &AdminEventHandler{service: svc}
}

// Create godoc
// @Summary Create event
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/events [post]
func (h *AdminEventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Title, type, and dueDate (YYYY-MM-DD) required."))
		return
	}
	event, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.EventResponse{Event: *event})
}

// Update godoc
// @Summary Update event
// @Description Only the provided fields change
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/events/{id} [patch]
func (h *AdminEventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload"))
		return
	}
	event, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.EventResponse{Event: *event})
}

// Delete godoc
// @Summary Delete event
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RemovedEventResponse
// @Failure 404 {object} response.ErrorBody
// @Router /admin/events/{id} [delete]
func (h *AdminEventHandler) Delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RemovedEventResponse{Removed: *removed})
}
