package dto

import "github.com/noah-isme/event-tracker-api/internal/models"

// ListMeta echoes the normalized query that produced a page.
type ListMeta struct {
	Status string `json:"status,omitempty"`
	Scope  string `json:"scope"`
	Limit  int    `json:"limit"`
}

// EventListResponse is the payload of GET /events.
type EventListResponse struct {
	Items      []models.Event `json:"items"`
	NextCursor *string        `json:"nextCursor"`
	Meta       ListMeta       `json:"meta"`
}

// TrackedEventListResponse is the payload of GET /me/events.
type TrackedEventListResponse struct {
	Items      []models.TrackedEvent `json:"items"`
	NextCursor *string               `json:"nextCursor"`
	Meta       ListMeta              `json:"meta"`
}

// CreateEventRequest is the admin payload for new events. Fields are
// normalized before validation.
type CreateEventRequest struct {
	Title   string `json:"title" validate:"required"`
	Type    string `json:"type" validate:"required"`
	DueDate string `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// UpdateEventRequest carries the fields an admin wants to change. Absent
// fields stay nil and are left untouched.
type UpdateEventRequest struct {
	Title   *string `json:"title"`
	Type    *string `json:"type"`
	DueDate *string `json:"dueDate"`
}

// EventResponse wraps a single event.
type EventResponse struct {
	Event models.Event `json:"event"`
}

// RemovedEventResponse reports the event an admin deleted.
type RemovedEventResponse struct {
	Removed models.Event `json:"removed"`
}

// ToggleRequest names the event whose completion flips.
type ToggleRequest struct {
	EventID string `json:"eventId"`
}

// ToggleResponse lists the caller's completed event ids after a toggle.
type ToggleResponse struct {
	Completed []string `json:"completed"`
}

// OKResponse is the acknowledgement body for side-effect-only calls.
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is returned by liveness probes.
type HealthResponse struct {
	Status string `json:"status"`
}
