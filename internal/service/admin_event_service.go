package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/event-tracker-api/internal/dto"
	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

const createEventMessage = "Title, type, and dueDate (YYYY-MM-DD) required."

type eventWriter interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, id string, patch models.EventPatch) error
	Delete(ctx context.Context, id string) (*models.Event, error)
}

type snapshotInvalidator interface {
	InvalidateSnapshot(ctx context.Context)
}

// AdminEventService implements admin create/edit/delete of events.
type AdminEventService struct {
	repo      eventWriter
	snapshots snapshotInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminEventService constructs the admin service. snapshots may be nil.
func NewAdminEventService(repo eventWriter, snapshots snapshotInvalidator, validate *validator.Validate, logger *zap.Logger) *AdminEventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminEventService{repo: repo, snapshots: snapshots, validator: validate, logger: logger}
}

// Create stores a new event with a generated id.
func (s *AdminEventService) Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = eventquery.NormalizeType(req.Type)
	req.DueDate = strings.TrimSpace(req.DueDate)
	if err := s.validator.Struct(req); err != nil || !eventquery.ValidDate(req.DueDate) {
		return nil, appErrors.Validation(createEventMessage)
	}

	event := &models.Event{Title: req.Title, Type: req.Type, DueDate: req.DueDate}
	if err := s.repo.Create(ctx, event); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Event already exists.")
		}
		return nil, appErrors.Internal(err, "failed to create event")
	}
	s.invalidate(ctx)
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("type", event.Type), zap.String("due_date", event.DueDate))
	return event, nil
}

// Update applies the provided fields. An empty request returns the event unchanged.
func (s *AdminEventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundEvent()
		}
		return nil, appErrors.Internal(err, "failed to update event")
	}
	s.invalidate(ctx)

	updated := patch.Apply(*current)
	s.logger.Info("event updated", zap.String("event_id", id))
	return &updated, nil
}

// Delete removes an event and returns it. Completions of the event go with it.
func (s *AdminEventService) Delete(ctx context.Context, id string) (*models.Event, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundEvent()
		}
		return nil, appErrors.Internal(err, "failed to delete event")
	}
	s.invalidate(ctx)
	s.logger.Info("event deleted", zap.String("event_id", id))
	return removed, nil
}

func (s *AdminEventService) find(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundEvent()
		}
		return nil, appErrors.Internal(err, "failed to load event")
	}
	return event, nil
}

func (s *AdminEventService) invalidate(ctx context.Context) {
	if s.snapshots != nil {
		s.snapshots.InvalidateSnapshot(ctx)
	}
}

// buildPatch validates each provided field on its own.
func buildPatch(req dto.UpdateEventRequest) (models.EventPatch, error) {
	var patch models.EventPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return patch, appErrors.Validation("title cannot be empty.")
		}
		patch.Title = &title
	}
	if req.Type != nil {
		kind := eventquery.NormalizeType(*req.Type)
		if kind == "" {
			return patch, appErrors.Validation("type cannot be empty.")
		}
		patch.Type = &kind
	}
	if req.DueDate != nil {
		due := strings.TrimSpace(*req.DueDate)
		if !eventquery.ValidDate(due) {
			return patch, appErrors.Validation("dueDate must use YYYY-MM-DD.")
		}
		patch.DueDate = &due
	}
	return patch, nil
}

func notFoundEvent() error {
	return appErrors.Clone(appErrors.ErrNotFound, "Event not found.")
}
