package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/event-tracker-api/internal/dto"
	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

// EventsSnapshotKey names the cached copy of the full event collection.
const EventsSnapshotKey = "snapshot"

type eventReader interface {
	FetchAll(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

type completionStore interface {
	MapForUser(ctx context.Context, userID string) (models.CompletionMap, error)
	CompletedIDs(ctx context.Context, userID string) ([]string, error)
	Toggle(ctx context.Context, userID, eventID string, at time.Time) (bool, error)
}

// EventService serves public and per-user event listings and completion toggles.
// Each call works on one full snapshot of the collection.
type EventService struct {
	events      eventReader
	completions completionStore
	engine      *eventquery.Engine
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewEventService wires the listing use cases. cache and metrics may be nil.
func NewEventService(events eventReader, completions completionStore, engine *eventquery.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = eventquery.NewEngine(nil, nil)
	}
	return &EventService{
		events:      events,
		completions: completions,
		engine:      engine,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListPublic answers GET /events.
func (s *EventService) ListPublic(ctx context.Context, params url.Values) (*dto.EventListResponse, error) {
	query, err := s.parse(params, eventquery.ParseOptions{})
	if err != nil {
		return nil, err
	}
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.paginate(s.engine.FilterAndSort(events, query), query)
	if err != nil {
		return nil, err
	}
	return &dto.EventListResponse{
		Items:      page.Items,
		NextCursor: page.NextCursor,
		Meta:       dto.ListMeta{Scope: string(query.Scope), Limit: query.Limit},
	}, nil
}

// ListMine answers GET /me/events: the public listing narrowed by completion
// status and annotated with the caller's completion state.
func (s *EventService) ListMine(ctx context.Context, userID string, params url.Values) (*dto.TrackedEventListResponse, error) {
	query, err := s.parse(params, eventquery.ParseOptions{IncludeStatus: true})
	if err != nil {
		return nil, err
	}
	completions, err := s.completionMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ordered := eventquery.FilterByStatus(s.engine.FilterAndSort(events, query), query.Status, completions)
	page, err := s.paginate(ordered, query)
	if err != nil {
		return nil, err
	}
	return &dto.TrackedEventListResponse{
		Items:      eventquery.Overlay(page.Items, completions),
		NextCursor: page.NextCursor,
		Meta:       dto.ListMeta{Status: string(query.Status), Scope: string(query.Scope), Limit: query.Limit},
	}, nil
}

// Filtered returns the complete ordered sequence for params without
// paginating. Used by exports.
func (s *EventService) Filtered(ctx context.Context, params url.Values) ([]models.Event, *eventquery.ListQuery, error) {
	query, err := s.parse(params, eventquery.ParseOptions{})
	if err != nil {
		return nil, nil, err
	}
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.engine.FilterAndSort(events, query), query, nil
}

// Toggle flips the caller's completion of eventID and returns the completed ids.
func (s *EventService) Toggle(ctx context.Context, userID, eventID string) ([]string, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, appErrors.Validation("Event required.")
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Event not found.")
		}
		return nil, appErrors.Internal(err, "failed to load event")
	}

	completed, err := s.completions.Toggle(ctx, userID, eventID, s.now())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to toggle completion")
	}
	s.logger.Debug("completion toggled", zap.String("user_id", userID), zap.String("event_id", eventID), zap.Bool("completed", completed))

	return s.CompletedIDs(ctx, userID)
}

// CompletedIDs lists the caller's completed event ids in ascending order.
func (s *EventService) CompletedIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.completions.CompletedIDs(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list completions")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Me describes the authenticated caller.
func (s *EventService) Me(ctx context.Context, user *models.SessionUser) (*models.MeResponse, error) {
	completed, err := s.CompletedIDs(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	return &models.MeResponse{Username: user.Username, Role: models.NormalizeRole(string(user.Role)), Completed: completed}, nil
}

// InvalidateSnapshot drops the cached collection after a mutation.
func (s *EventService) InvalidateSnapshot(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, EventsSnapshotKey)
}

func (s *EventService) parse(params url.Values, opts eventquery.ParseOptions) (*eventquery.ListQuery, error) {
	query, err := s.engine.Parse(params, opts)
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}
	return query, nil
}

func (s *EventService) paginate(ordered []models.Event, query *eventquery.ListQuery) (*eventquery.Page, error) {
	page, err := s.engine.Paginate(ordered, query.Cursor, query.Limit)
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}
	return page, nil
}

func (s *EventService) recordRejection(err error) {
	if errors.Is(err, appErrors.ErrInvalidCursor) {
		s.metrics.RecordCursorRejection()
	}
}

func (s *EventService) snapshot(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if hit, _ := s.cache.Get(ctx, EventsSnapshotKey, &events); hit {
		return events, nil
	}

	start := time.Now()
	events, err := s.events.FetchAll(ctx)
	s.metrics.ObserveDBQuery("events_fetch_all", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load events")
	}
	_ = s.cache.Set(ctx, EventsSnapshotKey, events, 0)
	return events, nil
}

func (s *EventService) completionMap(ctx context.Context, userID string) (models.CompletionMap, error) {
	start := time.Now()
	completions, err := s.completions.MapForUser(ctx, userID)
	s.metrics.ObserveDBQuery("completions_for_user", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load completions")
	}
	return completions, nil
}
