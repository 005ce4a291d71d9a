package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-tracker-api/internal/models"
)

const eventColumns = `id, title, type, due_date`

// EventRepository persists events.
type EventRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// NewEventID returns a fresh identifier in the evt_<hex> form.
func NewEventID() string {
	return "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// FetchAll returns a snapshot of every event. Ordering is left to the caller.
func (r *EventRepository) FetchAll(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events`); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID fetches one event. Missing rows return sql.ErrNoRows.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	query := r.db.Rebind(`SELECT ` + eventColumns + ` FROM events WHERE id = ?`)
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// Count returns the number of stored events.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// Create inserts an event, generating its id when empty.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.insert(ctx, r.db, event)
}

// CreateMany inserts events in one transaction.
func (r *EventRepository) CreateMany(ctx context.Context, events []models.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for i := range events {
		if err := r.insert(ctx, tx, &events[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (r *EventRepository) insert(ctx context.Context, exec sqlx.ExtContext, event *models.Event) error {
	if event.ID == "" {
		event.ID = NewEventID()
	}
	now := r.now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	query := `INSERT INTO events (id, title, type, due_date, created_at, updated_at)
VALUES (:id, :title, :type, :due_date, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, event); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create event %s: %w", event.ID, models.ErrDuplicateKey)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch. Missing rows return sql.ErrNoRows.
func (r *EventRepository) Update(ctx context.Context, id string, patch models.EventPatch) error {
	if patch.Empty() {
		return nil
	}
	sets := []string{}
	args := []interface{}{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *patch.Type)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	query := r.db.Rebind(fmt.Sprintf("UPDATE events SET %s WHERE id = ?", strings.Join(sets, ", ")))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event and returns it. Completions cascade.
// Missing rows return sql.ErrNoRows.
func (r *EventRepository) Delete(ctx context.Context, id string) (*models.Event, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var event models.Event
	if err := tx.GetContext(ctx, &event, tx.Rebind(`SELECT `+eventColumns+` FROM events WHERE id = ?`), id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load event for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM completions WHERE event_id = ?`), id); err != nil {
		return nil, fmt.Errorf("delete event completions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM events WHERE id = ?`), id); err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return &event, nil
}
