package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-tracker-api/internal/models"
)

// CompletionRepository stores per-user completion records.
type CompletionRepository struct {
	db *sqlx.DB
}

// NewCompletionRepository constructs a completion repository.
func NewCompletionRepository(db *sqlx.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

type completionRow struct {
	EventID     string    `db:"event_id"`
	CompletedAt time.Time `db:"completed_at"`
}

// MapForUser returns every completion recorded by userID.
func (r *CompletionRepository) MapForUser(ctx context.Context, userID string) (models.CompletionMap, error) {
	var rows []completionRow
	query := r.db.Rebind(`SELECT event_id, completed_at FROM completions WHERE user_id = ?`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	out := make(models.CompletionMap, len(rows))
	for _, row := range rows {
		out[row.EventID] = row.CompletedAt
	}
	return out, nil
}

// CompletedIDs returns the ids of completed events in ascending order.
func (r *CompletionRepository) CompletedIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	query := r.db.Rebind(`SELECT event_id FROM completions WHERE user_id = ? ORDER BY event_id`)
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list completed ids: %w", err)
	}
	return ids, nil
}

// Toggle flips the completion of eventID for userID inside one transaction:
// an existing record is deleted, otherwise one is inserted at the given time.
// It reports whether the event is completed afterwards.
func (r *CompletionRepository) Toggle(ctx context.Context, userID, eventID string, at time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM completions WHERE user_id = ? AND event_id = ?`), userID, eventID)
	if err != nil {
		return false, fmt.Errorf("clear completion: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clear completion: %w", err)
	}

	completed := removed == 0
	if completed {
		query := tx.Rebind(`INSERT INTO completions (user_id, event_id, completed_at) VALUES (?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, userID, eventID, at); err != nil {
			return false, fmt.Errorf("insert completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return completed, nil
}
