package eventquery

import (
	"slices"
	"strings"
	"time"

	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

// Engine bundles the cursor codec and clock used by a listing.
type Engine struct {
	codec *CursorCodec
	now   func() time.Time
}

// NewEngine constructs an engine. A nil clock reads the server's local time.
func NewEngine(codec *CursorCodec, now func() time.Time) *Engine {
	if codec == nil {
		codec = NewCursorCodec("")
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{codec: codec, now: now}
}

// Codec exposes the cursor codec.
func (e *Engine) Codec() *CursorCodec {
	return e.codec
}

// Today is the server-local calendar date separating upcoming from past.
func (e *Engine) Today() string {
	return Today(e.now())
}

// FilterAndSort applies q to events, computing "today" once for the call.
func (e *Engine) FilterAndSort(events []models.Event, q *ListQuery) []models.Event {
	return FilterAndSort(events, q, e.Today())
}

// FilterAndSort keeps events matching scope, date range and type filters and
// orders them by (dueDate, id): ascending, or descending for the past scope.
// The id tie-break makes the order total so cursors never skip or repeat items.
func FilterAndSort(events []models.Event, q *ListQuery, today string) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if matches(event, q, today) {
			out = append(out, event)
		}
	}

	if q.Scope == ScopePast {
		slices.SortFunc(out, func(a, b models.Event) int { return compareEvents(b, a) })
	} else {
		slices.SortFunc(out, compareEvents)
	}
	return out
}

func matches(event models.Event, q *ListQuery, today string) bool {
	switch q.Scope {
	case ScopeUpcoming:
		if event.DueDate < today {
			return false
		}
	case ScopePast:
		if event.DueDate >= today {
			return false
		}
	}
	if q.From != "" && event.DueDate < q.From {
		return false
	}
	if q.To != "" && event.DueDate > q.To {
		return false
	}
	if len(q.Types) > 0 && !q.Types.Has(event.Type) {
		return false
	}
	return true
}

func compareEvents(a, b models.Event) int {
	if c := strings.Compare(a.DueDate, b.DueDate); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Page is one slice of an ordered listing.
type Page struct {
	Items      []models.Event
	NextCursor *string
}

// Paginate emits up to limit items following cursor. A cursor that does not
// match an item exactly (deleted event, changed filters) fails with ErrInvalidCursor.
func (e *Engine) Paginate(items []models.Event, cursor *Cursor, limit int) (*Page, error) {
	if limit < 1 {
		return nil, appErrors.Validation("limit must be an integer between 1 and 100.")
	}

	start := 0
	if cursor != nil {
		idx := slices.IndexFunc(items, func(event models.Event) bool {
			return event.ID == cursor.ID && event.DueDate == cursor.DueDate
		})
		if idx == -1 {
			return nil, invalidCursor()
		}
		start = idx + 1
	}

	end := min(start+limit, len(items))
	page := make([]models.Event, end-start)
	copy(page, items[start:end])

	result := &Page{Items: page}
	if end < len(items) && len(page) > 0 {
		next := e.codec.Encode(page[len(page)-1])
		result.NextCursor = &next
	}
	return result, nil
}
