package models

import "time"

// Event is a dated item (homework, quiz, assignment) shown on the public list.
type Event struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Title     string    `db:"title" json:"title" yaml:"title"`
	Type      string    `db:"type" json:"type" yaml:"type"`
	DueDate   string    `db:"due_date" json:"dueDate" yaml:"dueDate"`
	CreatedAt time.Time `db:"created_at" json:"-" yaml:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-" yaml:"-"`
}

// EventPatch carries the fields an admin edit may change. Nil means untouched.
type EventPatch struct {
	Title   *string
	Type    *string
	DueDate *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Type == nil && p.DueDate == nil
}

// Apply returns a copy of the event with the patch applied.
func (p EventPatch) Apply(event Event) Event {
	if p.Title != nil {
		event.Title = *p.Title
	}
	if p.Type != nil {
		event.Type = *p.Type
	}
	if p.DueDate != nil {
		event.DueDate = *p.DueDate
	}
	return event
}

// CompletionMap maps event ids to the time a user marked them complete.
type CompletionMap map[string]time.Time

// Has reports whether the event was completed.
func (m CompletionMap) Has(eventID string) bool {
	_, ok := m[eventID]
	return ok
}

// TrackedEvent is an event enriched with a user's completion state.
type TrackedEvent struct {
	Event
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}
