// Package eventquery turns raw list parameters into an ordered, paginated
// view over a snapshot of events. It performs no I/O: callers hand it the full
// event collection (and completion map) loaded for the current request.
package eventquery

import (
	"regexp"
	"sort"
	"time"
)

// Scope is a coarse time window over due dates.
type Scope string

const (
	ScopeUpcoming Scope = "upcoming"
	ScopePast     Scope = "past"
	ScopeAll      Scope = "all"
)

// Status filters user-scoped listings by completion.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
	StatusAll  Status = "all"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100

	dateLayout = "2006-01-02"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether raw is a real calendar date written as YYYY-MM-DD.
func ValidDate(raw string) bool {
	if !datePattern.MatchString(raw) {
		return false
	}
	_, err := time.Parse(dateLayout, raw)
	return err == nil
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// TypeSet is a set of normalized event types. Empty means no filtering.
type TypeSet map[string]struct{}

// Has reports whether the normalized form of eventType is in the set.
func (s TypeSet) Has(eventType string) bool {
	_, ok := s[NormalizeType(eventType)]
	return ok
}

// Values returns the set members in ascending order.
func (s TypeSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ListQuery is the validated shape of a list request.
type ListQuery struct {
	Scope  Scope
	From   string
	To     string
	Types  TypeSet
	Limit  int
	Cursor *Cursor
	// Status is only set for user-scoped listings.
	Status Status
}
