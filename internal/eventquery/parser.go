package eventquery

import (
	"net/url"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

// ParseOptions adjusts parsing for user-scoped listings.
type ParseOptions struct {
	IncludeStatus bool
}

// Parse validates raw query parameters. Scalar fields read only the first
// occurrence of their key; type filters read every occurrence.
func (e *Engine) Parse(values url.Values, opts ParseOptions) (*ListQuery, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(first(values, "scope"))))
	if scope == "" {
		scope = ScopeUpcoming
	}
	switch scope {
	case ScopeUpcoming, ScopePast, ScopeAll:
	default:
		return nil, appErrors.Validation("scope must be one of: upcoming, past, all.")
	}

	from := strings.TrimSpace(first(values, "from"))
	to := strings.TrimSpace(first(values, "to"))
	if from != "" && !ValidDate(from) {
		return nil, appErrors.Validation("from must use YYYY-MM-DD.")
	}
	if to != "" && !ValidDate(to) {
		return nil, appErrors.Validation("to must use YYYY-MM-DD.")
	}
	if from != "" && to != "" && from > to {
		return nil, appErrors.Validation("from cannot be greater than to.")
	}

	var status Status
	if opts.IncludeStatus {
		status = Status(strings.ToLower(strings.TrimSpace(first(values, "status"))))
		if status == "" {
			status = StatusTodo
		}
		switch status {
		case StatusTodo, StatusDone, StatusAll:
		default:
			return nil, appErrors.Validation("status must be one of: todo, done, all.")
		}
	}

	limit, err := parseLimit(values)
	if err != nil {
		return nil, err
	}

	var cursor *Cursor
	if values.Has("cursor") {
		if cursor, err = e.codec.Decode(first(values, "cursor")); err != nil {
			return nil, err
		}
	}

	return &ListQuery{
		Scope:  scope,
		From:   from,
		To:     to,
		Types:  ParseTypes(values["type"]),
		Limit:  limit,
		Cursor: cursor,
		Status: status,
	}, nil
}

// ParseTypes accepts repeated and comma-separated values and returns the normalized set.
func ParseTypes(raw []string) TypeSet {
	set := TypeSet{}
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if t := NormalizeType(part); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return set
}

// NormalizeType trims and lower-cases an event type.
func NormalizeType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func parseLimit(values url.Values) (int, error) {
	if !values.Has("limit") {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(first(values, "limit")))
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, appErrors.Validation("limit must be an integer between 1 and 100.")
	}
	return limit, nil
}

func first(values url.Values, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
