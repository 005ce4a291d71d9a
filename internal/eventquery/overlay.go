package eventquery

import "github.com/noah-isme/event-tracker-api/internal/models"

// FilterByStatus keeps todo or done events according to the completion map.
// StatusAll and the zero status keep everything.
func FilterByStatus(events []models.Event, status Status, completions models.CompletionMap) []models.Event {
	if status != StatusTodo && status != StatusDone {
		return events
	}
	wantDone := status == StatusDone
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if completions.Has(event.ID) == wantDone {
			out = append(out, event)
		}
	}
	return out
}

// Overlay attaches isCompleted/completedAt to each event.
func Overlay(events []models.Event, completions models.CompletionMap) []models.TrackedEvent {
	out := make([]models.TrackedEvent, len(events))
	for i, event := range events {
		out[i] = models.TrackedEvent{Event: event}
		if at, ok := completions[event.ID]; ok {
			completedAt := at
			out[i].IsCompleted = true
			out[i].CompletedAt = &completedAt
		}
	}
	return out
}
