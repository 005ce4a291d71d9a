package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEntry is one all-day item of an iCalendar export.
type CalendarEntry struct {
	UID      string
	Summary  string
	Category string
	Date     time.Time
}

// ICSExporter renders entries as an iCalendar (RFC 5545) document.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//event-tracker//EN"
	}
	return &ICSExporter{productID: productID, now: time.Now}
}

// Render builds a VCALENDAR with one all-day VEVENT per entry.
func (e *ICSExporter) Render(name string, entries []CalendarEntry) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetName(name)
	}

	stamp := e.now().UTC()
	for _, entry := range entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("ics entry %q has no uid", entry.Summary)
		}
		event := cal.AddEvent(entry.UID)
		event.SetDtStampTime(stamp)
		event.SetSummary(entry.Summary)
		event.SetAllDayStartAt(entry.Date)
		event.SetAllDayEndAt(entry.Date.AddDate(0, 0, 1))
		if entry.Category != "" {
			event.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(entry.Category))
		}
	}

	var sb strings.Builder
	if err := cal.SerializeTo(&sb); err != nil {
		return nil, fmt.Errorf("serialize ics: %w", err)
	}
	return []byte(sb.String()), nil
}
