package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
	"github.com/noah-isme/event-tracker-api/pkg/export"
)

// ExportFormat selects the rendering of an export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatICS ExportFormat = "ics"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV: "text/csv; charset=utf-8",
	ExportFormatPDF: "application/pdf",
	ExportFormatICS: "text/calendar; charset=utf-8",
}

// ContentType is the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	return exportContentTypes[f]
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

type eventLister interface {
	Filtered(ctx context.Context, params url.Values) ([]models.Event, *eventquery.ListQuery, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, entries []export.CalendarEntry) ([]byte, error)
}

// ExportService renders the complete filtered listing as a file.
type ExportService struct {
	events eventLister
	csv    csvRenderer
	pdf    pdfRenderer
	ics    icsRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the defaults.
func NewExportService(events eventLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter("")
	}
	return &ExportService{events: events, csv: csv, pdf: pdf, ics: ics, logger: logger, now: time.Now}
}

// ParseExportFormat validates the format parameter. Blank means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Validation("format must be one of: csv, pdf, ics.")
	}
	return format, nil
}

// Export filters and sorts events exactly like the listing endpoint and
// renders the whole sequence. Pagination parameters are validated but ignored.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, params url.Values) (*ExportResult, error) {
	events, query, err := s.events.Filtered(ctx, params)
	if err != nil {
		return nil, err
	}

	title := exportTitle(query)
	var body []byte
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(eventsDataset(title, events))
	case ExportFormatPDF:
		body, err = s.pdf.Render(eventsDataset(title, events))
	case ExportFormatICS:
		var entries []export.CalendarEntry
		entries, err = calendarEntries(events)
		if err == nil {
			body, err = s.ics.Render(title, entries)
		}
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Debug("events exported", zap.String("format", string(format)), zap.Int("count", len(events)))
	return &ExportResult{
		Filename:    fmt.Sprintf("events_%s_%s.%s", query.Scope, s.now().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func exportTitle(query *eventquery.ListQuery) string {
	parts := []string{"Events", "(" + string(query.Scope) + ")"}
	if query.From != "" || query.To != "" {
		parts = append(parts, query.From+".."+query.To)
	}
	if types := query.Types.Values(); len(types) > 0 {
		parts = append(parts, strings.Join(types, ", "))
	}
	return strings.Join(parts, " ")
}

func eventsDataset(title string, events []models.Event) export.Dataset {
	rows := make([][]string, len(events))
	for i, event := range events {
		rows[i] = []string{event.DueDate, event.Type, event.Title, event.ID}
	}
	return export.Dataset{
		Title:   title,
		Headers: []string{"Due date", "Type", "Title", "ID"},
		Rows:    rows,
	}
}

func calendarEntries(events []models.Event) ([]export.CalendarEntry, error) {
	entries := make([]export.CalendarEntry, len(events))
	for i, event := range events {
		date, err := time.Parse(time.DateOnly, event.DueDate)
		if err != nil {
			return nil, fmt.Errorf("event %s due date: %w", event.ID, err)
		}
		entries[i] = export.CalendarEntry{UID: event.ID, Summary: event.Title, Category: event.Type, Date: date}
	}
	return entries, nil
}
