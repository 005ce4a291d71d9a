package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

func newExportService() *ExportService {
	events := newEventService(newMemEvents(sampleEvents()...), newMemCompletions(), nil)
	svc := NewExportService(events, zap.NewNop(), nil, nil, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat(" ICS ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatICS, format)

	_, err = ParseExportFormat("xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportCSVUsesListingOrder(t *testing.T) {
	svc := newExportService()

	res, err := svc.Export(context.Background(), ExportFormatCSV, url.Values{"scope": {"all"}, "type": {"homework"}})
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.Equal(t, "events_all_20260219_100000.csv", res.Filename)

	lines := strings.Split(strings.TrimSpace(string(res.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Due date,Type,Title,ID", lines[0])
	assert.Equal(t, "2026-02-18,homework,Essay,evt_001", lines[1])
	assert.Equal(t, "2026-02-19,Homework,Reading,evt_004", lines[2])
}

func TestExportICS(t *testing.T) {
	svc := newExportService()

	res, err := svc.Export(context.Background(), ExportFormatICS, url.Values{"scope": {"upcoming"}})
	require.NoError(t, err)
	body := string(res.Body)
	assert.Equal(t, "text/calendar; charset=utf-8", res.ContentType)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "UID:evt_002")
	assert.Contains(t, body, "20260220")
}

func TestExportPDF(t *testing.T) {
	svc := newExportService()

	res, err := svc.Export(context.Background(), ExportFormatPDF, url.Values{"scope": {"past"}})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(string(res.Body), "%PDF"))
}

func TestExportPropagatesQueryErrors(t *testing.T) {
	svc := newExportService()

	_, err := svc.Export(context.Background(), ExportFormatCSV, url.Values{"scope": {"later"}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
