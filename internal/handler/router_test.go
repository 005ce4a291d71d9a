package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/middleware"
	"github.com/noah-isme/event-tracker-api/internal/repository"
	"github.com/noah-isme/event-tracker-api/internal/service"
	"github.com/noah-isme/event-tracker-api/pkg/config"
	"github.com/noah-isme/event-tracker-api/pkg/database"
	"github.com/noah-isme/event-tracker-api/pkg/export"
)

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "events.db")}
	db, err := database.Open(context.Background(), cfg)
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 driver requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	metrics := service.NewMetricsService()
	today := time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC)
	engine := eventquery.NewEngine(eventquery.NewCursorCodec("test-secret"), func() time.Time { return today })

	eventRepo := repository.NewEventRepository(db)
	eventSvc := service.NewEventService(eventRepo, repository.NewCompletionRepository(db), engine, nil, metrics, nil)
	adminSvc := service.NewAdminEventService(eventRepo, eventSvc, nil, nil)
	authSvc := service.NewAuthService(repository.NewUserRepository(db), nil, nil, metrics, service.AuthConfig{
		AccessTokenSecret: "jwt-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "event-tracker-test",
	})
	exportSvc := service.NewExportService(eventSvc, nil, export.NewCSVExporter(), export.NewPDFExporter(), export.NewICSExporter("-//event-tracker//test//EN"))

	r := gin.New()
	r.Use(middleware.Metrics(metrics))
	RegisterRoutes(r, Handlers{
		Events:  NewEventHandler(eventSvc),
		Admin:   NewAdminEventHandler(adminSvc),
		Auth:    NewAuthHandler(authSvc),
		Export:  NewExportHandler(exportSvc),
		Metrics: NewMetricsHandler(metrics, db),
	}, authSvc, RouteOptions{APIPrefix: "/api", ExposeMetrics: true, ExportsEnabled: true})
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	rec := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestRouterEndToEnd(t *testing.T) {
	r := buildRouter(t)

	rec := call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "Alice", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true,"role":"admin"}`, rec.Body.String())

	rec = call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob", "password": "secret2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true,"role":"user"}`, rec.Body.String())

	rec = call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"username": " ALICE ", "password": "secret3"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	admin := login(t, r, "alice", "secret1")
	user := login(t, r, "bob", "secret2")

	created := make([]string, 0, 3)
	for _, payload := range []map[string]string{
		{"title": "Essay", "type": "Homework", "dueDate": "2026-02-20"},
		{"title": "Unit test", "type": "quiz", "dueDate": "2026-02-19"},
		{"title": "Old lab", "type": "assignment", "dueDate": "2026-01-10"},
	} {
		rec = call(t, r, http.MethodPost, "/api/admin/events", admin, payload)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body struct {
			Event struct {
				ID   string `json:"id"`
				Type string `json:"type"`
			} `json:"event"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, strings.HasPrefix(body.Event.ID, "evt_"))
		created = append(created, body.Event.ID)
	}

	rec = call(t, r, http.MethodPost, "/api/admin/events", user, map[string]string{"title": "x", "type": "quiz", "dueDate": "2026-03-01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = call(t, r, http.MethodPost, "/api/admin/events", "", map[string]string{"title": "x", "type": "quiz", "dueDate": "2026-03-01"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	t.Run("public listing pages through upcoming events", func(t *testing.T) {
		rec := call(t, r, http.MethodGet, "/api/events?limit=1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var page struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
			NextCursor *string `json:"nextCursor"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, created[1], page.Items[0].ID)
		require.NotNil(t, page.NextCursor)

		rec = call(t, r, http.MethodGet, "/api/events?limit=1&cursor="+*page.NextCursor, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, created[0], page.Items[0].ID)
		assert.Nil(t, page.NextCursor)
	})

	t.Run("invalid parameters are rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/events?limit=500", "", nil).Code)
		assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/events?cursor=garbage", "", nil).Code)
	})

	t.Run("completion toggles drive status filters", func(t *testing.T) {
		rec := call(t, r, http.MethodPost, "/api/me/toggle", user, map[string]string{"eventId": created[0]})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"completed":["`+created[0]+`"]}`, rec.Body.String())

		rec = call(t, r, http.MethodGet, "/api/me/events?status=done", user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"isCompleted":true`)
		assert.Contains(t, rec.Body.String(), `"status":"done"`)

		rec = call(t, r, http.MethodPost, "/api/me/toggle", user, map[string]string{"eventId": "evt_missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("export downloads the filtered listing", func(t *testing.T) {
		rec := call(t, r, http.MethodGet, "/api/events/export?scope=all&format=csv", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Body.String(), "Old lab")
	})

	t.Run("deleting an event removes it from listings", func(t *testing.T) {
		rec := call(t, r, http.MethodDelete, "/api/admin/events/"+created[0], admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = call(t, r, http.MethodGet, "/api/events?scope=all", "", nil)
		assert.NotContains(t, rec.Body.String(), created[0])
		rec = call(t, r, http.MethodGet, "/api/me", user, nil)
		assert.JSONEq(t, `{"username":"bob","role":"user","completed":[]}`, rec.Body.String())
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		rec := call(t, r, http.MethodPost, "/api/auth/logout", user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/api/me", user, nil).Code)
	})

	t.Run("probes and metrics", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/health", "", nil).Code)
		assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/ready", "", nil).Code)
		assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/health", "", nil).Code)
		rec := call(t, r, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})
}
