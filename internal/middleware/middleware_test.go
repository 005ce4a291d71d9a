package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/event-tracker-api/internal/models"
	"github.com/noah-isme/event-tracker-api/internal/service"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

type stubAuthenticator struct {
	users map[string]*models.SessionUser
	err   error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.SessionUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return user, nil
}

func newRouter(auth SessionAuthenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r http.Handler, header string) (*httptest.ResponseRecorder, map[string]string) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	body := map[string]string{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestJWTRequiresBearerSession(t *testing.T) {
	auth := stubAuthenticator{users: map[string]*models.SessionUser{
		"good": {SessionID: "s1", UserID: "u1", Username: "Alice", Role: models.RoleUser},
	}}
	r := newRouter(auth)

	for _, header := range []string{"", "good", "Basic good", "Bearer ", "Bearer revoked"} {
		rec, body := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Authentication required.", body["error"], header)
	}

	rec, body := doRequest(r, "bearer  good ")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", body["username"])
}

func TestJWTSurfacesStorageFailures(t *testing.T) {
	r := newRouter(stubAuthenticator{err: appErrors.Internal(errors.New("db down"), "failed to load session")})

	rec, body := doRequest(r, "Bearer any")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error.", body["error"])
}

func TestRequireAdmin(t *testing.T) {
	auth := stubAuthenticator{users: map[string]*models.SessionUser{
		"admin": {UserID: "u1", Username: "Root", Role: models.RoleAdmin},
		"user":  {UserID: "u2", Username: "Bob", Role: models.RoleUser},
	}}
	r := newRouter(auth, RequireAdmin())

	rec, body := doRequest(r, "Bearer user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required.", body["error"])

	rec, _ = doRequest(r, "Bearer admin")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/ping", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.EqualValues(t, 2, metrics.Snapshot().RequestsTotal)
}
