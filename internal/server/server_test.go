package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/config"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/notify"
	"github.com/foraginglink/backend/internal/services"
)

type stubDB struct {
	status string
}

func (s stubDB) Health(context.Context) map[string]string {
	return map[string]string{"status": s.status}
}
func (s stubDB) Migrate(context.Context) error { return nil }
func (s stubDB) Close() error                  { return nil }
func (s stubDB) GetDB() *gorm.DB               { return nil }

func newTestServer(t *testing.T, status string) (http.Handler, *services.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:        "8080",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		CacheTTL:    time.Minute,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svcs := services.New(nil, cfg, notify.New(cfg.Twilio, log), log)

	srv := NewServer(cfg, stubDB{status: status}, svcs, log)
	require.Equal(t, "0.0.0.0:8080", srv.Addr)
	return srv.Handler, svcs
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, "up")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	h, _ = newTestServer(t, "down")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t, "up")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRoutePermissions(t *testing.T) {
	h, svcs := newTestServer(t, "up")

	userToken, err := svcs.Tokens.Issue(&models.User{ID: 1, Username: "rowan"})
	require.NoError(t, err)

	cases := []struct {
		method string
		path   string
		token  string
		status int
	}{
		{http.MethodPost, "/api/comments", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/likes", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/course_registrations", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/user", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/posts", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/posts", userToken, http.StatusForbidden},
		{http.MethodPost, "/api/courses", userToken, http.StatusForbidden},
		{http.MethodGet, "/api/course_registrations/1", userToken, http.StatusForbidden},
		{http.MethodGet, "/api/courses/1/registrations", userToken, http.StatusForbidden},
		{http.MethodGet, "/api/posts", "not-a-token", http.StatusUnauthorized},
		{http.MethodGet, "/api/posts/abc", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}
