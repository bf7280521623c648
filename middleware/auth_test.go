package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser map[string]*services.Claims

func (f fakeParser) ParseAccessToken(token string) (*services.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

var parser = fakeParser{
	"admin-token":  {UserID: 1, Role: models.RoleAdmin},
	"editor-token": {UserID: 2, Role: models.RoleEditor},
	"viewer-token": {UserID: 3, Role: models.RoleViewer},
}

func protected(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetUserIDFromContext(r.Context())
		role, _ := GetUserRoleFromContext(r.Context())
		_, _ = io.WriteString(w, string(role)+":"+string(rune('0'+id)))
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	h := protected(Authenticate(parser))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, "Not authenticated"},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, "Invalid or expired token"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer editor-token") }, http.StatusOK, "editor:2"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer viewer-token") }, http.StatusOK, "viewer:3"},
		{"cookie wins", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "admin-token"})
			r.Header.Set("Authorization", "Bearer viewer-token")
		}, http.StatusOK, "admin:1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestRequireWriter(t *testing.T) {
	h := protected(Authenticate(parser), RequireWriter)

	for token, want := range map[string]int{
		"admin-token":  http.StatusOK,
		"editor-token": http.StatusOK,
		"viewer-token": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := protected(Authenticate(parser), RequireAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer editor-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Insufficient permissions"}`, rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	h := protected(OptionalAuth(parser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ":0", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "admin:1", rec.Body.String())
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/players/{slug}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/players/nino", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `registry_http_requests_total{method="GET",route="/players/{slug}",status="404"} 1`), body)
}
