package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

func setupRouter(cache CachePinger) *gin.Engine {
	h := NewHealthHandler(cache)
	r := gin.New()
	for _, path := range []string{"/health", "/healthz"} {
		r.GET(path, h.Health)
		r.HEAD(path, h.Health)
		r.OPTIONS(path, h.Health)
		r.POST(path, h.Health)
	}
	return r
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		path          string
		cache         CachePinger
		expectedCache string
	}{
		{name: "no cache configured", path: "/health", cache: nil, expectedCache: "disabled"},
		{name: "cache reachable", path: "/healthz", cache: &mockPinger{}, expectedCache: "up"},
		{name: "cache down still ok", path: "/health", cache: &mockPinger{err: errors.New("dial tcp: refused")}, expectedCache: "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.cache)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			var response map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response["status"] != "ok" {
				t.Errorf("expected status 'ok', got %q", response["status"])
			}
			if response["cache"] != tt.expectedCache {
				t.Errorf("expected cache %q, got %q", tt.expectedCache, response["cache"])
			}
			if w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	router := setupRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/health", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// HEAD should have no body
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD request, got %d bytes", w.Body.Len())
	}
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodHead, http.StatusOK},
		{http.MethodOptions, http.StatusNoContent},
		{http.MethodPost, http.StatusOK},
	}

	router := setupRouter(&mockPinger{})

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}
