package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/koopa0/todo/internal/todo"
)

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)

	if srv.Handler() == nil {
		t.Fatal("NewServer().Handler() returned nil")
	}
}

func TestNewServer_MissingStore(t *testing.T) {
	_, err := NewServer(ServerConfig{Logger: discardLogger()})

	if err == nil {
		t.Fatal("NewServer(nil store) expected error, got nil")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	decodeJSON(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("health status = %q, want %q", body["status"], "ok")
	}
}

// TestHealthBypassesRateLimit verifies the probe stays reachable when a
// client has exhausted its API budget. httptest requests share a fixed
// RemoteAddr, so every request here counts against the same bucket.
func TestHealthBypassesRateLimit(t *testing.T) {
	store, err := todo.Open(context.Background(), filepath.Join(t.TempDir(), "todos.json"), discardLogger())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	srv, err := NewServer(ServerConfig{
		Logger:    discardLogger(),
		Store:     store,
		RateBurst: 1,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	w := doRequest(srv, http.MethodGet, "/api/v1/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("first API request status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doRequest(srv, http.MethodGet, "/api/v1/todos", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second API request status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	w = doRequest(srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d after API budget exhausted", w.Code, http.StatusOK)
	}
}

func TestRouteRegistration(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int // expected status code, 0 for "anything but 404"
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/nonexistent", http.StatusNotFound},
		{http.MethodGet, "/api/v1/todos", http.StatusOK},
		{http.MethodPost, "/api/v1/todos", 0},
		{http.MethodGet, "/api/v1/todos/stats", http.StatusOK},
		{http.MethodGet, "/api/v1/todos/analysis", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doRequest(srv, tt.method, tt.path, "")

			if tt.want == http.StatusNotFound {
				if w.Code != http.StatusNotFound {
					t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
				}
				return
			}
			if w.Code == http.StatusNotFound {
				t.Errorf("route should exist, got 404")
			}
			if tt.want != 0 && w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestSecurityHeadersOnAPIRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/api/v1/todos", "")

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}
