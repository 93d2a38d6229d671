package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/koopa0/todo/internal/todo"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     *slog.Logger
	Store      *todo.Store // Required
	TrustProxy bool        // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst  int         // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("todo store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	th := &todoHandler{
		store:  cfg.Store,
		logger: logger,
		now:    time.Now,
	}

	mux := http.NewServeMux()

	// Todo CRUD. Literal segments (stats, analysis) take precedence over
	// the {id} wildcard in Go 1.22 routing, so they can share the prefix.
	mux.HandleFunc("GET /api/v1/todos", th.list)
	mux.HandleFunc("POST /api/v1/todos", th.create)
	mux.HandleFunc("GET /api/v1/todos/stats", th.stats)
	mux.HandleFunc("GET /api/v1/todos/analysis", th.analysis)
	mux.HandleFunc("GET /api/v1/todos/{id}", th.get)
	mux.HandleFunc("PUT /api/v1/todos/{id}", th.update)
	mux.HandleFunc("DELETE /api/v1/todos/{id}", th.delete)
	mux.HandleFunc("POST /api/v1/todos/{id}/toggle", th.toggle)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → Logging → RateLimit → Routes
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate the health probe from the middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
