package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/koopa0/todo/internal/todo"
)

// ServerConfig contains configuration for creating the web server.
type ServerConfig struct {
	Logger *slog.Logger
	Store  *todo.Store // Required
}

// Server renders the HTML interface over the todo store.
type Server struct {
	handler http.Handler
	logger  *slog.Logger
	store   *todo.Store
	pages   map[string]*template.Template
	now     func() time.Time
}

// NewServer parses the embedded templates and configures all routes.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("todo store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger: logger,
		store:  cfg.Store,
		pages:  pages,
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /todos/new", s.newForm)
	mux.HandleFunc("POST /todos", s.create)
	mux.HandleFunc("GET /todos/{id}", s.detail)
	mux.HandleFunc("GET /todos/{id}/edit", s.editForm)
	mux.HandleFunc("POST /todos/{id}", s.edit)
	mux.HandleFunc("POST /todos/{id}/delete", s.delete)
	mux.HandleFunc("POST /todos/{id}/toggle", s.toggle)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	var handler http.Handler = mux
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)
	s.handler = handler

	return s, nil
}

// ServeHTTP implements http.Handler with the middleware stack applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	s.handler.ServeHTTP(w, r)
}

// Handler returns the server as an http.Handler for mounting.
func (s *Server) Handler() http.Handler {
	return s
}

// render executes a page template buffer-first, so a template failure can
// still produce a clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Error("rendering page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("failed to write response body", "error", err)
	}
}
