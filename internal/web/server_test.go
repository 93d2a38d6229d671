package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koopa0/todo/internal/todo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := todo.Open(context.Background(), filepath.Join(t.TempDir(), "todos.json"), discardLogger())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	srv, err := NewServer(ServerConfig{
		Logger: discardLogger(),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

// get runs a GET through the server, optionally carrying cookies from a
// previous response (the flash hand-off).
func get(srv *Server, path string, from *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if from != nil {
		for _, c := range from.Result().Cookies() {
			r.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

// postForm submits an HTML form to the server.
func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

// createTodo submits the create form and returns the stored todo's ID,
// read back through the store-backed index page ordering.
func createTodo(t *testing.T, srv *Server, form url.Values) string {
	t.Helper()

	w := postForm(srv, "/todos", form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want %d\nbody: %s", w.Code, http.StatusSeeOther, w.Body.String())
	}

	todos := srv.store.List()
	if len(todos) == 0 {
		t.Fatal("store is empty after create")
	}
	return todos[len(todos)-1].ID
}

func TestNewServer_MissingStore(t *testing.T) {
	_, err := NewServer(ServerConfig{Logger: discardLogger()})
	if err == nil {
		t.Fatal("NewServer(nil store) expected error, got nil")
	}
}

func TestIndex_Empty(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "No todos yet") {
		t.Errorf("empty index missing placeholder text:\n%s", body)
	}
	if !strings.Contains(body, "no todos yet. Create one to get started.") {
		t.Errorf("index missing analysis line:\n%s", body)
	}
}

func TestIndex_ListsInCreationOrder(t *testing.T) {
	srv := newTestServer(t)

	createTodo(t, srv, url.Values{"title": {"first"}})
	createTodo(t, srv, url.Values{"title": {"second"}})

	w := get(srv, "/", nil)
	body := w.Body.String()

	i, j := strings.Index(body, "first"), strings.Index(body, "second")
	if i < 0 || j < 0 {
		t.Fatalf("index missing created todos:\n%s", body)
	}
	if i > j {
		t.Error("todos rendered out of creation order")
	}
	if !strings.Contains(body, "2 total") {
		t.Errorf("stats strip missing total:\n%s", body)
	}
}

func TestIndex_OverdueHighlight(t *testing.T) {
	srv := newTestServer(t)

	createTodo(t, srv, url.Values{"title": {"late report"}, "due_date": {"2020-01-01"}})

	w := get(srv, "/", nil)
	body := w.Body.String()

	if !strings.Contains(body, "is-overdue") {
		t.Errorf("overdue todo not highlighted:\n%s", body)
	}
	if !strings.Contains(body, "1 overdue") {
		t.Errorf("stats strip missing overdue count:\n%s", body)
	}
}

func TestCreate_FlowWithFlash(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(srv, "/todos", url.Values{
		"title":       {"Buy milk"},
		"description": {"Two liters"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}

	// The follow-up GET carries the flash cookie and renders the message.
	next := get(srv, "/", w)
	body := next.Body.String()
	if !strings.Contains(body, "Todo created successfully!") {
		t.Errorf("flash message not rendered:\n%s", body)
	}
	if !strings.Contains(body, "Buy milk") {
		t.Errorf("created todo not listed:\n%s", body)
	}

	// The flash is one-shot: a second render must not repeat it.
	again := get(srv, "/", next)
	if strings.Contains(again.Body.String(), "Todo created successfully!") {
		t.Error("flash message shown twice")
	}
}

func TestCreate_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(srv, "/todos", url.Values{
		"title":       {""},
		"description": {"kept on re-render"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	body := w.Body.String()
	if !strings.Contains(body, "title") {
		t.Errorf("error banner does not name the field:\n%s", body)
	}
	if !strings.Contains(body, "kept on re-render") {
		t.Errorf("submitted values lost on re-render:\n%s", body)
	}

	if srv.store.Len() != 0 {
		t.Errorf("store has %d todos after failed create, want 0", srv.store.Len())
	}
}

func TestDetail(t *testing.T) {
	srv := newTestServer(t)

	id := createTodo(t, srv, url.Values{
		"title":       {"Call the bank"},
		"description": {"About the card"},
		"due_date":    {"2030-06-01"},
	})

	w := get(srv, "/todos/"+id, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{"Call the bank", "About the card", "2030-06-01", "Open"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail page missing %q:\n%s", want, body)
		}
	}
}

func TestDetail_UnknownID(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/todos/no-such-id", nil)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}

	next := get(srv, "/", w)
	if !strings.Contains(next.Body.String(), "not found") {
		t.Errorf("missing not-found flash:\n%s", next.Body.String())
	}
}

func TestEdit_Flow(t *testing.T) {
	srv := newTestServer(t)

	id := createTodo(t, srv, url.Values{"title": {"Draft"}, "description": {"v1"}})

	// The form renders prefilled.
	w := get(srv, "/todos/"+id+"/edit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("edit form status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `value="Draft"`) {
		t.Errorf("edit form not prefilled:\n%s", w.Body.String())
	}

	// Submitting rewrites every field.
	w = postForm(srv, "/todos/"+id, url.Values{
		"title":       {"Final"},
		"description": {"v2"},
		"completed":   {"on"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit submit status = %d, want %d", w.Code, http.StatusSeeOther)
	}

	updated, err := srv.store.Get(id)
	if err != nil {
		t.Fatalf("Get after edit: %v", err)
	}
	if updated.Title != "Final" || updated.Description != "v2" || !updated.Completed {
		t.Errorf("todo after edit = %+v, want Final/v2/completed", updated)
	}
}

func TestDelete_Flow(t *testing.T) {
	srv := newTestServer(t)

	id := createTodo(t, srv, url.Values{"title": {"Short lived"}})

	w := postForm(srv, "/todos/"+id+"/delete", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusSeeOther)
	}

	next := get(srv, "/", w)
	if !strings.Contains(next.Body.String(), "Todo deleted successfully!") {
		t.Errorf("missing delete flash:\n%s", next.Body.String())
	}
	if srv.store.Len() != 0 {
		t.Errorf("store has %d todos after delete, want 0", srv.store.Len())
	}
}

func TestToggle_Flow(t *testing.T) {
	srv := newTestServer(t)

	id := createTodo(t, srv, url.Values{"title": {"Water plants"}})

	w := postForm(srv, "/todos/"+id+"/toggle", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("toggle status = %d, want %d", w.Code, http.StatusSeeOther)
	}

	next := get(srv, "/", w)
	if !strings.Contains(next.Body.String(), "Todo marked as completed!") {
		t.Errorf("missing toggle flash:\n%s", next.Body.String())
	}

	w = postForm(srv, "/todos/"+id+"/toggle", nil)
	next = get(srv, "/", w)
	if !strings.Contains(next.Body.String(), "Todo marked as active!") {
		t.Errorf("missing reopen flash:\n%s", next.Body.String())
	}
}

func TestEscaping(t *testing.T) {
	srv := newTestServer(t)

	createTodo(t, srv, url.Values{"title": {`<script>alert("x")</script>`}})

	w := get(srv, "/", nil)
	body := w.Body.String()

	if strings.Contains(body, "<script>alert") {
		t.Error("todo title rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("escaped title missing from page:\n%s", body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/", nil)

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q, want default-src 'self'", csp)
	}
}

func TestStaticStylesheet(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/static/style.css", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", ct)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv, "/unknown/path", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
