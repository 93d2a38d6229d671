package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/koopa0/todo/internal/todo"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Timestamp layouts used when building view data.
const (
	displayTimeLayout = "2006-01-02 15:04:05"
	displayDateLayout = "2006-01-02"
)

// parseTemplates builds one template set per page, each sharing base.html.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{"index", "new", "view", "edit"}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

// todoView is a todo prepared for rendering: timestamps formatted, the
// overdue flag computed against a single now.
type todoView struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Overdue     bool
	Due         string // display form, empty when no due date
	CreatedAt   string
	UpdatedAt   string
}

func newTodoView(t todo.Todo, now time.Time) todoView {
	v := todoView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Overdue:     t.Overdue(now),
		CreatedAt:   t.CreatedAt.Format(displayTimeLayout),
		UpdatedAt:   t.UpdatedAt.Format(displayTimeLayout),
	}
	if t.DueDate != nil {
		v.Due = t.DueDate.Format(displayDateLayout)
	}
	return v
}

func todoViews(todos []todo.Todo, now time.Time) []todoView {
	out := make([]todoView, len(todos))
	for i, t := range todos {
		out[i] = newTodoView(t, now)
	}
	return out
}

// statsView is the stats strip rendered above the list.
type statsView struct {
	Total     int
	Completed int
	Open      int
	Overdue   int
	Percent   string // "33%" style completion display
}

func newStatsView(st todo.Stats) statsView {
	return statsView{
		Total:     st.Total,
		Completed: st.CompletedCount,
		Open:      st.IncompleteCount,
		Overdue:   st.OverdueCount,
		Percent:   fmt.Sprintf("%.0f%%", st.CompletionRate*100),
	}
}

// formData carries form field values back into a re-rendered form after a
// failed submit, and prefills the edit form.
type formData struct {
	Title       string
	Description string
	DueDate     string // the date input value, "2006-01-02"
	Completed   bool
}

func formDataFromTodo(t todo.Todo) formData {
	f := formData{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.Format(displayDateLayout)
	}
	return f
}

// Per-page template data.
type indexData struct {
	Flash    *flashMessage
	Todos    []todoView
	Stats    statsView
	Analysis string
}

type newPageData struct {
	Flash *flashMessage
	Form  formData
}

type editPageData struct {
	Flash *flashMessage
	ID    string
	Form  formData
}

type viewPageData struct {
	Flash *flashMessage
	Todo  todoView
}
