package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/koopa0/todo/internal/todo"
)

// index renders the todo list with the stats strip and analysis line.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.List()
	now := s.now()

	s.render(w, http.StatusOK, "index", indexData{
		Flash:    takeFlash(w, r),
		Todos:    todoViews(snapshot, now),
		Stats:    newStatsView(todo.ComputeStats(snapshot, now)),
		Analysis: todo.Analyze(snapshot, now),
	})
}

// newForm renders an empty create form.
func (s *Server) newForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "new", newPageData{Flash: takeFlash(w, r)})
}

// create handles the create form submit.
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseTodoForm(w, r)
	if !ok {
		return
	}

	due, err := todo.ParseDueDate(form.DueDate)
	if err == nil {
		_, err = s.store.Create(r.Context(), todo.CreateParams{
			Title:       form.Title,
			Description: form.Description,
			Completed:   form.Completed,
			DueDate:     due,
		})
	}
	if err != nil {
		status, msg := s.formErrorStatus(err)
		s.render(w, status, "new", newPageData{
			Flash: &flashMessage{Category: flashError, Message: msg},
			Form:  form,
		})
		return
	}

	setFlash(w, flashSuccess, "Todo created successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// detail renders a single todo.
func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.store.Get(id)
	if err != nil {
		s.redirectStoreError(w, r, id, err)
		return
	}

	s.render(w, http.StatusOK, "view", viewPageData{
		Flash: takeFlash(w, r),
		Todo:  newTodoView(t, s.now()),
	})
}

// editForm renders the edit form prefilled with the current values.
func (s *Server) editForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.store.Get(id)
	if err != nil {
		s.redirectStoreError(w, r, id, err)
		return
	}

	s.render(w, http.StatusOK, "edit", editPageData{
		Flash: takeFlash(w, r),
		ID:    t.ID,
		Form:  formDataFromTodo(t),
	})
}

// edit handles the edit form submit. The form always posts every field,
// so this is a full update rather than a partial one.
func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, ok := s.parseTodoForm(w, r)
	if !ok {
		return
	}

	due, err := todo.ParseDueDate(form.DueDate)
	if err == nil {
		_, err = s.store.Update(r.Context(), id, todo.UpdateParams{
			Title:       &form.Title,
			Description: &form.Description,
			Completed:   &form.Completed,
			DueDate:     due,
		})
	}
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			s.redirectStoreError(w, r, id, err)
			return
		}
		status, msg := s.formErrorStatus(err)
		s.render(w, status, "edit", editPageData{
			Flash: &flashMessage{Category: flashError, Message: msg},
			ID:    id,
			Form:  form,
		})
		return
	}

	setFlash(w, flashSuccess, "Todo updated successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// delete removes a todo and returns to the list.
func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.redirectStoreError(w, r, id, err)
		return
	}

	setFlash(w, flashSuccess, "Todo deleted successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// toggle flips completion and returns to the list.
func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.store.Toggle(r.Context(), id)
	if err != nil {
		s.redirectStoreError(w, r, id, err)
		return
	}

	state := "active"
	if t.Completed {
		state = "completed"
	}
	setFlash(w, flashSuccess, fmt.Sprintf("Todo marked as %s!", state))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseTodoForm reads the shared create/edit form fields. On a parse
// failure it responds itself and returns ok=false.
func (s *Server) parseTodoForm(w http.ResponseWriter, r *http.Request) (formData, bool) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, flashError, "The form could not be read.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return formData{}, false
	}
	return formData{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
		Completed:   r.PostFormValue("completed") == "on",
	}, true
}

// formErrorStatus maps a failed submit to a response status and a message
// for the form's error banner.
func (s *Server) formErrorStatus(err error) (int, string) {
	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, "Error: " + ve.Error()
	}
	s.logger.Error("todo store failure", "error", err)
	return http.StatusInternalServerError, "Error: the todo could not be saved."
}

// redirectStoreError flashes the failure and returns to the list, the
// same recovery every page uses for unknown IDs.
func (s *Server) redirectStoreError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, todo.ErrNotFound) {
		setFlash(w, flashError, fmt.Sprintf("Error: Todo with ID %s not found", id))
	} else {
		s.logger.Error("todo store failure", "error", err, "id", id)
		setFlash(w, flashError, "Error: the todo store is unavailable.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
