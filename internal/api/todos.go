package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/koopa0/todo/internal/todo"
)

// maxBodyBytes caps request bodies on mutating endpoints. Todo payloads
// are a few hundred bytes, so anything near the cap is abuse.
const maxBodyBytes = 64 << 10

// todoHandler serves the /api/v1/todos routes. The now func is swappable
// so tests can pin time-dependent responses (stats, analysis).
type todoHandler struct {
	store  *todo.Store
	logger *slog.Logger
	now    func() time.Time
}

// createRequest is the POST /todos body.
type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"due_date"`
}

// updateRequest is the PUT /todos/{id} body. Pointer fields distinguish
// absent from zero, so a partial update touches only the fields sent.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date"`
}

// list returns every todo in creation order.
func (h *todoHandler) list(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.List())
}

// create validates the payload and stores a new todo. Responds 201 with
// the stored todo, including the assigned ID and timestamps.
func (h *todoHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	due, err := todo.ParseDueDate(req.DueDate)
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}

	created, err := h.store.Create(r.Context(), todo.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     due,
	})
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// get returns a single todo by ID.
func (h *todoHandler) get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := h.store.Get(id)
	if err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// update applies a partial update. Fields absent from the body keep
// their current values; a due_date of "" is treated as absent.
func (h *todoHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	params := todo.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		due, err := todo.ParseDueDate(*req.DueDate)
		if err != nil {
			h.writeStoreError(w, "", err)
			return
		}
		params.DueDate = due
	}

	id := r.PathValue("id")
	updated, err := h.store.Update(r.Context(), id, params)
	if err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// delete removes a todo. Responds 204 with no body.
func (h *todoHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggle flips the completion state and returns the updated todo.
func (h *todoHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := h.store.Toggle(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// stats returns collection statistics computed over the live snapshot.
func (h *todoHandler) stats(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, todo.ComputeStats(h.store.List(), h.now()))
}

// analysis returns the statistics together with a textual summary and
// recommendation.
func (h *todoHandler) analysis(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.store.List()
	now := h.now()
	WriteJSON(w, http.StatusOK, map[string]any{
		"analysis": todo.Analyze(snapshot, now),
		"stats":    todo.ComputeStats(snapshot, now),
	})
}

// decodeBody parses a JSON request body into dst. On failure it writes
// the error response itself and returns false.
func (h *todoHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), h.logger)
			return false
		}
		WriteError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", h.logger)
		return false
	}
	return true
}

// writeStoreError maps store errors onto the wire contract. Unknown
// errors are logged and masked as a generic 500 so clients never see
// raw I/O faults.
func (h *todoHandler) writeStoreError(w http.ResponseWriter, id string, err error) {
	var ve *todo.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, "validation_error", ve.Error(), h.logger)
	case errors.Is(err, todo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found",
			fmt.Sprintf("todo with id %s not found", id), h.logger)
	default:
		h.logger.Error("todo store failure", "error", err, "id", id)
		WriteError(w, http.StatusInternalServerError, "store_error", "todo store unavailable", h.logger)
	}
}
