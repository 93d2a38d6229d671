// Package web provides the server-rendered HTML interface for the todo
// service.
//
// # Pages
//
//   - GET  /{$}               — todo list with a stats strip and analysis line
//   - GET  /todos/new         — create form
//   - POST /todos             — create form submit
//   - GET  /todos/{id}        — todo detail
//   - GET  /todos/{id}/edit   — edit form
//   - POST /todos/{id}        — edit form submit
//   - POST /todos/{id}/delete — delete, then back to the list
//   - POST /todos/{id}/toggle — flip completion, then back to the list
//
// Mutations follow the POST-redirect-GET pattern and leave a one-shot
// flash cookie that the next page render consumes.
//
// Templates and the stylesheet are embedded, so the binary serves the UI
// with no files on disk. All dynamic values pass through html/template
// escaping; view data is precomputed in Go (formatted timestamps, the
// overdue flag), keeping the templates logic-free.
package web
