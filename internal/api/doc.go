// Package api provides the JSON REST API server for the todo service.
//
// # Architecture
//
// The API server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → Logging → RateLimit → Routes
//
// The health probe (/health) bypasses the middleware stack via a
// top-level mux, ensuring it remains fast and unthrottled.
//
// # Endpoints
//
// Health probe (no middleware):
//   - GET /health — returns {"status":"ok"}
//
// Todo CRUD:
//   - GET    /api/v1/todos             — list all todos in creation order
//   - POST   /api/v1/todos             — create a todo (201)
//   - GET    /api/v1/todos/{id}        — get a todo by ID
//   - PUT    /api/v1/todos/{id}        — partial update (absent fields keep their values)
//   - DELETE /api/v1/todos/{id}        — delete a todo (204)
//   - POST   /api/v1/todos/{id}/toggle — flip completion state
//
// Aggregates:
//   - GET /api/v1/todos/stats    — collection statistics
//   - GET /api/v1/todos/analysis — statistics plus a textual summary
//
// # Error Handling
//
// Successful responses carry the resource directly (a todo object, an
// array of todos, a stats object). Errors use an envelope:
//
//	{"error": {"code": "...", "message": "...", "status": ...}}
//
// Codes are stable snake_case strings (not_found, validation_error,
// invalid_json, rate_limited, ...) so clients can branch without
// parsing messages.
//
// # Security
//
// The middleware stack enforces:
//   - Per-IP rate limiting (token bucket, 60 req/min burst)
//   - Security headers (CSP, X-Frame-Options, nosniff, Referrer-Policy)
//   - Request body size limits on mutating endpoints
package api
