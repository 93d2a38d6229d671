// Package todo holds the todo domain model and its flat-file store.
//
// A [Todo] is a standalone item with no relationships. The [Store] keeps the
// whole collection in memory, in insertion order, and rewrites the backing
// JSON array on every mutation using atomic writes (temp file + rename) with
// file locking via [github.com/gofrs/flock].
//
// # Validation
//
// Title and description limits are enforced on create and on update.
// Violations are reported as [*ValidationError] with the offending field.
// Due dates are normalized to time.Time here, at the store boundary, so no
// other layer parses date strings.
//
// # Concurrency
//
// Store is safe for concurrent use within one process. The advisory file
// lock keeps two processes from interleaving partial writes, but the last
// full snapshot still wins; this store is deliberately not a multi-writer
// database.
package todo
