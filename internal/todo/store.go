package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// lockRetryDelay is the poll interval while waiting for the advisory file lock.
const lockRetryDelay = 50 * time.Millisecond

// Store keeps the whole todo collection in memory and mirrors it to a JSON
// array on disk. Every mutation rewrites the file in full; the in-memory
// slice preserves insertion order and is the order List returns.
type Store struct {
	path   string
	logger *slog.Logger
	flock  *flock.Flock
	now    func() time.Time

	mu    sync.RWMutex
	todos []*Todo
	index map[string]int // id -> position in todos
}

// Open loads the store from path, creating parent directories as needed.
// A missing file yields an empty store; an unreadable one is moved aside to
// path+".corrupt" and the store starts empty with a logged warning.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, &IOError{Op: "load", Path: path, Err: err}
		}
	}

	s := &Store{
		path:   path,
		logger: logger,
		flock:  flock.New(path + ".lock"),
		now:    time.Now,
		index:  make(map[string]int),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns every todo in insertion order. The result is a snapshot;
// mutating it does not affect the store.
func (s *Store) List() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Todo, len(s.todos))
	for i, t := range s.todos {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// Get returns the todo with the given id.
// Returns ErrNotFound if it does not exist.
func (s *Store) Get(id string) (Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	return s.todos[i].clone(), nil
}

// Create validates p, assigns a fresh id and timestamps, appends the todo
// and persists the collection. The stored todo is returned.
func (s *Store) Create(ctx context.Context, p CreateParams) (Todo, error) {
	if err := p.Validate(); err != nil {
		return Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := &Todo{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.DueDate != nil {
		due := p.DueDate.UTC()
		t.DueDate = &due
	}

	s.todos = append(s.todos, t)
	s.index[t.ID] = len(s.todos) - 1

	if err := s.saveLocked(ctx); err != nil {
		s.todos = s.todos[:len(s.todos)-1]
		delete(s.index, t.ID)
		return Todo{}, err
	}

	s.logger.Debug("created todo", "id", t.ID, "title", t.Title)
	return t.clone(), nil
}

// Update applies the non-nil fields of p to the todo with the given id,
// re-validates them and refreshes UpdatedAt. Returns ErrNotFound if the
// todo does not exist.
func (s *Store) Update(ctx context.Context, id string, p UpdateParams) (Todo, error) {
	if err := p.Validate(); err != nil {
		return Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Todo{}, ErrNotFound
	}

	t := s.todos[i]
	prev := t.clone()

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		due := p.DueDate.UTC()
		t.DueDate = &due
	}
	s.touch(t)

	if err := s.saveLocked(ctx); err != nil {
		*t = prev
		return Todo{}, err
	}

	s.logger.Debug("updated todo", "id", id)
	return t.clone(), nil
}

// Delete removes the todo with the given id and persists the collection.
// Returns ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}

	removed := s.todos[i]
	s.todos = slices.Delete(s.todos, i, i+1)
	delete(s.index, id)
	s.reindexFrom(i)

	if err := s.saveLocked(ctx); err != nil {
		s.todos = slices.Insert(s.todos, i, removed)
		s.reindexFrom(i)
		return err
	}

	s.logger.Debug("deleted todo", "id", id)
	return nil
}

// Toggle flips the completed flag and refreshes UpdatedAt.
// Returns ErrNotFound if the todo does not exist.
func (s *Store) Toggle(ctx context.Context, id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Todo{}, ErrNotFound
	}

	t := s.todos[i]
	prev := t.clone()
	t.Completed = !t.Completed
	s.touch(t)

	if err := s.saveLocked(ctx); err != nil {
		*t = prev
		return Todo{}, err
	}

	s.logger.Debug("toggled todo", "id", id, "completed", t.Completed)
	return t.clone(), nil
}

// Sample items created on first run so the UI and tools have something to show.
var sampleTodos = []CreateParams{
	{
		Title:       "Learn Go",
		Description: "Work through the todo REST API and MCP server",
		Completed:   true,
	},
	{
		Title:       "Build Todo App",
		Description: "Wire the web UI, REST API and chat CLI together",
	},
}

// Seed inserts the sample todos when the store is empty and returns how many
// were created. A non-empty store is left untouched.
func (s *Store) Seed(ctx context.Context) (int, error) {
	if s.Len() > 0 {
		return 0, nil
	}

	created := 0
	for _, p := range sampleTodos {
		if _, err := s.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed sample todos: %w", err)
		}
		created++
	}

	s.logger.Info("seeded sample todos", "count", created)
	return created, nil
}

// touch advances UpdatedAt, guaranteeing it moves even when the clock
// resolution would report the same instant twice.
func (s *Store) touch(t *Todo) {
	now := s.now().UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// reindexFrom rebuilds index entries for todos at position i and later.
func (s *Store) reindexFrom(i int) {
	for j := i; j < len(s.todos); j++ {
		s.index[s.todos[j].ID] = j
	}
}

func (s *Store) load(ctx context.Context) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("data file missing, starting empty", "path", s.path)
			return nil
		}
		return &IOError{Op: "load", Path: s.path, Err: err}
	}

	var todos []*Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return s.recoverCorrupt(fmt.Errorf("decode: %w", err))
	}

	index := make(map[string]int, len(todos))
	for i, t := range todos {
		if t == nil || t.ID == "" {
			return s.recoverCorrupt(fmt.Errorf("entry %d has no id", i))
		}
		if _, dup := index[t.ID]; dup {
			return s.recoverCorrupt(fmt.Errorf("duplicate id %s", t.ID))
		}
		index[t.ID] = i
	}

	s.todos = todos
	s.index = index
	s.logger.Debug("loaded todos", "path", s.path, "count", len(todos))
	return nil
}

// recoverCorrupt moves the unreadable data file aside and starts empty, so
// one bad file never bricks the app. The original bytes are preserved in
// the .corrupt backup for manual inspection.
func (s *Store) recoverCorrupt(cause error) error {
	backup := s.path + ".corrupt"
	if err := os.Rename(s.path, backup); err != nil {
		return &IOError{Op: "load", Path: s.path, Err: cause}
	}

	s.logger.Warn("data file corrupted, starting empty",
		"path", s.path,
		"backup", backup,
		"error", cause)

	s.todos = nil
	s.index = make(map[string]int)
	return nil
}

// saveLocked rewrites the backing file from the in-memory collection.
// Callers must hold s.mu. The write goes to a temp file in the same
// directory and is renamed into place, so readers never observe a
// partial file.
func (s *Store) saveLocked(ctx context.Context) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	todos := s.todos
	if todos == nil {
		todos = []*Todo{}
	}
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".todos-*.json")
	if err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) acquireLock(ctx context.Context) (func(), error) {
	locked, err := s.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, &IOError{Op: "lock", Path: s.flock.Path(), Err: err}
	}
	if !locked {
		return nil, &IOError{Op: "lock", Path: s.flock.Path(), Err: errors.New("lock not acquired")}
	}

	return func() {
		if err := s.flock.Unlock(); err != nil {
			s.logger.Warn("release file lock", "path", s.flock.Path(), "error", err)
		}
	}, nil
}
