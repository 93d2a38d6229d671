package todo

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Field limits enforced on create and update.
const (
	// MinTitleLen is the minimum title length in characters.
	MinTitleLen = 1

	// MaxTitleLen is the maximum title length in characters.
	MaxTitleLen = 100

	// MaxDescriptionLen is the maximum description length in characters.
	MaxDescriptionLen = 500
)

// Todo is a single item in the collection.
//
// ID and both timestamps are assigned by the Store; ID never changes after
// creation. UpdatedAt is refreshed on every mutation and is never earlier
// than CreatedAt. DueDate is optional and serializes as null when unset.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Overdue reports whether the todo is open with a due date strictly before now.
func (t Todo) Overdue(now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(now)
}

// clone returns a copy that shares no pointers with the receiver.
func (t Todo) clone() Todo {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// CreateParams carries the caller-supplied fields for a new todo.
type CreateParams struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
}

// Validate checks the field limits. Returns a *ValidationError on the first
// violation.
func (p CreateParams) Validate() error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}
	return validateDescription(p.Description)
}

// UpdateParams carries a partial update. Nil fields are left untouched,
// so an update cannot clear a due date once set.
type UpdateParams struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// Validate checks the limits for the fields that are present.
func (p UpdateParams) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		return validateDescription(*p.Description)
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLen {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if n > MaxTitleLen {
		return &ValidationError{
			Field:  "title",
			Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLen),
		}
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLen),
		}
	}
	return nil
}

// Accepted due date layouts, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate normalizes a user-supplied due date string.
//
// Accepts RFC 3339 timestamps, zone-less timestamps (interpreted as UTC),
// and bare dates (midnight UTC). An empty string means no due date and
// returns (nil, nil). Anything else is a *ValidationError.
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &ValidationError{
		Field:  "due_date",
		Reason: fmt.Sprintf("unrecognized date %q, want RFC 3339 or YYYY-MM-DD", s),
	}
}
