package todo

import (
	"fmt"
	"strings"
	"time"
)

// Stats summarizes a todo snapshot.
type Stats struct {
	Total           int     `json:"total"`
	CompletedCount  int     `json:"completed_count"`
	IncompleteCount int     `json:"incomplete_count"`
	CompletionRate  float64 `json:"completion_rate"`
	OverdueCount    int     `json:"overdue_count"`
	HasTodos        bool    `json:"has_todos"`
}

// ComputeStats derives Stats from a snapshot. CompletionRate is the raw
// ratio completed/total and zero for an empty snapshot. A todo counts as
// overdue when it is open and its due date lies strictly before now.
func ComputeStats(todos []Todo, now time.Time) Stats {
	st := Stats{Total: len(todos), HasTodos: len(todos) > 0}

	for _, t := range todos {
		if t.Completed {
			st.CompletedCount++
		}
		if t.Overdue(now) {
			st.OverdueCount++
		}
	}

	st.IncompleteCount = st.Total - st.CompletedCount
	if st.Total > 0 {
		st.CompletionRate = float64(st.CompletedCount) / float64(st.Total)
	}
	return st
}

// OldestOpen returns the open todo with the earliest creation time.
// The second result is false when every todo is completed or the snapshot
// is empty.
func OldestOpen(todos []Todo) (Todo, bool) {
	var oldest Todo
	found := false

	for _, t := range todos {
		if t.Completed {
			continue
		}
		if !found || t.CreatedAt.Before(oldest.CreatedAt) {
			oldest = t
			found = true
		}
	}
	return oldest, found
}

// Analyze renders a short narrative over the snapshot: completion rate,
// overdue pressure and a recommendation for what to pick up next. The text
// is fully deterministic so it can be asserted in tests and fed to an LLM
// as grounded context.
func Analyze(todos []Todo, now time.Time) string {
	st := ComputeStats(todos, now)
	if !st.HasTodos {
		return "You have no todos yet. Create one to get started."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s: %d completed (%.1f%%), %d open.",
		st.Total, pluralize(st.Total, "todo", "todos"),
		st.CompletedCount, st.CompletionRate*100, st.IncompleteCount)

	if st.OverdueCount > 0 {
		fmt.Fprintf(&b, " %d %s overdue.",
			st.OverdueCount, pluralize(st.OverdueCount, "is", "are"))
	}

	oldest, ok := OldestOpen(todos)
	switch {
	case st.OverdueCount > 0:
		fmt.Fprintf(&b, " Recommendation: work on the overdue %s first.",
			pluralize(st.OverdueCount, "item", "items"))
	case ok:
		fmt.Fprintf(&b, " Recommendation: start with %q, your oldest open item (created %s).",
			oldest.Title, oldest.CreatedAt.Format("2006-01-02"))
	default:
		b.WriteString(" Everything is done, nothing left to pick up.")
	}

	return b.String()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
