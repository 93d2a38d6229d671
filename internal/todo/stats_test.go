package todo

import (
	"strings"
	"testing"
	"time"
)

var statsNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// mkTodo builds a snapshot entry without going through a Store.
func mkTodo(title string, completed bool, createdAt time.Time, due *time.Time) Todo {
	return Todo{
		ID:        "id-" + title,
		Title:     title,
		Completed: completed,
		DueDate:   due,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, statsNow)

	if st.Total != 0 || st.CompletedCount != 0 || st.OverdueCount != 0 {
		t.Errorf("ComputeStats(nil) = %+v, want all zero counts", st)
	}
	if st.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", st.CompletionRate)
	}
	if st.HasTodos {
		t.Error("HasTodos = true, want false")
	}
}

func TestComputeStats_Mixed(t *testing.T) {
	yesterday := statsNow.Add(-24 * time.Hour)
	tomorrow := statsNow.Add(24 * time.Hour)

	todos := []Todo{
		mkTodo("done", true, statsNow.Add(-3*time.Hour), nil),
		mkTodo("late", false, statsNow.Add(-2*time.Hour), datePtr(yesterday)),
		mkTodo("later", false, statsNow.Add(-1*time.Hour), datePtr(tomorrow)),
	}

	st := ComputeStats(todos, statsNow)

	if st.Total != 3 {
		t.Errorf("Total = %d, want 3", st.Total)
	}
	if st.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", st.CompletedCount)
	}
	if st.IncompleteCount != 2 {
		t.Errorf("IncompleteCount = %d, want 2", st.IncompleteCount)
	}
	if want := 1.0 / 3.0; st.CompletionRate != want {
		t.Errorf("CompletionRate = %v, want %v", st.CompletionRate, want)
	}
	if st.OverdueCount != 1 {
		t.Errorf("OverdueCount = %d, want 1", st.OverdueCount)
	}
	if !st.HasTodos {
		t.Error("HasTodos = false, want true")
	}
}

func TestComputeStats_OverdueRules(t *testing.T) {
	yesterday := statsNow.Add(-24 * time.Hour)

	tests := []struct {
		name string
		todo Todo
		want int
	}{
		{
			name: "due exactly now is not overdue",
			todo: mkTodo("edge", false, yesterday, datePtr(statsNow)),
			want: 0,
		},
		{
			name: "completed past due is not overdue",
			todo: mkTodo("done late", true, yesterday, datePtr(yesterday)),
			want: 0,
		},
		{
			name: "no due date is not overdue",
			todo: mkTodo("open ended", false, yesterday, nil),
			want: 0,
		},
		{
			name: "open past due is overdue",
			todo: mkTodo("late", false, yesterday, datePtr(yesterday)),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ComputeStats([]Todo{tt.todo}, statsNow)
			if st.OverdueCount != tt.want {
				t.Errorf("OverdueCount = %d, want %d", st.OverdueCount, tt.want)
			}
		})
	}
}

func TestOldestOpen(t *testing.T) {
	todos := []Todo{
		mkTodo("newest", false, statsNow.Add(-1*time.Hour), nil),
		mkTodo("oldest done", true, statsNow.Add(-10*time.Hour), nil),
		mkTodo("oldest open", false, statsNow.Add(-5*time.Hour), nil),
	}

	got, ok := OldestOpen(todos)
	if !ok {
		t.Fatal("OldestOpen() ok = false, want true")
	}
	if got.Title != "oldest open" {
		t.Errorf("OldestOpen() = %q, want %q", got.Title, "oldest open")
	}
}

func TestOldestOpen_AllCompleted(t *testing.T) {
	todos := []Todo{
		mkTodo("a", true, statsNow.Add(-2*time.Hour), nil),
		mkTodo("b", true, statsNow.Add(-1*time.Hour), nil),
	}

	if _, ok := OldestOpen(todos); ok {
		t.Error("OldestOpen() ok = true, want false when everything is completed")
	}
}

func TestAnalyze(t *testing.T) {
	yesterday := statsNow.Add(-24 * time.Hour)

	tests := []struct {
		name         string
		todos        []Todo
		wantContains []string
	}{
		{
			name:         "empty",
			todos:        nil,
			wantContains: []string{"no todos yet"},
		},
		{
			name: "overdue takes priority",
			todos: []Todo{
				mkTodo("done", true, statsNow.Add(-3*time.Hour), nil),
				mkTodo("late", false, statsNow.Add(-2*time.Hour), datePtr(yesterday)),
				mkTodo("later", false, statsNow.Add(-1*time.Hour), nil),
			},
			wantContains: []string{
				"3 todos",
				"1 completed (33.3%)",
				"2 open",
				"1 is overdue",
				"work on the overdue item first",
			},
		},
		{
			name: "oldest open recommended",
			todos: []Todo{
				mkTodo("fresh", false, statsNow.Add(-1*time.Hour), nil),
				mkTodo("stale", false, statsNow.Add(-48*time.Hour), nil),
			},
			wantContains: []string{
				"2 todos",
				`start with "stale"`,
				"oldest open item",
			},
		},
		{
			name: "all done",
			todos: []Todo{
				mkTodo("a", true, statsNow.Add(-2*time.Hour), nil),
			},
			wantContains: []string{"1 todo", "Everything is done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.todos, statsNow)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Analyze() = %q, want it to contain %q", got, want)
				}
			}
		})
	}
}
