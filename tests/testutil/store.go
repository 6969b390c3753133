package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// MustCreateTask inserts a task spanning [start, due] and returns it with
// its assigned ID.
func MustCreateTask(
	t *testing.T,
	s store.Store,
	title string,
	start, due time.Time,
) model.Task {
	t.Helper()

	task := model.Task{
		Title:     title,
		StartDate: start,
		DueDate:   due,
		Priority:  model.PriorityMedium,
	}
	if err := s.CreateTask(context.Background(), &task); err != nil {
		t.Fatalf("creating task %q: %v", title, err)
	}
	return task
}
