package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// ErrNotFound is wrapped by errors for rows that do not exist.
var ErrNotFound = errors.New("not found")

// TaskFilter controls filtering, sorting, and pagination for task queries.
type TaskFilter struct {
	Category  *string         // category ID, "" for uncategorized, or nil (all)
	Priority  *model.Priority // or nil (all)
	Completed *bool           // or nil (all)
	Query     string          // search title + description
	SortBy    string          // "sort_order", "start_date", "due_date", "priority", "title", "created_at"
	SortDesc  bool
	Limit     int
	Offset    int
}

// Store is the task store the calendar reads snapshots from. Implementations
// are passed explicitly to their users; there is no package-level instance.
type Store interface {
	// === Tasks ===

	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	GetTasksInRange(ctx context.Context, start, end time.Time) ([]model.Task, error)
	ToggleTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, category string, taskIDs []string) error

	// === Subtasks ===

	AddSubtask(ctx context.Context, subtask *model.Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
	ToggleSubtask(ctx context.Context, taskID, subtaskID string) error

	// === Categories ===

	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategories(ctx context.Context) ([]model.Category, error)
	ReorderCategories(ctx context.Context, categoryIDs []string) error

	// DataVersion changes whenever another connection or process commits
	// to the database. Commits made through this store leave it unchanged.
	DataVersion(ctx context.Context) (int64, error)

	Close() error
}
