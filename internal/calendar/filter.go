package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// Filter narrows a task set. Nil fields and an empty Query match all tasks.
type Filter struct {
	Category *string
	Priority *model.Priority
	Status   *Status

	// Query is matched case-insensitively against the task title.
	Query string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Category == nil && f.Priority == nil && f.Status == nil && f.Query == ""
}

// Match reports whether task passes every set field of the filter. Status
// is derived at now.
func (f Filter) Match(task model.Task, now time.Time) bool {
	if f.Category != nil && task.Category != *f.Category {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && Classify(task, now) != *f.Status {
		return false
	}
	if f.Query != "" &&
		!strings.Contains(strings.ToLower(task.Title), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// FilterTasks returns the tasks matching f, preserving order.
func FilterTasks(tasks []model.Task, f Filter, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// SelectTasksForInterval combines range selection with a filter.
func SelectTasksForInterval(
	tasks []model.Task,
	start, end time.Time,
	f Filter,
	now time.Time,
) []model.Task {
	return FilterTasks(SelectTasksInRange(tasks, start, end), f, now)
}

// SortBy is a task list ordering.
type SortBy string

const (
	SortDueAsc       SortBy = "due-asc"
	SortDueDesc      SortBy = "due-desc"
	SortPriorityDesc SortBy = "priority-desc"
	SortPriorityAsc  SortBy = "priority-asc"
)

// SortOrders lists the orderings SortTasks understands.
var SortOrders = []SortBy{SortDueAsc, SortDueDesc, SortPriorityDesc, SortPriorityAsc}

// ParseSortBy parses an ordering name, case-insensitively.
func ParseSortBy(s string) (SortBy, error) {
	by := SortBy(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(SortOrders, by) {
		return "", fmt.Errorf("unknown sort order %q", s)
	}
	return by, nil
}

// SortTasks returns a stably sorted copy of tasks. Unknown orderings
// (including the empty string) fall back to SortDueDesc.
func SortTasks(tasks []model.Task, by SortBy) []model.Task {
	out := slices.Clone(tasks)
	var cmp func(a, b model.Task) int
	switch by {
	case SortDueAsc:
		cmp = func(a, b model.Task) int { return a.DueDate.Compare(b.DueDate) }
	case SortPriorityDesc:
		cmp = func(a, b model.Task) int { return b.Priority.Weight() - a.Priority.Weight() }
	case SortPriorityAsc:
		cmp = func(a, b model.Task) int { return a.Priority.Weight() - b.Priority.Weight() }
	default:
		cmp = func(a, b model.Task) int { return b.DueDate.Compare(a.DueDate) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}
