package model

import "time"

// Priority is the importance level of a task or subtask.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Weight returns the sort weight of the priority (higher is more important).
// Unknown priorities weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// Task is a timed work item shown on the calendar.
type Task struct {
	// ID is the unique identifier, also used as the stable tie-breaker
	// when laying out tasks that start at the same instant.
	ID string `json:"id" db:"id"`

	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Completed   bool   `json:"completed" db:"completed"`

	// StartDate and DueDate bound the task's active time range. StartDate
	// is expected to be no later than DueDate, but this is not enforced.
	StartDate time.Time `json:"start_date" db:"start_date"`
	DueDate   time.Time `json:"due_date" db:"due_date"`

	Priority Priority `json:"priority" db:"priority"`

	// Category is the category ID, or empty when uncategorized.
	Category string `json:"category" db:"category"`

	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Subtasks is populated by store queries; ordered by SortOrder.
	Subtasks []Subtask `json:"subtasks,omitempty" db:"-"`
}

// IsMultiDay reports whether the task starts and ends on different
// calendar days in the start date's location.
func (t Task) IsMultiDay() bool {
	due := t.DueDate.In(t.StartDate.Location())
	y1, m1, d1 := t.StartDate.Date()
	y2, m2, d2 := due.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

// SubtaskProgress returns the number of completed subtasks and the total.
func (t Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Subtask is a child entry of a Task. Its lifecycle is bound to the
// parent (CASCADE delete).
type Subtask struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	Priority    Priority  `json:"priority" db:"priority"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
}
