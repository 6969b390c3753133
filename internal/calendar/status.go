package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// Status is the derived display classification of a task.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusPending   Status = "pending"
)

// Statuses lists the statuses in filter-menu order.
var Statuses = []Status{StatusCompleted, StatusPending, StatusOverdue}

// Classify derives a task's status at now. Completion wins over the due
// date: a task finished late is still completed, never overdue.
func Classify(task model.Task, now time.Time) Status {
	if task.Completed {
		return StatusCompleted
	}
	if task.DueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusCompleted, StatusOverdue, StatusPending:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
