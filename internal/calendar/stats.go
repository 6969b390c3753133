package calendar

import (
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// Stats counts tasks by status.
type Stats struct {
	Total     int
	Completed int
	Overdue   int
	Pending   int

	// CompletionRate is Completed/Total in [0, 1], or 0 with no tasks.
	CompletionRate float64
}

// Summarize classifies every task at now and tallies the result.
func Summarize(tasks []model.Task, now time.Time) Stats {
	var s Stats
	for _, t := range tasks {
		switch Classify(t, now) {
		case StatusCompleted:
			s.Completed++
		case StatusOverdue:
			s.Overdue++
		default:
			s.Pending++
		}
	}
	s.Total = len(tasks)
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	return s
}
