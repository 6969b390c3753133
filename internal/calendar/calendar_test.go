package calendar

import (
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// at returns 2025-04-<day> hh:mm in UTC.
func at(day, hh, mm int) time.Time {
	return time.Date(2025, time.April, day, hh, mm, 0, 0, time.UTC)
}

func task(id string, start, due time.Time) model.Task {
	return model.Task{
		ID:        id,
		Title:     "Task " + id,
		StartDate: start,
		DueDate:   due,
		Priority:  model.PriorityMedium,
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func approx(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
