package calendar

import (
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// SelectTasksInRange returns the tasks whose [StartDate, DueDate] interval
// intersects [start, end]. Both bounds are inclusive, so a task touching
// the window at a single instant is selected. Input order is preserved.
func SelectTasksInRange(tasks []model.Task, start, end time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if overlaps(t.StartDate, t.DueDate, start, end) {
			out = append(out, t)
		}
	}
	return out
}

// TasksForDay returns the tasks visible on day.
func TasksForDay(tasks []model.Task, day Day) []model.Task {
	return SelectTasksInRange(tasks, day.Start, day.End)
}

// overlaps is the closed-interval intersection test shared by range
// selection and lane assignment.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
