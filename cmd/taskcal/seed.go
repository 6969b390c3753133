package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
)

func seedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample set of tasks around today",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := flags.open()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := seed(cmd.Context(), s, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tasks\n", n)
			return nil
		},
	}
}

// sampleTasks returns demo tasks placed relative to the day containing now:
// overlapping meetings today, an overdue task yesterday, a completed one, and
// a conference spanning three days.
func sampleTasks(now time.Time) []model.Task {
	today := calendar.DayOf(now).Start
	at := func(dayOffset, hour, minute int) time.Time {
		return today.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	return []model.Task{
		{
			Title:     "Team standup",
			Category:  "work",
			Priority:  model.PriorityMedium,
			StartDate: at(0, 9, 0),
			DueDate:   at(0, 9, 15),
		},
		{
			Title:       "Design review",
			Description: "Walk through the calendar layout changes.",
			Category:    "work",
			Priority:    model.PriorityHigh,
			StartDate:   at(0, 10, 0),
			DueDate:     at(0, 11, 30),
			Subtasks: []model.Subtask{
				{Title: "Collect screenshots", StartDate: at(0, 8, 0), DueDate: at(0, 9, 0)},
				{Title: "Share agenda", StartDate: at(0, 9, 30), DueDate: at(0, 10, 0)},
			},
		},
		{
			Title:     "Code review",
			Category:  "work",
			Priority:  model.PriorityMedium,
			StartDate: at(0, 10, 30),
			DueDate:   at(0, 11, 0),
		},
		{
			Title:     "Gym",
			Category:  "personal",
			Priority:  model.PriorityLow,
			StartDate: at(0, 18, 0),
			DueDate:   at(0, 19, 0),
		},
		{
			Title:     "Write quarterly report",
			Category:  "work",
			Priority:  model.PriorityHigh,
			StartDate: at(-1, 13, 0),
			DueDate:   at(-1, 15, 0),
		},
		{
			Title:     "Dentist",
			Category:  "personal",
			Priority:  model.PriorityMedium,
			StartDate: at(-2, 8, 30),
			DueDate:   at(-2, 9, 30),
			Completed: true,
		},
		{
			Title:       "Conference",
			Description: "Three days, badge pickup at the front desk.",
			Category:    "work",
			Priority:    model.PriorityMedium,
			StartDate:   at(1, 9, 0),
			DueDate:     at(3, 17, 0),
		},
	}
}

// seed inserts the sample tasks and returns how many were created.
func seed(ctx context.Context, s store.Store, now time.Time) (int, error) {
	tasks := sampleTasks(now)
	for i := range tasks {
		if err := s.CreateTask(ctx, &tasks[i]); err != nil {
			return i, fmt.Errorf("seeding %q: %w", tasks[i].Title, err)
		}
	}
	return len(tasks), nil
}
