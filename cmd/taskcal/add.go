package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/store"
	"github.com/nhle/task-calendar/internal/ui/taskform"
)

type addOptions struct {
	title       string
	description string
	start       string
	due         string
	priority    string
	category    string
}

func addCmd(flags *rootFlags) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task without opening the calendar",
		Example: `  taskcal add --title "Design review" --start "2025-04-10 10:00" --due "2025-04-10 11:30"
  taskcal add --title Conference --start "2025-04-14 09:00" --due "2025-04-16 17:00" --category work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := flags.open()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := opts.task(cmd.Context(), s, time.Local)
			if err != nil {
				return err
			}
			if err := s.CreateTask(cmd.Context(), &task); err != nil {
				return fmt.Errorf("adding task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s → %s)\n",
				task.ID, task.Title,
				task.StartDate.In(time.Local).Format(taskform.DateTimeLayout),
				task.DueDate.In(time.Local).Format(taskform.DateTimeLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.description, "description", "", "Task description")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time, YYYY-MM-DD HH:MM (required)")
	cmd.Flags().StringVar(&opts.due, "due", "", "Due time, YYYY-MM-DD HH:MM (defaults to start + 1h)")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", string(model.PriorityMedium), "Priority (low, medium, high)")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Category id or name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// task validates the options and builds the task they describe. Times are
// read in loc.
func (o *addOptions) task(ctx context.Context, s store.Store, loc *time.Location) (model.Task, error) {
	title := strings.TrimSpace(o.title)
	if title == "" {
		return model.Task{}, fmt.Errorf("--title must not be empty")
	}

	start, err := time.ParseInLocation(taskform.DateTimeLayout, strings.TrimSpace(o.start), loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("parsing --start %q: %w", o.start, err)
	}
	due := start.Add(time.Hour)
	if o.due != "" {
		due, err = time.ParseInLocation(taskform.DateTimeLayout, strings.TrimSpace(o.due), loc)
		if err != nil {
			return model.Task{}, fmt.Errorf("parsing --due %q: %w", o.due, err)
		}
	}
	if due.Before(start) {
		return model.Task{}, fmt.Errorf("--due %s is before --start %s", o.due, o.start)
	}

	priority := model.Priority(strings.ToLower(o.priority))
	if !priority.Valid() {
		return model.Task{}, fmt.Errorf("unknown priority %q", o.priority)
	}

	category, err := resolveCategory(ctx, s, o.category)
	if err != nil {
		return model.Task{}, err
	}

	return model.Task{
		Title:       title,
		Description: o.description,
		StartDate:   start,
		DueDate:     due,
		Priority:    priority,
		Category:    category,
	}, nil
}

// resolveCategory maps a category id or a case-insensitive name to its id.
func resolveCategory(ctx context.Context, s store.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	categories, err := s.GetCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("listing categories: %w", err)
	}
	for _, c := range categories {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", ref)
}
