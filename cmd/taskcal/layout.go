package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/task-calendar/internal/app"
	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/theme"
)

var layoutHeaders = []string{"Day", "Task", "Status", "Top", "Height", "Left", "Width"}

// layoutOptions are the filter and ordering flags of the layout command.
type layoutOptions struct {
	status   string
	priority string
	query    string
	sort     string
}

// filter builds the calendar filter and row ordering from the flags. An
// empty sort keeps drawing order.
func (o *layoutOptions) filter() (calendar.Filter, calendar.SortBy, error) {
	f := calendar.Filter{Query: o.query}
	if o.status != "" {
		st, err := calendar.ParseStatus(o.status)
		if err != nil {
			return f, "", fmt.Errorf("--status: %w", err)
		}
		f.Status = &st
	}
	if o.priority != "" {
		p := model.Priority(strings.ToLower(o.priority))
		if !p.Valid() {
			return f, "", fmt.Errorf("--priority must be low, medium or high, got %q", o.priority)
		}
		f.Priority = &p
	}
	var by calendar.SortBy
	if o.sort != "" {
		var err error
		if by, err = calendar.ParseSortBy(o.sort); err != nil {
			return f, "", fmt.Errorf("--sort: %w", err)
		}
	}
	return f, by, nil
}

func layoutCmd(flags *rootFlags) *cobra.Command {
	var date, view string
	opts := &layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed block position of every task in a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := flags.open()
			if err != nil {
				return err
			}
			defer s.Close()

			f, by, err := opts.filter()
			if err != nil {
				return err
			}

			if view == "" {
				view = cfg.Calendar.DefaultView
			}
			v, err := calendar.ParseView(view)
			if err != nil {
				return err
			}

			at := time.Now()
			if date != "" {
				at, err = time.ParseInLocation(time.DateOnly, date, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --date %q: %w", date, err)
				}
			}

			w := v.Window(at, cfg.WeekStart())
			tasks, err := s.GetTasksInRange(cmd.Context(), w.Start, w.End)
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}

			rows := layoutRows(tasks, w, app.GeometryFromConfig(cfg.Calendar), f, by, time.Now())
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks in %s\n", v.Title(at, cfg.WeekStart()))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.Title(at, cfg.WeekStart()))
			fmt.Fprintln(cmd.OutOrStdout(), renderLayoutTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the period, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&view, "view", "", "Period: day, week or month (defaults to calendar.default_view)")
	cmd.Flags().StringVar(&opts.status, "status", "", "Only tasks with this status: pending, overdue or completed")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "Only tasks with this priority: low, medium or high")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Only tasks whose title contains this text")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Row order within a day: due-asc, due-desc, priority-desc or priority-asc")

	return cmd
}

// layoutRows lists, day by day, the block position of each task passing f.
// Rows follow drawing order unless by names another ordering.
func layoutRows(
	tasks []model.Task,
	w calendar.Window,
	g calendar.Geometry,
	f calendar.Filter,
	by calendar.SortBy,
	now time.Time,
) [][]string {
	var rows [][]string
	for _, day := range w.Days() {
		dayTasks := calendar.SelectTasksForInterval(tasks, day.Start, day.End, f, now)
		if len(dayTasks) == 0 {
			continue
		}
		positions := g.LayoutDay(dayTasks, day)
		ordered := calendar.SortForRender(dayTasks, day)
		if by != "" {
			ordered = calendar.SortTasks(dayTasks, by)
		}
		for _, t := range ordered {
			pos := positions[t.ID]
			rows = append(rows, []string{
				day.Start.Format("Mon Jan 2"),
				t.Title,
				string(calendar.Classify(t, now)),
				fmt.Sprintf("%.1f", pos.Top),
				fmt.Sprintf("%.1f", pos.Height),
				fmt.Sprintf("%.2f%%", pos.Left),
				fmt.Sprintf("%.2f%%", pos.Width),
			})
		}
	}
	return rows
}

func renderLayoutTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.GridLineStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col >= 3 {
				return s.Align(lipgloss.Right)
			}
			return s
		}).
		Headers(layoutHeaders...).
		Rows(rows...).
		Render()
}
