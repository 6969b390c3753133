package app

import (
	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
	"github.com/nhle/task-calendar/internal/ui/calview"
)

// GeometryFromConfig converts the calendar section of the configuration
// into layout geometry.
func GeometryFromConfig(cfg model.CalendarConfig) calendar.Geometry {
	return calendar.Geometry{
		HourHeight:    cfg.HourHeight,
		MinTaskHeight: cfg.MinTaskHeight,
	}
}

// CalendarOptions builds the calendar view options from cfg. An unknown
// default view falls back to the week view.
func CalendarOptions(cfg *model.AppConfig) calview.Options {
	view, err := calendar.ParseView(cfg.Calendar.DefaultView)
	if err != nil {
		view = calendar.ViewWeek
	}
	return calview.Options{
		Geometry:    GeometryFromConfig(cfg.Calendar),
		WeekStart:   cfg.WeekStart(),
		RowsPerHour: cfg.Calendar.RowsPerHour,
		View:        view,
	}
}
