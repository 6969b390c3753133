package calview

import (
	"github.com/nhle/task-calendar/internal/calendar"
	"github.com/nhle/task-calendar/internal/model"
)

// cycleCategory advances through all, each category in order, then
// uncategorized, then back to all.
func cycleCategory(current *string, categories []model.Category) *string {
	options := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		options = append(options, c.ID)
	}
	options = append(options, "")
	return cycle(current, options)
}

// cyclePriority advances through all, high, medium, low, then all.
func cyclePriority(current *model.Priority) *model.Priority {
	return cycle(current, []model.Priority{
		model.PriorityHigh,
		model.PriorityMedium,
		model.PriorityLow,
	})
}

// cycleStatus advances through all, pending, overdue, completed, then all.
func cycleStatus(current *calendar.Status) *calendar.Status {
	return cycle(current, []calendar.Status{
		calendar.StatusPending,
		calendar.StatusOverdue,
		calendar.StatusCompleted,
	})
}

// cycle returns the option after current, nil after the last option and
// the first option after nil. An unknown current value restarts at nil.
func cycle[T comparable](current *T, options []T) *T {
	if len(options) == 0 {
		return nil
	}
	if current == nil {
		v := options[0]
		return &v
	}
	for i, o := range options {
		if o == *current && i+1 < len(options) {
			v := options[i+1]
			return &v
		}
	}
	return nil
}

// filterChips labels each active filter field, e.g. "priority:high".
func filterChips(f calendar.Filter, categories []model.Category) []string {
	var parts []string
	if f.Category != nil {
		name := "uncategorized"
		for _, c := range categories {
			if c.ID == *f.Category {
				name = c.Name
				break
			}
		}
		if *f.Category != "" && name == "uncategorized" {
			name = *f.Category
		}
		parts = append(parts, "category:"+name)
	}
	if f.Priority != nil {
		parts = append(parts, "priority:"+string(*f.Priority))
	}
	if f.Status != nil {
		parts = append(parts, "status:"+string(*f.Status))
	}
	if f.Query != "" {
		parts = append(parts, "query:"+f.Query)
	}
	return parts
}
