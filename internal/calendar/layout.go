package calendar

import (
	"cmp"
	"slices"
	"time"

	"github.com/nhle/task-calendar/internal/model"
)

// clipped is a task reduced to what lane assignment needs. from and to
// are the clipped bounds truncated to the minute.
type clipped struct {
	id         string
	start, end time.Time
	from, to   time.Time
}

func clipAll(tasks []model.Task, day Day) []clipped {
	out := make([]clipped, len(tasks))
	for i, t := range tasks {
		start, end := Clip(t, day)
		out[i] = clipped{
			id: t.ID, start: start, end: end,
			from: start.Truncate(time.Minute), to: end.Truncate(time.Minute),
		}
	}
	return out
}

// LayoutDay places every task of a day using the default geometry.
func LayoutDay(tasks []model.Task, day Day) map[string]Position {
	return DefaultGeometry().LayoutDay(tasks, day)
}

// LayoutDay places every task of a day, keyed by task ID. Tasks whose
// clipped intervals overlap share the column side by side: each task's
// lane count is one plus the number of tasks it overlaps, and its lane is
// the number of those peers that start earlier (ties broken by lower ID).
// Overlap and start order are decided to the minute, so seconds never
// split tasks that share a minute.
//
// Lane counts are local to each task's own overlap set. In a chain where
// A overlaps B and B overlaps C but A and C are disjoint, A and C get two
// lanes while B gets three, so bands can be narrower than necessary.
func (g Geometry) LayoutDay(tasks []model.Task, day Day) map[string]Position {
	spans := clipAll(tasks, day)
	out := make(map[string]Position, len(tasks))

	for i, t := range tasks {
		self := spans[i]
		overlapping, lane := 0, 0
		for j, other := range spans {
			if j == i || other.id == self.id {
				continue
			}
			if !overlaps(other.from, other.to, self.from, self.to) {
				continue
			}
			overlapping++
			if other.from.Before(self.from) ||
				(other.from.Equal(self.from) && other.id < self.id) {
				lane++
			}
		}

		lanes := float64(overlapping + 1)
		out[t.ID] = Position{
			Top:    g.top(self.start, day),
			Height: g.height(self.start, self.end),
			Width:  100 / lanes,
			Left:   float64(lane) * 100 / lanes,
		}
	}

	return out
}

// SortForRender returns a copy of tasks ordered by clipped start minute and
// then by ID, the order in which lanes are assigned left to right.
func SortForRender(tasks []model.Task, day Day) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		as, _ := Clip(a, day)
		bs, _ := Clip(b, day)
		if c := as.Truncate(time.Minute).Compare(bs.Truncate(time.Minute)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
