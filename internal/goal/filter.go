package goal

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type Filter string

const (
	FilterAll       Filter = ""
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

func (f Filter) Match(g *Goal, now time.Time) bool {
	switch f {
	case FilterActive:
		return !g.IsCompleted() && !g.IsOverdue(now)
	case FilterCompleted:
		return g.IsCompleted()
	case FilterOverdue:
		return g.IsOverdue(now)
	}

	return true
}

func Apply(goals []*Goal, f Filter, now time.Time) []*Goal {
	out := make([]*Goal, 0, len(goals))
	for _, g := range goals {
		if f.Match(g, now) {
			out = append(out, g)
		}
	}

	return out
}

type SortBy string

const (
	SortDeadline SortBy = "deadline"
	SortProgress SortBy = "progress"
	SortCreated  SortBy = "created"
	SortName     SortBy = "name"
)

// Sort orders goals in place, nearest deadline first by default.
func Sort(goals []*Goal, by SortBy) {
	switch by {
	case SortProgress:
		slices.SortStableFunc(goals, func(a, b *Goal) int {
			return cmp.Compare(b.ClampedProgress(), a.ClampedProgress())
		})
	case SortCreated:
		slices.SortStableFunc(goals, func(a, b *Goal) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortName:
		slices.SortStableFunc(goals, func(a, b *Goal) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	default:
		slices.SortStableFunc(goals, func(a, b *Goal) int {
			return a.Deadline.Compare(b.Deadline)
		})
	}
}
