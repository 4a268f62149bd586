package task

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// DeadlineWindow narrows tasks by when they are due, relative to the start of today.
type DeadlineWindow string

const (
	DeadlineAny     DeadlineWindow = ""
	DeadlineOverdue DeadlineWindow = "overdue"
	DeadlineToday   DeadlineWindow = "today"
	DeadlineWeek    DeadlineWindow = "week"
	DeadlineNone    DeadlineWindow = "nodate"
)

type Filter struct {
	Priority *Priority
	Status   *Status
	Deadline DeadlineWindow
	Search   string
}

func (f Filter) Match(t *Task, now time.Time) bool {
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}

	if f.Status != nil && t.Status != *f.Status {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}

	today := startOfDay(now)

	switch f.Deadline {
	case DeadlineOverdue:
		return t.Deadline != nil && t.Deadline.Before(today) && !t.IsDone()
	case DeadlineToday:
		return t.Deadline != nil && sameDay(today, *t.Deadline)
	case DeadlineWeek:
		return t.Deadline != nil && !t.Deadline.Before(today) && !t.Deadline.After(today.AddDate(0, 0, 7))
	case DeadlineNone:
		return t.Deadline == nil
	}

	return true
}

// Apply returns the tasks matching f, preserving their order.
func Apply(tasks []*Task, f Filter, now time.Time) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}

	return out
}

type SortBy string

const (
	SortCreated  SortBy = "created"
	SortPriority SortBy = "priority"
	SortDeadline SortBy = "deadline"
	SortTitle    SortBy = "title"
)

// Sort orders tasks in place. Newest first is the default; tasks without a deadline sort last.
func Sort(tasks []*Task, by SortBy) {
	switch by {
	case SortPriority:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return cmp.Compare(b.Priority.weight(), a.Priority.weight())
		})
	case SortDeadline:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			switch {
			case a.Deadline == nil && b.Deadline == nil:
				return 0
			case a.Deadline == nil:
				return 1
			case b.Deadline == nil:
				return -1
			}

			return a.Deadline.Compare(*b.Deadline)
		})
	case SortTitle:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
