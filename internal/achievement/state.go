package achievement

import (
	"slices"
	"time"
)

// Streaks tracks consecutive days and ISO weeks with activity.
type Streaks struct {
	Daily        int        `json:"daily"`
	Weekly       int        `json:"weekly"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// State is one user's achievement progress. Unlocked only grows and TotalPoints with it.
type State struct {
	Unlocked    []string `json:"unlocked"`
	TotalPoints int      `json:"totalPoints"`
	Level       int      `json:"currentLevel"`
	Streaks     Streaks  `json:"streaks"`
}

func NewState() State {
	return State{Unlocked: []string{}, Level: 1}
}

func (s *State) Has(id string) bool {
	return slices.Contains(s.Unlocked, id)
}

// Normalize repairs a state read from storage: nil slices, negative points and a stale level cache.
func (s *State) Normalize() {
	if s.Unlocked == nil {
		s.Unlocked = []string{}
	}

	s.TotalPoints = max(s.TotalPoints, 0)
	s.Level = Level(s.TotalPoints)
}

func (s State) Clone() State {
	c := s
	c.Unlocked = slices.Clone(s.Unlocked)

	if s.Streaks.LastActivity != nil {
		c.Streaks.LastActivity = new(*s.Streaks.LastActivity)
	}

	return c
}

// touch records activity today, extending or resetting the streaks.
func (s *State) touch(now time.Time) {
	today := civilDay(now)

	if s.Streaks.LastActivity == nil {
		s.Streaks.Daily = 1
		s.Streaks.Weekly = 1
		s.Streaks.LastActivity = new(today)

		return
	}

	last := civilDay(*s.Streaks.LastActivity)

	switch days := daysBetween(last, today); {
	case days == 1:
		s.Streaks.Daily++
	case days > 1:
		s.Streaks.Daily = 1
	}

	switch weeks := daysBetween(isoWeekStart(last), isoWeekStart(today)) / 7; {
	case weeks == 1:
		s.Streaks.Weekly++
	case weeks > 1:
		s.Streaks.Weekly = 1
	}

	s.Streaks.LastActivity = new(today)
}

// civilDay is midnight UTC of t's calendar date in t's own location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func isoWeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
