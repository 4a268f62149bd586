// Package metrics turns a user's tasks, transactions and goals into dashboard numbers.
// Every function is pure and takes the current time as an argument.
package metrics

import (
	"math"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
)

const week = 7 * 24 * time.Hour

type Tasks struct {
	Total             int                   `json:"total"`
	Active            int                   `json:"active"`
	Completed         int                   `json:"completed"`
	CompletedThisWeek int                   `json:"completedThisWeek"`
	Overdue           int                   `json:"overdue"`
	ByPriority        map[task.Priority]int `json:"byPriority"`
	ByStatus          map[task.Status]int   `json:"byStatus"`
}

// TaskStats counts tasks. A task counts as completed this week when it was finished in the last seven days.
func TaskStats(tasks []*task.Task, now time.Time) Tasks {
	stats := Tasks{
		Total:      len(tasks),
		ByPriority: make(map[task.Priority]int),
		ByStatus:   make(map[task.Status]int),
	}

	weekAgo := now.Add(-week)

	for _, t := range tasks {
		stats.ByPriority[t.Priority]++
		stats.ByStatus[t.Status]++

		if !t.IsDone() {
			stats.Active++
		} else {
			stats.Completed++

			if !t.DoneAt().Before(weekAgo) {
				stats.CompletedThisWeek++
			}
		}

		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats
}

// WeekScore is ten points per task completed this week, capped at 100.
func WeekScore(completedThisWeek int) int {
	return min(max(completedThisWeek, 0)*10, 100)
}

// CompletionRate is the percentage of tasks that are done, rounded.
func CompletionRate(tasks []*task.Task) int {
	if len(tasks) == 0 {
		return 0
	}

	done := 0
	for _, t := range tasks {
		if t.IsDone() {
			done++
		}
	}

	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// GoalProgress is the goal's completion percentage clamped to [0, 100].
func GoalProgress(g *goal.Goal) float64 {
	return g.ClampedProgress()
}

type Goals struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

func GoalStats(goals []*goal.Goal, now time.Time) Goals {
	stats := Goals{Total: len(goals)}

	for _, g := range goals {
		switch {
		case g.IsCompleted():
			stats.Completed++
		case g.InProgress():
			stats.InProgress++
		}

		if g.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats
}

type DayActivity struct {
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
}

// WeeklyActivity buckets completed tasks into the last seven calendar days, oldest first.
func WeeklyActivity(tasks []*task.Task, now time.Time) []DayActivity {
	today := startOfDay(now)

	days := make([]DayActivity, 7)
	for i := range days {
		days[i].Date = today.AddDate(0, 0, i-6)
	}

	for _, t := range tasks {
		if !t.IsDone() {
			continue
		}

		done := startOfDay(t.DoneAt().In(now.Location()))

		for i := range days {
			if done.Equal(days[i].Date) {
				days[i].Completed++
				break
			}
		}
	}

	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
