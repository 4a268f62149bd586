package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Trend compares two values with a ±5% dead band.
func Trend(current, previous float64) Direction {
	if previous == 0 {
		if current > 0 {
			return DirectionUp
		}

		return DirectionStable
	}

	change := (current - previous) / previous

	switch {
	case change > 0.05:
		return DirectionUp
	case change < -0.05:
		return DirectionDown
	}

	return DirectionStable
}

type Trends struct {
	Tasks        Direction `json:"tasks"`
	Expenses     Direction `json:"expenses"`
	Productivity Direction `json:"productivity"`
}

// ComputeTrends compares the last seven days with the seven before them.
// The expense trend is inverted so that spending less reads as up.
func ComputeTrends(tasks []*task.Task, txs []*transaction.Transaction, now time.Time) Trends {
	weekAgo := now.Add(-week)
	twoWeeksAgo := now.Add(-2 * week)

	var thisWeekTasks, lastWeekTasks int

	for _, t := range tasks {
		if !t.IsDone() {
			continue
		}

		switch at := t.DoneAt(); {
		case !at.Before(weekAgo):
			thisWeekTasks++
		case !at.Before(twoWeeksAgo):
			lastWeekTasks++
		}
	}

	thisWeekExpenses, lastWeekExpenses := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		switch {
		case !tx.Date.Before(weekAgo):
			thisWeekExpenses = thisWeekExpenses.Add(tx.Amount)
		case !tx.Date.Before(twoWeeksAgo):
			lastWeekExpenses = lastWeekExpenses.Add(tx.Amount)
		}
	}

	return Trends{
		Tasks:        Trend(float64(thisWeekTasks), float64(lastWeekTasks)),
		Expenses:     Trend(lastWeekExpenses.InexactFloat64(), thisWeekExpenses.InexactFloat64()),
		Productivity: productivityTrend(tasks, weekAgo),
	}
}

// productivityTrend rates the share of tasks created this week that are already done.
func productivityTrend(tasks []*task.Task, since time.Time) Direction {
	var recent, done int

	for _, t := range tasks {
		if t.CreatedAt.Before(since) {
			continue
		}

		recent++

		if t.IsDone() {
			done++
		}
	}

	if recent == 0 {
		return DirectionStable
	}

	rate := float64(done) / float64(recent)

	switch {
	case rate >= 0.8:
		return DirectionUp
	case rate <= 0.4:
		return DirectionDown
	}

	return DirectionStable
}
