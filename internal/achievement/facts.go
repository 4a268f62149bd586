package achievement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

var bigDreamerTarget = decimal.NewFromInt(10000)

// Input is the slice of user data predicates are evaluated against.
type Input struct {
	Tasks        []*task.Task
	Transactions []*transaction.Transaction
	Goals        []*goal.Goal
	TeamSize     int
	Profile      profile.Profile
	JoinedAt     time.Time
}

// Facts are the aggregates every predicate reads, computed once per evaluation pass.
type Facts struct {
	Tasks                 int
	CompletedTasks        int
	HighPriorityCompleted int
	OnTimeCompleted       int

	HasIncome    bool
	Balance      float64
	Transactions int
	FrugalMonth  bool

	Goals                     int
	CompletedGoals            int
	BigFinancialGoalCompleted bool

	ProfileComplete bool
	TwoFactor       bool
	CustomTheme     bool

	TeamSize      int
	DaysSinceJoin int
	DailyStreak   int

	Hour    int
	Weekday time.Weekday
}

func collect(in Input, st *State, now time.Time) Facts {
	f := Facts{
		Tasks:           len(in.Tasks),
		Transactions:    len(in.Transactions),
		Goals:           len(in.Goals),
		ProfileComplete: in.Profile.IsComplete(),
		TwoFactor:       in.Profile.TwoFactor,
		CustomTheme:     in.Profile.Theme != "" && in.Profile.Theme != profile.ThemeDefault,
		TeamSize:        in.TeamSize,
		DailyStreak:     st.Streaks.Daily,
		Hour:            now.Hour(),
		Weekday:         now.Weekday(),
	}

	if !in.JoinedAt.IsZero() {
		f.DaysSinceJoin = int(now.Sub(in.JoinedAt).Hours() / 24)
	}

	for _, t := range in.Tasks {
		if !t.IsDone() {
			continue
		}

		f.CompletedTasks++

		if t.Priority == task.PriorityHigh {
			f.HighPriorityCompleted++
		}

		if t.CompletedOnTime() {
			f.OnTimeCompleted++
		}
	}

	for _, tx := range in.Transactions {
		if tx.Type == transaction.TypeIncome {
			f.HasIncome = true
			break
		}
	}

	f.Balance = metrics.FinancialSummary(in.Transactions, metrics.PeriodAll, now).Balance.InexactFloat64()
	f.FrugalMonth = frugalMonth(in.Transactions, now)

	for _, g := range in.Goals {
		if !g.IsCompleted() {
			continue
		}

		f.CompletedGoals++

		if g.Financial != nil && g.Financial.Amount.GreaterThanOrEqual(bigDreamerTarget) {
			f.BigFinancialGoalCompleted = true
		}
	}

	return f
}

// frugalMonth holds when this month has expenses and all of them are essentials.
func frugalMonth(txs []*transaction.Transaction, now time.Time) bool {
	expenses := 0

	for _, tx := range metrics.InPeriod(txs, metrics.PeriodMonth, now) {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		if !tx.Category.Essential() {
			return false
		}

		expenses++
	}

	return expenses > 0
}
