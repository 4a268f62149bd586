package metrics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

type Finances struct {
	Balance          decimal.Decimal `json:"balance"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses  decimal.Decimal `json:"monthlyExpenses"`
	MonthlyBalance   decimal.Decimal `json:"monthlyBalance"`
	TransactionCount int             `json:"transactions"`
}

type Dashboard struct {
	Tasks          Tasks           `json:"tasks"`
	Finances       Finances        `json:"finances"`
	Goals          Goals           `json:"goals"`
	WeekScore      int             `json:"weekScore"`
	CompletionRate int             `json:"completionRate"`
	Trends         Trends          `json:"trends"`
	WeeklyActivity []DayActivity   `json:"weeklyActivity"`
	TopCategories  []CategoryTotal `json:"topCategories"`
	Recent         []Activity      `json:"recentActivity"`
	GeneratedAt    time.Time       `json:"lastUpdate"`
}

// BuildDashboard computes every dashboard aggregate from one snapshot.
func BuildDashboard(tasks []*task.Task, txs []*transaction.Transaction, goals []*goal.Goal, now time.Time) Dashboard {
	all := FinancialSummary(txs, PeriodAll, now)
	month := FinancialSummary(txs, PeriodMonth, now)
	taskStats := TaskStats(tasks, now)

	breakdown := CategoryBreakdown(InPeriod(txs, PeriodMonth, now))
	if len(breakdown) > 5 {
		breakdown = breakdown[:5]
	}

	return Dashboard{
		Tasks: taskStats,
		Finances: Finances{
			Balance:          all.Balance,
			TotalIncome:      all.Income,
			TotalExpenses:    all.Expenses,
			MonthlyIncome:    month.Income,
			MonthlyExpenses:  month.Expenses,
			MonthlyBalance:   month.Balance,
			TransactionCount: len(txs),
		},
		Goals:          GoalStats(goals, now),
		WeekScore:      WeekScore(taskStats.CompletedThisWeek),
		CompletionRate: CompletionRate(tasks),
		Trends:         ComputeTrends(tasks, txs, now),
		WeeklyActivity: WeeklyActivity(tasks, now),
		TopCategories:  breakdown,
		Recent:         RecentActivity(tasks, txs, goals, 6),
		GeneratedAt:    now,
	}
}

type ActivityKind string

const (
	ActivityTaskCreated   ActivityKind = "task_created"
	ActivityTaskCompleted ActivityKind = "task_completed"
	ActivityIncome        ActivityKind = "income"
	ActivityExpense       ActivityKind = "expense"
	ActivityGoalCreated   ActivityKind = "goal_created"
)

type Activity struct {
	Kind   ActivityKind     `json:"kind"`
	Title  string           `json:"title"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	At     time.Time        `json:"at"`
}

// RecentActivity merges the latest three tasks, three transactions and two goals, newest first.
func RecentActivity(tasks []*task.Task, txs []*transaction.Transaction, goals []*goal.Goal, limit int) []Activity {
	var out []Activity

	sortedTasks := slices.Clone(tasks)
	slices.SortStableFunc(sortedTasks, func(a, b *task.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })

	for _, t := range sortedTasks[:min(3, len(sortedTasks))] {
		kind := ActivityTaskCreated
		if t.IsDone() {
			kind = ActivityTaskCompleted
		}

		out = append(out, Activity{Kind: kind, Title: t.Title, At: t.CreatedAt})
	}

	sortedTxs := slices.Clone(txs)
	slices.SortStableFunc(sortedTxs, func(a, b *transaction.Transaction) int { return b.Date.Compare(a.Date) })

	for _, tx := range sortedTxs[:min(3, len(sortedTxs))] {
		kind := ActivityExpense
		if tx.Type == transaction.TypeIncome {
			kind = ActivityIncome
		}

		out = append(out, Activity{Kind: kind, Title: tx.Description, Amount: new(tx.Amount), At: tx.Date})
	}

	sortedGoals := slices.Clone(goals)
	slices.SortStableFunc(sortedGoals, func(a, b *goal.Goal) int { return b.CreatedAt.Compare(a.CreatedAt) })

	for _, g := range sortedGoals[:min(2, len(sortedGoals))] {
		out = append(out, Activity{Kind: ActivityGoalCreated, Title: g.Name, At: g.CreatedAt})
	}

	slices.SortStableFunc(out, func(a, b Activity) int { return b.At.Compare(a.At) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
