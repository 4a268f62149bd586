package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

var now = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func tx(typ transaction.Type, amount int64, category transaction.Category, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{Type: typ, Amount: decimal.NewFromInt(amount), Category: category, Date: date}
}

func doneTask(completedAt time.Time) *task.Task {
	return &task.Task{Status: task.StatusDone, CreatedAt: completedAt.Add(-time.Hour), CompletedAt: new(completedAt)}
}

func TestFinancialSummary(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, 100, transaction.CategorySalary, now.AddDate(0, 0, -1)),
		tx(transaction.TypeIncome, 50, transaction.CategoryGift, now.AddDate(0, -2, 0)),
		tx(transaction.TypeExpense, 30, transaction.CategoryFood, now.AddDate(-1, 0, 0)),
	}

	type testCase struct {
		name         string
		period       metrics.Period
		wantIncome   int64
		wantExpenses int64
		wantBalance  int64
	}

	tests := []testCase{
		{name: "All", period: metrics.PeriodAll, wantIncome: 150, wantExpenses: 30, wantBalance: 120},
		{name: "Year", period: metrics.PeriodYear, wantIncome: 150, wantExpenses: 0, wantBalance: 150},
		{name: "Month", period: metrics.PeriodMonth, wantIncome: 100, wantExpenses: 0, wantBalance: 100},
		{name: "Week", period: metrics.PeriodWeek, wantIncome: 100, wantExpenses: 0, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metrics.FinancialSummary(txs, tt.period, now)

			assert.True(t, got.Income.Equal(decimal.NewFromInt(tt.wantIncome)), got.Income.String())
			assert.True(t, got.Expenses.Equal(decimal.NewFromInt(tt.wantExpenses)), got.Expenses.String())
			assert.True(t, got.Balance.Equal(decimal.NewFromInt(tt.wantBalance)), got.Balance.String())
		})
	}
}

func TestPeriodStart(t *testing.T) {
	start, ok := metrics.PeriodStart(metrics.PeriodWeek, now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), start)

	start, ok = metrics.PeriodStart(metrics.PeriodMonth, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)

	start, ok = metrics.PeriodStart(metrics.PeriodYear, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)

	_, ok = metrics.PeriodStart(metrics.PeriodAll, now)
	assert.False(t, ok)
}

func TestTaskStats(t *testing.T) {
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 2)

	tasks := []*task.Task{
		{Status: task.StatusTodo, Priority: task.PriorityHigh, Deadline: &past},
		{Status: task.StatusProgress, Priority: task.PriorityLow, Deadline: &future},
		doneTask(now.AddDate(0, 0, -1)),
		doneTask(now.AddDate(0, 0, -10)),
		{Status: task.StatusDone, Deadline: &past, CreatedAt: now.AddDate(0, 0, -3)},
	}

	got := metrics.TaskStats(tasks, now)

	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 2, got.Active)
	assert.Equal(t, 3, got.Completed)
	assert.Equal(t, 2, got.CompletedThisWeek)
	assert.Equal(t, 1, got.Overdue)
	assert.Equal(t, 3, got.ByStatus[task.StatusDone])
	assert.Equal(t, 1, got.ByPriority[task.PriorityHigh])
}

func TestWeekScore(t *testing.T) {
	assert.Equal(t, 0, metrics.WeekScore(0))
	assert.Equal(t, 30, metrics.WeekScore(3))
	assert.Equal(t, 100, metrics.WeekScore(10))
	assert.Equal(t, 100, metrics.WeekScore(15))
}

func TestTrend(t *testing.T) {
	type testCase struct {
		current, previous float64
		want              metrics.Direction
	}

	tests := []testCase{
		{current: 110, previous: 100, want: metrics.DirectionUp},
		{current: 90, previous: 100, want: metrics.DirectionDown},
		{current: 101, previous: 100, want: metrics.DirectionStable},
		{current: 105, previous: 100, want: metrics.DirectionStable},
		{current: 3, previous: 0, want: metrics.DirectionUp},
		{current: 0, previous: 0, want: metrics.DirectionStable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.Trend(tt.current, tt.previous), "%v vs %v", tt.current, tt.previous)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeExpense, 30, transaction.CategoryFood, now),
		tx(transaction.TypeExpense, 20, transaction.CategoryFood, now),
		tx(transaction.TypeExpense, 80, transaction.CategoryHousing, now),
		tx(transaction.TypeExpense, 50, transaction.CategoryBills, now),
		tx(transaction.TypeIncome, 500, transaction.CategorySalary, now),
	}

	got := metrics.CategoryBreakdown(txs)

	require.Len(t, got, 3)
	assert.Equal(t, transaction.CategoryHousing, got[0].Category)
	assert.Equal(t, transaction.CategoryBills, got[1].Category)
	assert.Equal(t, transaction.CategoryFood, got[2].Category)
	assert.True(t, got[2].Amount.Equal(decimal.NewFromInt(50)))
}

func TestGoalProgressClamped(t *testing.T) {
	goals := []*goal.Goal{
		{Type: goal.TypeFinancial, Financial: &goal.Financial{Amount: decimal.NewFromInt(100), CurrentAmount: decimal.NewFromInt(400)}},
		{Type: goal.TypeFinancial, Financial: &goal.Financial{Amount: decimal.Zero, CurrentAmount: decimal.NewFromInt(5)}},
		{Type: goal.TypePersonal, Personal: &goal.Personal{Progress: 250}},
		{Type: goal.TypePersonal, Personal: &goal.Personal{Progress: -20}},
	}

	for _, g := range goals {
		p := metrics.GoalProgress(g)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestGoalStats(t *testing.T) {
	goals := []*goal.Goal{
		{Type: goal.TypePersonal, Personal: &goal.Personal{Progress: 100}, Deadline: now.AddDate(0, 0, -1)},
		{Type: goal.TypePersonal, Personal: &goal.Personal{Progress: 30}, Deadline: now.AddDate(0, 0, -1)},
		{Type: goal.TypeFinancial, Financial: &goal.Financial{Amount: decimal.NewFromInt(10), CurrentAmount: decimal.Zero}, Deadline: now.AddDate(0, 0, 5)},
	}

	got := metrics.GoalStats(goals, now)

	assert.Equal(t, metrics.Goals{Total: 3, Completed: 1, InProgress: 1, Overdue: 1}, got)
}

func TestComputeTrends(t *testing.T) {
	tasks := []*task.Task{
		doneTask(now.AddDate(0, 0, -1)),
		doneTask(now.AddDate(0, 0, -2)),
		doneTask(now.AddDate(0, 0, -9)),
	}

	txs := []*transaction.Transaction{
		tx(transaction.TypeExpense, 50, transaction.CategoryFood, now.AddDate(0, 0, -1)),
		tx(transaction.TypeExpense, 100, transaction.CategoryFood, now.AddDate(0, 0, -10)),
	}

	got := metrics.ComputeTrends(tasks, txs, now)

	assert.Equal(t, metrics.DirectionUp, got.Tasks)
	// Spending halved, which is good news.
	assert.Equal(t, metrics.DirectionUp, got.Expenses)
	assert.Equal(t, metrics.DirectionUp, got.Productivity)
}

func TestComputeTrends_LowProductivity(t *testing.T) {
	tasks := []*task.Task{
		{Status: task.StatusTodo, CreatedAt: now.AddDate(0, 0, -1)},
		{Status: task.StatusTodo, CreatedAt: now.AddDate(0, 0, -1)},
		{Status: task.StatusTodo, CreatedAt: now.AddDate(0, 0, -1)},
		doneTask(now),
	}

	assert.Equal(t, metrics.DirectionDown, metrics.ComputeTrends(tasks, nil, now).Productivity)
	assert.Equal(t, metrics.DirectionStable, metrics.ComputeTrends(nil, nil, now).Productivity)
}

func TestWeeklyActivity(t *testing.T) {
	tasks := []*task.Task{
		doneTask(now),
		doneTask(now.Add(-time.Hour)),
		doneTask(now.AddDate(0, 0, -6)),
		doneTask(now.AddDate(0, 0, -7)),
		{Status: task.StatusTodo, CreatedAt: now},
	}

	got := metrics.WeeklyActivity(tasks, now)

	require.Len(t, got, 7)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 1, got[0].Completed)
	assert.Equal(t, 2, got[6].Completed)
}

func TestSummarizeTransactions(t *testing.T) {
	got := metrics.SummarizeTransactions([]*transaction.Transaction{
		tx(transaction.TypeIncome, 100, transaction.CategorySalary, now),
		tx(transaction.TypeExpense, 30, transaction.CategoryFood, now),
		tx(transaction.TypeExpense, 70, transaction.CategoryBills, now),
	})

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "66.67", got.Average.StringFixed(2))
	assert.True(t, got.BiggestIncome.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.BiggestExpense.Equal(decimal.NewFromInt(70)))

	empty := metrics.SummarizeTransactions(nil)
	assert.Zero(t, empty.Count)
	assert.True(t, empty.Average.IsZero())
}

func TestBuildDashboard(t *testing.T) {
	tasks := []*task.Task{doneTask(now.AddDate(0, 0, -1)), doneTask(now.AddDate(0, 0, -2)), {Title: "open", CreatedAt: now}}
	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, 100, transaction.CategorySalary, now),
		tx(transaction.TypeExpense, 40, transaction.CategoryFood, now),
	}

	got := metrics.BuildDashboard(tasks, txs, nil, now)

	assert.Equal(t, 20, got.WeekScore)
	assert.Equal(t, 67, got.CompletionRate)
	assert.True(t, got.Finances.Balance.Equal(decimal.NewFromInt(60)))
	assert.True(t, got.Finances.MonthlyExpenses.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2, got.Finances.TransactionCount)
	assert.Len(t, got.WeeklyActivity, 7)
	assert.Len(t, got.TopCategories, 1)
	assert.Len(t, got.Recent, 5)
	assert.Equal(t, now, got.GeneratedAt)
}

func TestRecentActivity_Limit(t *testing.T) {
	var tasks []*task.Task
	for i := range 5 {
		tasks = append(tasks, &task.Task{Title: "t", CreatedAt: now.Add(-time.Duration(i) * time.Hour)})
	}

	got := metrics.RecentActivity(tasks, nil, nil, 2)

	require.Len(t, got, 2)
	assert.Equal(t, now, got[0].At)
	assert.Equal(t, metrics.ActivityTaskCreated, got[0].Kind)
}
