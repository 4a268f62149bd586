package achievement

import "time"

type Category string

const (
	CategoryTasks   Category = "tasks"
	CategoryFinance Category = "finance"
	CategoryGoals   Category = "goals"
	CategoryProfile Category = "profile"
	CategoryTeam    Category = "team"
	CategoryUsage   Category = "usage"
	CategoryStreak  Category = "streak"
	CategorySpecial Category = "special"
)

// Definition describes one unlockable achievement.
// Ramped achievements unlock once Value reaches Target; the others use Predicate.
type Definition struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Points      int      `json:"points"`
	Category    Category `json:"category"`

	Value     func(Facts) float64 `json:"-"`
	Target    float64             `json:"target,omitempty"`
	Predicate func(Facts) bool    `json:"-"`
}

func (d Definition) ramped() bool {
	return d.Value != nil && d.Target > 0
}

func (d Definition) met(f Facts) bool {
	if d.ramped() {
		return d.Value(f) >= d.Target
	}

	return d.Predicate != nil && d.Predicate(f)
}

func count(fn func(Facts) int) func(Facts) float64 {
	return func(f Facts) float64 { return float64(fn(f)) }
}

var (
	tasks          = count(func(f Facts) int { return f.Tasks })
	completedTasks = count(func(f Facts) int { return f.CompletedTasks })
	completedGoals = count(func(f Facts) int { return f.CompletedGoals })
	teamSize       = count(func(f Facts) int { return f.TeamSize })
	daysSinceJoin  = count(func(f Facts) int { return f.DaysSinceJoin })
	dailyStreak    = count(func(f Facts) int { return f.DailyStreak })
	balance        = func(f Facts) float64 { return f.Balance }
)

// Definitions is the built-in achievement table in evaluation order.
func Definitions() []Definition {
	return []Definition{
		{ID: "first_task", Title: "First Step", Description: "Created your first task", Icon: "📝", Points: 10, Category: CategoryTasks, Value: tasks, Target: 1},
		{ID: "first_income", Title: "First Income", Description: "Recorded your first income", Icon: "💰", Points: 10, Category: CategoryFinance, Predicate: func(f Facts) bool { return f.HasIncome }},
		{ID: "first_goal", Title: "Dreamer", Description: "Created your first goal", Icon: "🎯", Points: 15, Category: CategoryGoals, Value: count(func(f Facts) int { return f.Goals }), Target: 1},
		{ID: "task_master", Title: "Task Master", Description: "Completed 10 tasks", Icon: "🏆", Points: 50, Category: CategoryTasks, Value: completedTasks, Target: 10},
		{ID: "money_saver", Title: "Money Saver", Description: "Kept a balance above 1,000", Icon: "🐷", Points: 100, Category: CategoryFinance, Value: balance, Target: 1000},
		{ID: "goal_achiever", Title: "Goal Achiever", Description: "Reached your first goal", Icon: "🥇", Points: 75, Category: CategoryGoals, Value: completedGoals, Target: 1},
		{ID: "team_builder", Title: "Team Builder", Description: "Invited your first team member", Icon: "👥", Points: 25, Category: CategoryTeam, Value: teamSize, Target: 1},
		{ID: "profile_complete", Title: "Complete Profile", Description: "Filled in phone and company", Icon: "✅", Points: 20, Category: CategoryProfile, Predicate: func(f Facts) bool { return f.ProfileComplete }},
		{ID: "security_pro", Title: "Security Pro", Description: "Turned on two-factor authentication", Icon: "🔒", Points: 30, Category: CategoryProfile, Predicate: func(f Facts) bool { return f.TwoFactor }},
		{ID: "early_adopter", Title: "Early Adopter", Description: "One of the first users", Icon: "🚀", Points: 200, Category: CategoryUsage, Predicate: func(Facts) bool { return true }},
		{ID: "task_veteran", Title: "Task Veteran", Description: "Completed 50 tasks", Icon: "🎖️", Points: 100, Category: CategoryTasks, Value: completedTasks, Target: 50},
		{ID: "task_legend", Title: "Task Legend", Description: "Completed 100 tasks", Icon: "👑", Points: 200, Category: CategoryTasks, Value: completedTasks, Target: 100},
		{ID: "urgent_solver", Title: "Urgent Solver", Description: "Completed 5 high priority tasks", Icon: "🚨", Points: 50, Category: CategoryTasks, Value: count(func(f Facts) int { return f.HighPriorityCompleted }), Target: 5},
		{ID: "punctual_performer", Title: "Always On Time", Description: "Completed 10 tasks before their deadline", Icon: "⏰", Points: 75, Category: CategoryTasks, Value: count(func(f Facts) int { return f.OnTimeCompleted }), Target: 10},
		{ID: "wealthy_saver", Title: "Wealthy Saver", Description: "Kept a balance above 5,000", Icon: "💎", Points: 150, Category: CategoryFinance, Value: balance, Target: 5000},
		{ID: "financial_master", Title: "Financial Master", Description: "Kept a balance above 10,000", Icon: "🏦", Points: 250, Category: CategoryFinance, Value: balance, Target: 10000},
		{ID: "transaction_tracker", Title: "Expense Tracker", Description: "Recorded 50 transactions", Icon: "📊", Points: 60, Category: CategoryFinance, Value: count(func(f Facts) int { return f.Transactions }), Target: 50},
		{ID: "frugal_month", Title: "Frugal Month", Description: "Spent only on essentials this month", Icon: "🧾", Points: 100, Category: CategoryFinance, Predicate: func(f Facts) bool { return f.FrugalMonth }},
		{ID: "goal_crusher", Title: "Goal Crusher", Description: "Reached 5 goals", Icon: "💪", Points: 150, Category: CategoryGoals, Value: completedGoals, Target: 5},
		{ID: "big_dreamer", Title: "Big Dreamer", Description: "Reached a financial goal of 10,000 or more", Icon: "🌟", Points: 200, Category: CategoryGoals, Predicate: func(f Facts) bool { return f.BigFinancialGoalCompleted }},
		{ID: "style_master", Title: "Style Master", Description: "Picked a custom theme", Icon: "🎨", Points: 25, Category: CategoryProfile, Predicate: func(f Facts) bool { return f.CustomTheme }},
		{ID: "team_leader", Title: "Team Leader", Description: "Has a team of 5 or more", Icon: "👨‍💼", Points: 100, Category: CategoryTeam, Value: teamSize, Target: 5},
		{ID: "week_veteran", Title: "One Week In", Description: "Used the app for 7 days", Icon: "📅", Points: 30, Category: CategoryUsage, Value: daysSinceJoin, Target: 7},
		{ID: "month_veteran", Title: "One Month In", Description: "Used the app for 30 days", Icon: "🗓️", Points: 100, Category: CategoryUsage, Value: daysSinceJoin, Target: 30},
		{ID: "daily_streak_3", Title: "3 Day Streak", Description: "Used the app 3 days in a row", Icon: "🔥", Points: 25, Category: CategoryStreak, Value: dailyStreak, Target: 3},
		{ID: "daily_streak_7", Title: "1 Week Streak", Description: "Used the app 7 days in a row", Icon: "🔥", Points: 75, Category: CategoryStreak, Value: dailyStreak, Target: 7},
		{ID: "daily_streak_30", Title: "1 Month Streak", Description: "Used the app 30 days in a row", Icon: "🔥", Points: 200, Category: CategoryStreak, Value: dailyStreak, Target: 30},
		{ID: "night_owl", Title: "Night Owl", Description: "Used the app after midnight", Icon: "🦉", Points: 20, Category: CategorySpecial, Predicate: func(f Facts) bool { return f.Hour < 6 }},
		{ID: "weekend_warrior", Title: "Weekend Warrior", Description: "Used the app on a weekend", Icon: "⚔️", Points: 15, Category: CategorySpecial, Predicate: func(f Facts) bool {
			return f.Weekday == time.Saturday || f.Weekday == time.Sunday
		}},
	}
}
