package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

type DashboardModel struct {
	CommonModel
	sess *session.Manager

	dash  metrics.Dashboard
	stats achievement.Stats
	err   error
}

func NewDashboardModel(sess *session.Manager) DashboardModel {
	return DashboardModel{sess: sess}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

type loadDashboardMsg struct {
	dash  metrics.Dashboard
	stats achievement.Stats
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		var msg loadDashboardMsg

		msg.err = m.sess.Read(func(_ *user.User, d *userdata.Data) {
			msg.dash = metrics.BuildDashboard(d.Tasks, d.Transactions, d.Goals, time.Now())
			msg.stats = m.sess.Engine().Stats(&d.Achievements)
		})

		return msg
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.dash, m.stats, m.err = msg.dash, msg.stats, msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dash
	bold := lipgloss.NewStyle().Bold(true)

	tasks := fmt.Sprintf("%s\nTotal: %d | Active: %d | Done: %d | Overdue: %d\nWeek score: %d | Completion: %d%% | Trend: %s",
		bold.Render("Tasks"), d.Tasks.Total, d.Tasks.Active, d.Tasks.Completed, d.Tasks.Overdue,
		d.WeekScore, d.CompletionRate, d.Trends.Tasks)

	finances := fmt.Sprintf("%s\nBalance: %s | This month: +%s / -%s\nExpense trend: %s",
		bold.Render("Finances"), FormatAmount(d.Finances.Balance),
		FormatAmount(d.Finances.MonthlyIncome), FormatAmount(d.Finances.MonthlyExpenses), d.Trends.Expenses)

	goals := fmt.Sprintf("%s\nTotal: %d | In progress: %d | Completed: %d | Overdue: %d",
		bold.Render("Goals"), d.Goals.Total, d.Goals.InProgress, d.Goals.Completed, d.Goals.Overdue)

	level := fmt.Sprintf("%s\nLevel %d | %d pts | %d/%d unlocked | Streak: %d days",
		bold.Render("Achievements"), m.stats.Level, m.stats.TotalPoints, m.stats.Unlocked, m.stats.Total, m.stats.DailyStreak)

	var week strings.Builder
	for _, day := range d.WeeklyActivity {
		fmt.Fprintf(&week, "%s %s\n", day.Date.Format("Mon"), strings.Repeat("■", day.Completed))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		framed(tasks), framed(finances), framed(goals), framed(level),
		bold.Render("This week"), week.String(),
	))
}
