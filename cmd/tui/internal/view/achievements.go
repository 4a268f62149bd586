package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

var achievementCategories = []achievement.Category{
	"",
	achievement.CategoryTasks,
	achievement.CategoryFinance,
	achievement.CategoryGoals,
	achievement.CategoryProfile,
	achievement.CategoryTeam,
	achievement.CategoryUsage,
	achievement.CategoryStreak,
	achievement.CategorySpecial,
}

type AchievementsModel struct {
	CommonModel
	sess *session.Manager

	table    table.Model
	list     []achievement.Status
	stats    achievement.Stats
	category int
	err      error
}

func NewAchievementsModel(sess *session.Manager) AchievementsModel {
	return AchievementsModel{
		sess: sess,
		table: newTable([]table.Column{
			{Title: "", Width: 3},
			{Title: "Achievement", Width: 24},
			{Title: "Description", Width: 40},
			{Title: "Pts", Width: 5},
			{Title: "Progress", Width: 9},
		}),
	}
}

func (m AchievementsModel) Title() string     { return "Achievements" }
func (m AchievementsModel) ShortHelp() string { return "Esc: back | c: category" }

func (m AchievementsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type loadAchievementsMsg struct {
	list  []achievement.Status
	stats achievement.Stats
	err   error
}

func (m AchievementsModel) loadCmd() tea.Cmd {
	category := achievementCategories[m.category]

	return func() tea.Msg {
		var msg loadAchievementsMsg

		msg.err = m.sess.Read(func(u *user.User, d *userdata.Data) {
			engine := m.sess.Engine()

			for _, s := range engine.List(&d.Achievements, d.AchievementInput(u.CreatedAt), time.Now()) {
				if category == "" || s.Definition.Category == category {
					msg.list = append(msg.list, s)
				}
			}

			msg.stats = engine.Stats(&d.Achievements)
		})

		return msg
	}
}

func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAchievementsMsg:
		m.list, m.stats, m.err = msg.list, msg.stats, msg.err
		m.refreshTable()

		return m, nil
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "c":
			m.category = (m.category + 1) % len(achievementCategories)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *AchievementsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.list))
	for _, s := range m.list {
		icon := "·"
		if s.Unlocked {
			icon = s.Definition.Icon
		}

		rows = append(rows, table.Row{
			icon,
			s.Definition.Title,
			s.Definition.Description,
			fmt.Sprint(s.Definition.Points),
			fmt.Sprintf("%.0f%%", s.Progress),
		})
	}

	m.table.SetRows(rows)
}

func (m AchievementsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	category := string(achievementCategories[m.category])
	if category == "" {
		category = "all"
	}

	header := fmt.Sprintf("Level %d (%.0f%% to next) | %d pts | %d/%d unlocked | [c] Category: %s",
		m.stats.Level, m.stats.LevelProgress, m.stats.TotalPoints, m.stats.Unlocked, m.stats.Total, activeStyle(category))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	))
}
