package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lifemanager/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/lifemanager/internal/app"
	"github.com/MrJamesThe3rd/lifemanager/internal/config"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
)

type model struct {
	app  *app.App
	user *user.User

	currentView View
	toast       string

	authView         view.AuthModel
	dashboardView    view.DashboardModel
	tasksView        view.TasksModel
	transactionsView view.TransactionsModel
	goalsView        view.GoalsModel
	achievementsView view.AchievementsModel
	backupView       view.BackupModel
}

type View int

const (
	ViewAuth         View = 0
	ViewMenu         View = 1
	ViewDashboard    View = 2
	ViewTasks        View = 3
	ViewTransactions View = 4
	ViewGoals        View = 5
	ViewAchievements View = 6
	ViewBackup       View = 7
)

func initialModel(a *app.App) model {
	m := model{
		app:         a,
		currentView: ViewAuth,
		authView:    view.NewAuthModel(a.Session),
	}

	if u, ok := a.Session.Current(); ok {
		m.user = u
		m.currentView = ViewMenu
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewAuth {
		return m.authView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)

	if next.user != nil {
		if unlocked := next.app.Session.DrainUnlocks(); len(unlocked) > 0 {
			parts := make([]string, 0, len(unlocked))
			for _, u := range unlocked {
				part := fmt.Sprintf("%s %s (+%d)", u.Definition.Icon, u.Definition.Title, u.Definition.Points)
				if u.LevelUp {
					part += fmt.Sprintf(" Level %d!", u.Level)
				}

				parts = append(parts, part)
			}

			next.toast = "Unlocked: " + strings.Join(parts, ", ")
		}
	}

	return next, cmd
}

func (m model) update(msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			m.toast = ""

			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Session)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTasks
				m.tasksView = view.NewTasksModel(m.app.Tasks)

				return m, m.tasksView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.app.Transactions)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.app.Goals)

				return m, m.goalsView.Init()
			case "5":
				m.currentView = ViewAchievements
				m.achievementsView = view.NewAchievementsModel(m.app.Session)

				return m, m.achievementsView.Init()
			case "6":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.app.Backup, m.app.Reports)

				return m, m.backupView.Init()
			case "l":
				ctx, cancel := view.OpCtx()
				defer cancel()

				if err := m.app.Session.Logout(ctx); err != nil {
					slog.Warn("failed to log out", "error", err)
				}

				m.user = nil
				m.currentView = ViewAuth
				m.authView = view.NewAuthModel(m.app.Session)

				return m, m.authView.Init()
			}
		}
	case view.AuthenticatedMsg:
		m.user = msg.User
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAuth:
		var newModel tea.Model
		newModel, cmd = m.authView.Update(msg)
		m.authView = newModel.(view.AuthModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTasks:
		var newModel tea.Model
		newModel, cmd = m.tasksView.Update(msg)
		m.tasksView = newModel.(view.TasksModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	case ViewAchievements:
		var newModel tea.Model
		newModel, cmd = m.achievementsView.Update(msg)
		m.achievementsView = newModel.(view.AchievementsModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	body := m.body()

	if m.toast != "" {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Padding(0, 1).Render(m.toast) + "\n" + body
	}

	return body
}

func (m model) body() string {
	switch m.currentView {
	case ViewAuth:
		return m.authView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("LifeManager | %s (%s)\n\n", m.user.Name, m.user.Plan) +
				"1. Dashboard\n" +
				"2. Tasks\n" +
				"3. Finances\n" +
				"4. Goals\n" +
				"5. Achievements\n" +
				"6. Backup & Reports\n\n" +
				"l. Log out\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.withHelp(m.dashboardView)
	case ViewTasks:
		return m.withHelp(m.tasksView)
	case ViewTransactions:
		return m.withHelp(m.transactionsView)
	case ViewGoals:
		return m.withHelp(m.goalsView)
	case ViewAchievements:
		return m.withHelp(m.achievementsView)
	case ViewBackup:
		return m.withHelp(m.backupView)
	}

	return "Unknown View"
}

func (m model) withHelp(v view.View) string {
	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start app", "error", err)
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}

	a.Start()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
	}

	if err := a.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down", "error", err)
		os.Exit(1)
	}
}
