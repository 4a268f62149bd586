package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifemanager/internal/task"
)

type tasksState int

const (
	tasksStateBrowse tasksState = iota
	tasksStateAdd
)

var (
	taskStatusFilters = []*task.Status{nil, new(task.StatusTodo), new(task.StatusProgress), new(task.StatusDone)}
	taskSorts         = []task.SortBy{task.SortCreated, task.SortPriority, task.SortDeadline, task.SortTitle}
)

type TasksModel struct {
	CommonModel
	svc *task.Service

	state  tasksState
	table  table.Model
	tasks  []*task.Task
	form   *huh.Form
	fields *taskFields

	statusIdx int
	sortIdx   int

	err    error
	status string
}

type taskFields struct {
	title       string
	description string
	priority    string
	deadline    string
}

func NewTasksModel(svc *task.Service) TasksModel {
	return TasksModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Title", Width: 36},
			{Title: "Priority", Width: 9},
			{Title: "Status", Width: 9},
			{Title: "Deadline", Width: 12},
		}),
		fields: &taskFields{},
	}
}

func (m TasksModel) Title() string { return "Tasks" }
func (m TasksModel) ShortHelp() string {
	if m.state == tasksStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | space: advance status | d: duplicate | x: delete | s: status filter | o: sort"
}

func (m TasksModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TasksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTasksMsg:
		m.err = msg.err
		m.tasks = msg.tasks
		m.refreshTable()

		return m, nil
	case taskSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = tasksStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == tasksStateAdd {
		return m.updateAdd(msg)
	}

	return m.updateBrowse(msg)
}

func (m TasksModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterAddMode()
		case " ":
			if t := m.selected(); t != nil {
				return m, m.setStatusCmd(t.ID, nextStatus(t.Status))
			}
		case "d":
			if t := m.selected(); t != nil {
				return m, m.duplicateCmd(t.ID)
			}
		case "x":
			if t := m.selected(); t != nil {
				return m, m.deleteCmd(t.ID)
			}
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(taskStatusFilters)
			return m, m.loadCmd()
		case "o":
			m.sortIdx = (m.sortIdx + 1) % len(taskSorts)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func nextStatus(s task.Status) task.Status {
	switch s {
	case task.StatusTodo:
		return task.StatusProgress
	case task.StatusProgress:
		return task.StatusDone
	}

	return task.StatusTodo
}

func (m TasksModel) selected() *task.Task {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.tasks) {
		return nil
	}

	return m.tasks[idx]
}

func (m TasksModel) enterAddMode() (tea.Model, tea.Cmd) {
	*m.fields = taskFields{priority: string(task.PriorityMedium)}
	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}

					return nil
				}),
			huh.NewText().Title("Description").Value(&f.description),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", string(task.PriorityLow)),
					huh.NewOption("Medium", string(task.PriorityMedium)),
					huh.NewOption("High", string(task.PriorityHigh)),
				).
				Value(&f.priority),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&f.deadline).
				Validate(validOptionalDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = tasksStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func validOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func (m TasksModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = tasksStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m TasksModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	statusLabel := "All"
	if s := taskStatusFilters[m.statusIdx]; s != nil {
		statusLabel = string(*s)
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | [o] Sort: %s",
		activeStyle(statusLabel), activeStyle(string(taskSorts[m.sortIdx])))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	)

	if m.state == tasksStateAdd && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("New Task", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TasksModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.tasks))
	for _, t := range m.tasks {
		deadline := ""
		if t.Deadline != nil {
			deadline = FormatDate(*t.Deadline)
			if t.IsOverdue(now) {
				deadline += " !"
			}
		}

		rows = append(rows, table.Row{fmt.Sprint(t.ID), t.Title, string(t.Priority), string(t.Status), deadline})
	}

	m.table.SetRows(rows)
}

// Messages

type loadTasksMsg struct {
	tasks []*task.Task
	err   error
}

type taskSavedMsg struct {
	err error
}

func (m TasksModel) loadCmd() tea.Cmd {
	filter := task.Filter{Status: taskStatusFilters[m.statusIdx]}
	sortBy := taskSorts[m.sortIdx]

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		tasks, err := m.svc.List(ctx, filter, sortBy)

		return loadTasksMsg{tasks: tasks, err: err}
	}
}

func (m TasksModel) createCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		params := task.CreateParams{
			Title:       f.title,
			Description: f.description,
			Priority:    task.Priority(f.priority),
		}

		if d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(f.deadline), time.Local); err == nil {
			params.Deadline = &d
		}

		_, err := m.svc.Create(ctx, params)

		return taskSavedMsg{err: err}
	}
}

func (m TasksModel) setStatusCmd(id int, status task.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, err := m.svc.SetStatus(ctx, id, status)

		return taskSavedMsg{err: err}
	}
}

func (m TasksModel) duplicateCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, err := m.svc.Duplicate(ctx, id)

		return taskSavedMsg{err: err}
	}
}

func (m TasksModel) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return taskSavedMsg{err: m.svc.Delete(ctx, id)}
	}
}
