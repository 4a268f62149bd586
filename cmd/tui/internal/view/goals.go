package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/datetime"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
)

type goalsState int

const (
	goalsStateBrowse goalsState = iota
	goalsStateAdd
	goalsStateEdit
	goalsStateProgress
)

var goalFilters = []goal.Filter{goal.FilterAll, goal.FilterActive, goal.FilterCompleted, goal.FilterOverdue}

type GoalsModel struct {
	CommonModel
	svc *goal.Service

	state  goalsState
	table  table.Model
	goals  []*goal.Goal
	form   *huh.Form
	fields *goalFields

	filterIdx int

	err    error
	status string
}

type goalFields struct {
	id          int
	typ         string
	name        string
	description string
	amount      string
	deadline    string
	progress    string

	// prevDeadline is the stored deadline when editing; an unchanged one is not resubmitted.
	prevDeadline string
}

func NewGoalsModel(svc *goal.Service) GoalsModel {
	return GoalsModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Type", Width: 10},
			{Title: "Progress", Width: 18},
			{Title: "Deadline", Width: 12},
			{Title: "Status", Width: 10},
		}),
		fields: &goalFields{},
	}
}

func (m GoalsModel) Title() string { return "Goals" }
func (m GoalsModel) ShortHelp() string {
	if m.state != goalsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | u: update progress | x: delete | f: filter"
}

func (m GoalsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGoalsMsg:
		m.err = msg.err
		m.goals = msg.goals
		m.refreshTable()

		return m, nil
	case goalSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = goalsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state != goalsStateBrowse {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m GoalsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterAddMode()
		case "e":
			if g := m.selected(); g != nil {
				return m.enterEditMode(g)
			}
		case "u":
			if g := m.selected(); g != nil {
				return m.enterProgressMode(g)
			}
		case "x":
			if g := m.selected(); g != nil {
				return m, m.deleteCmd(g.ID)
			}
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(goalFilters)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m GoalsModel) selected() *goal.Goal {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.goals) {
		return nil
	}

	return m.goals[idx]
}

func (m GoalsModel) enterAddMode() (tea.Model, tea.Cmd) {
	*m.fields = goalFields{typ: string(goal.TypePersonal)}

	m.form = m.detailsForm()
	m.state = goalsStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m GoalsModel) enterEditMode(g *goal.Goal) (tea.Model, tea.Cmd) {
	*m.fields = goalFields{
		id:          g.ID,
		typ:         string(g.Type),
		name:        g.Name,
		description: g.Description,
		deadline:    g.Deadline.Format(time.DateOnly),
	}
	m.fields.prevDeadline = m.fields.deadline

	if g.Financial != nil {
		m.fields.amount = g.Financial.Amount.String()
	}

	m.form = m.detailsForm()
	m.state = goalsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m GoalsModel) detailsForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Personal", string(goal.TypePersonal)),
					huh.NewOption("Financial", string(goal.TypeFinancial)),
				).
				Value(&f.typ),
			huh.NewInput().Title("Name").Value(&f.name),
			huh.NewText().Title("Description").Value(&f.description),
			huh.NewInput().Title("Deadline").Placeholder("YYYY-MM-DD").Value(&f.deadline).Validate(validOptionalDate),
		),
		huh.NewGroup(
			huh.NewInput().Title("Target amount").Placeholder("0.00").Value(&f.amount),
		).WithHideFunc(func() bool { return f.typ != string(goal.TypeFinancial) }),
	).WithWidth(45).WithShowHelp(false)
}

func (m GoalsModel) enterProgressMode(g *goal.Goal) (tea.Model, tea.Cmd) {
	*m.fields = goalFields{id: g.ID, typ: string(g.Type)}
	f := m.fields

	title := "Progress (%)"
	if g.Financial != nil {
		title = "Amount saved"
		f.progress = g.Financial.CurrentAmount.String()
	} else if g.Personal != nil {
		f.progress = strconv.FormatFloat(g.Personal.Progress, 'f', -1, 64)
	}

	m.form = huh.NewForm(
		huh.NewGroup(huh.NewInput().Title(title).Value(&f.progress)),
	).WithWidth(45).WithShowHelp(false)

	m.state = goalsStateProgress
	m.table.Blur()

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateBrowse
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

	switch m.state {
	case goalsStateProgress:
		return m, m.progressCmd()
	case goalsStateEdit:
		return m, m.editCmd()
	}

	return m, m.createCmd()
}

func (m GoalsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := string(goalFilters[m.filterIdx])
	if filter == "" {
		filter = "all"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [f] "+activeStyle(filter)),
		framed(m.table.View()),
	)

	switch {
	case m.state == goalsStateAdd && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("New Goal", m.form.View()))
	case m.state == goalsStateEdit && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("Edit Goal", m.form.View()))
	case m.state == goalsStateProgress && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel("Update Progress", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *GoalsModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.goals))
	for _, g := range m.goals {
		progress := fmt.Sprintf("%.0f%%", g.ClampedProgress())
		if g.Financial != nil {
			progress = fmt.Sprintf("%s/%s", FormatAmount(g.Financial.CurrentAmount), FormatAmount(g.Financial.Amount))
		}

		rows = append(rows, table.Row{g.Name, string(g.Type), progress, FormatDate(g.Deadline), string(g.Status(now))})
	}

	m.table.SetRows(rows)
}

// Messages

type loadGoalsMsg struct {
	goals []*goal.Goal
	err   error
}

type goalSavedMsg struct {
	err error
}

func (m GoalsModel) loadCmd() tea.Cmd {
	filter := goalFilters[m.filterIdx]

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		goals, err := m.svc.List(ctx, filter, goal.SortDeadline)

		return loadGoalsMsg{goals: goals, err: err}
	}
}

func (m GoalsModel) createCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		params := goal.CreateParams{
			Name:        f.name,
			Type:        goal.Type(f.typ),
			Description: f.description,
		}

		if d, err := datetime.ParseDeadline(strings.TrimSpace(f.deadline), time.Local); err == nil {
			params.Deadline = d
		}

		if params.Type == goal.TypeFinancial {
			if amount, err := decimal.NewFromString(strings.TrimSpace(f.amount)); err == nil {
				params.Amount = &amount
			}
		}

		_, err := m.svc.Create(ctx, params)

		return goalSavedMsg{err: err}
	}
}

func (m GoalsModel) editCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		params := goal.UpdateParams{
			Name:        &f.name,
			Type:        new(goal.Type(f.typ)),
			Description: &f.description,
		}

		if deadline := strings.TrimSpace(f.deadline); deadline != f.prevDeadline {
			if d, err := datetime.ParseDeadline(deadline, time.Local); err == nil {
				params.Deadline = &d
			}
		}

		if goal.Type(f.typ) == goal.TypeFinancial {
			if amount, err := decimal.NewFromString(strings.TrimSpace(f.amount)); err == nil {
				params.Amount = &amount
			}
		}

		_, err := m.svc.Update(ctx, f.id, params)

		return goalSavedMsg{err: err}
	}
}

func (m GoalsModel) progressCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		var err error

		if goal.Type(f.typ) == goal.TypeFinancial {
			var amount decimal.Decimal

			amount, err = decimal.NewFromString(strings.TrimSpace(f.progress))
			if err == nil {
				_, err = m.svc.SetCurrentAmount(ctx, f.id, amount)
			}
		} else {
			var progress float64

			progress, err = strconv.ParseFloat(strings.TrimSpace(f.progress), 64)
			if err == nil {
				_, err = m.svc.SetProgress(ctx, f.id, progress)
			}
		}

		return goalSavedMsg{err: err}
	}
}

func (m GoalsModel) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return goalSavedMsg{err: m.svc.Delete(ctx, id)}
	}
}
