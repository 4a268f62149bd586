package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

type transactionsState int

const (
	transactionsStateBrowse transactionsState = iota
	transactionsStateAdd
)

var periods = []metrics.Period{metrics.PeriodMonth, metrics.PeriodWeek, metrics.PeriodYear, metrics.PeriodAll}

type TransactionsModel struct {
	CommonModel
	svc *transaction.Service

	state   transactionsState
	table   table.Model
	txs     []*transaction.Transaction
	summary metrics.Financial
	form    *huh.Form
	fields  *transactionFields

	periodIdx int

	err    error
	status string
}

type transactionFields struct {
	typ         transaction.Type
	description string
	amount      string
	category    string
	date        string
}

func NewTransactionsModel(svc *transaction.Service) TransactionsModel {
	return TransactionsModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Description", Width: 32},
			{Title: "Category", Width: 14},
			{Title: "Amount", Width: 12},
		}),
		fields: &transactionFields{},
	}
}

func (m TransactionsModel) Title() string { return "Finances" }
func (m TransactionsModel) ShortHelp() string {
	if m.state == transactionsStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | i: add income | e: add expense | x: delete | p: period"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTransactionsMsg:
		m.err = msg.err
		m.txs = msg.txs
		m.summary = msg.summary
		m.refreshTable()

		return m, nil
	case transactionSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == transactionsStateAdd {
		return m.updateAdd(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "i":
			return m.enterAddMode(transaction.TypeIncome)
		case "e":
			return m.enterAddMode(transaction.TypeExpense)
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txs) {
				return m, m.deleteCmd(m.txs[idx].ID)
			}
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periods)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAddMode(typ transaction.Type) (tea.Model, tea.Cmd) {
	categories := typ.Categories()

	*m.fields = transactionFields{typ: typ, category: string(categories[0]), date: FormatDate(time.Now())}
	f := m.fields

	options := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		options[i] = huh.NewOption(string(c), string(c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&f.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("enter a positive amount")
					}

					return nil
				}),
			huh.NewSelect[string]().Title("Category").Options(options...).Value(&f.category),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&f.date).Validate(validOptionalDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = transactionsStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = transactionsStateBrowse
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

func (m TransactionsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Period: [p] %s | Income: %s | Expenses: %s | Balance: %s",
		activeStyle(string(periods[m.periodIdx])),
		FormatAmount(m.summary.Income), FormatAmount(m.summary.Expenses), FormatAmount(m.summary.Balance))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	)

	if m.state == transactionsStateAdd && m.form != nil {
		title := "New Expense"
		if m.fields.typ == transaction.TypeIncome {
			title = "New Income"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, sidePanel(title, m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Description,
			string(tx.Category),
			FormatAmount(tx.Signed()),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadTransactionsMsg struct {
	txs     []*transaction.Transaction
	summary metrics.Financial
	err     error
}

type transactionSavedMsg struct {
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	period := periods[m.periodIdx]

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		all, err := m.svc.List(ctx, transaction.ListFilter{})
		if err != nil {
			return loadTransactionsMsg{err: err}
		}

		now := time.Now()

		return loadTransactionsMsg{
			txs:     metrics.InPeriod(all, period, now),
			summary: metrics.FinancialSummary(all, period, now),
		}
	}
}

func (m TransactionsModel) createCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
		if err != nil {
			return transactionSavedMsg{err: err}
		}

		params := transaction.CreateParams{
			Type:        f.typ,
			Description: f.description,
			Amount:      amount,
			Category:    transaction.Category(f.category),
		}

		if d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(f.date), time.Local); err == nil {
			params.Date = &d
		}

		_, err = m.svc.Create(ctx, params)

		return transactionSavedMsg{err: err}
	}
}

func (m TransactionsModel) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return transactionSavedMsg{err: m.svc.Delete(ctx, id)}
	}
}
