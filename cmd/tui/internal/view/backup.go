package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/report"
)

const (
	actionExport = "export"
	actionImport = "import"
	actionReport = "report"
)

type backupState int

const (
	backupStateForm backupState = iota
	backupStateWorking
	backupStateResult
)

type BackupModel struct {
	CommonModel
	backups *backup.Service
	reports *report.Service

	state   backupState
	form    *huh.Form
	fields  *backupFields
	spinner spinner.Model

	summary string
	err     error
}

type backupFields struct {
	action string
	path   string
	period string
}

func NewBackupModel(backups *backup.Service, reports *report.Service) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := BackupModel{
		backups: backups,
		reports: reports,
		fields:  &backupFields{action: actionExport, path: "./exports", period: string(metrics.PeriodMonth)},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m BackupModel) Title() string { return "Backup & Reports" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back to menu"
	case backupStateWorking:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackupModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Export a backup", actionExport),
					huh.NewOption("Import a backup", actionImport),
					huh.NewOption("Write a financial report", actionReport),
				).
				Value(&f.action),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("This week", string(metrics.PeriodWeek)),
					huh.NewOption("This month", string(metrics.PeriodMonth)),
					huh.NewOption("This year", string(metrics.PeriodYear)),
					huh.NewOption("All time", string(metrics.PeriodAll)),
				).
				Value(&f.period),
		).WithHideFunc(func() bool { return f.action != actionReport }),
		huh.NewGroup(
			huh.NewInput().
				Title("Path").
				DescriptionFunc(func() string {
					if f.action == actionImport {
						return "Backup file to read. Current data will be replaced."
					}

					return "Directory will be created if it doesn't exist"
				}, &f.action).
				Value(&f.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStateForm:
		return m.updateForm(msg)
	case backupStateWorking:
		return m.updateWorking(msg)
	case backupStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m BackupModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = backupStateWorking
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runCmd())
}

func (m BackupModel) updateWorking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(backupResultMsg); ok {
		m.state = backupStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case backupStateWorking:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Working...", m.spinner.View()))
	case backupStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Done!")

		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary))
	}

	return ""
}

type backupResultMsg struct {
	body string
	err  error
}

func (m BackupModel) runCmd() tea.Cmd {
	f := *m.fields
	path := strings.TrimSpace(f.path)

	return func() tea.Msg {
		switch f.action {
		case actionImport:
			return m.importFile(path)
		case actionReport:
			return m.writeReport(path, metrics.Period(f.period))
		}

		return m.exportTo(path)
	}
}

func (m BackupModel) exportTo(dir string) tea.Msg {
	doc, err := m.backups.Export()
	if err != nil {
		return backupResultMsg{err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return backupResultMsg{err: fmt.Errorf("creating directory: %w", err)}
	}

	path := filepath.Join(dir, backup.Filename(doc))

	file, err := os.Create(path)
	if err != nil {
		return backupResultMsg{err: fmt.Errorf("creating file: %w", err)}
	}
	defer file.Close()

	if err := backup.Encode(file, doc); err != nil {
		return backupResultMsg{err: err}
	}

	return backupResultMsg{body: fmt.Sprintf("Saved %d tasks, %d transactions and %d goals to %s",
		len(doc.Data.Tasks), len(doc.Data.Transactions), len(doc.Data.Goals), path)}
}

func (m BackupModel) importFile(path string) tea.Msg {
	file, err := os.Open(path)
	if err != nil {
		return backupResultMsg{err: fmt.Errorf("opening backup: %w", err)}
	}
	defer file.Close()

	ctx, cancel := OpCtx()
	defer cancel()

	doc, err := m.backups.Import(ctx, file)
	if err != nil {
		return backupResultMsg{err: err}
	}

	return backupResultMsg{body: fmt.Sprintf("Imported backup v%s from %s (%s): %d tasks, %d transactions, %d goals",
		doc.Version, doc.User.Name, FormatDate(doc.ExportDate),
		len(doc.Data.Tasks), len(doc.Data.Transactions), len(doc.Data.Goals))}
}

func (m BackupModel) writeReport(dir string, period metrics.Period) tea.Msg {
	rep, err := m.reports.Financial(period)
	if err != nil {
		return backupResultMsg{err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return backupResultMsg{err: fmt.Errorf("creating directory: %w", err)}
	}

	text := rep.Text()
	path := filepath.Join(dir, strings.TrimSuffix(rep.Filename(), ".json")+".txt")

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return backupResultMsg{err: fmt.Errorf("writing report: %w", err)}
	}

	return backupResultMsg{body: text + "\nSaved to " + path}
}
