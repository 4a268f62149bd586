package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
)

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// AuthenticatedMsg is sent once a login or registration succeeds.
type AuthenticatedMsg struct {
	User *user.User
}

type authFailedMsg struct {
	err error
}

type AuthModel struct {
	CommonModel
	sess *session.Manager

	form       *huh.Form
	fields     *authFields
	submitting bool
	err        error
}

// authFields outlives the value copies bubbletea makes of the model, so the form can bind to it.
type authFields struct {
	mode     string
	name     string
	email    string
	password string
	confirm  string
}

func NewAuthModel(sess *session.Manager) AuthModel {
	m := AuthModel{sess: sess, fields: &authFields{mode: modeLogin}}
	m.form = m.buildForm()

	return m
}

func (m AuthModel) Title() string     { return "Sign in" }
func (m AuthModel) ShortHelp() string { return "Enter: confirm | Ctrl+C: quit" }

func (m AuthModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AuthModel) buildForm() *huh.Form {
	f := m.fields
	isLogin := func() bool { return f.mode == modeLogin }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("LifeManager").
				Options(
					huh.NewOption("Sign in", modeLogin),
					huh.NewOption("Create an account", modeRegister),
				).
				Value(&f.mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.password),
		).WithHideFunc(func() bool { return !isLogin() }),
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name),
			huh.NewInput().Title("Email").Value(&f.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&f.confirm),
		).WithHideFunc(isLogin),
	).WithWidth(50).WithShowHelp(false)
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if failed, ok := msg.(authFailedMsg); ok {
		m.submitting = false
		m.err = failed.err
		m.fields.password, m.fields.confirm = "", ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true

	return m, m.submitCmd()
}

func (m AuthModel) submitCmd() tea.Cmd {
	f := *m.fields
	mode := f.mode
	params := user.RegisterParams{Name: f.name, Email: f.email, Password: f.password, ConfirmPassword: f.confirm}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		var (
			u   *user.User
			err error
		)

		if mode == modeRegister {
			u, err = m.sess.Register(ctx, params)
		} else {
			u, err = m.sess.Login(ctx, params.Email, params.Password)
		}

		if err != nil {
			return authFailedMsg{err: err}
		}

		return AuthenticatedMsg{User: u}
	}
}

func (m AuthModel) View() string {
	if m.submitting {
		return lipgloss.NewStyle().Padding(2).Render("Signing in...")
	}

	content := m.form.View()
	if m.err != nil {
		content = errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}
