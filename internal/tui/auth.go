package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// User-facing messages of the login and register screens.
const (
	msgUserMissing     = "User does not exist"
	msgWrongPassword   = "Incorrect password"
	msgPasswordsDiffer = "Passwords do not match"
	msgUserTaken       = "User already exists"
	msgEmptyUsername   = "Enter a username"
	msgEmptyPassword   = "Password must not be empty"
	msgBadUsername     = "Usernames start with a letter or underscore and use only letters, digits and underscores"
)

// authForm is a vertical list of text inputs. Every input after the first
// is a password.
type authForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
	notice string
}

func newAuthForm(labels ...string) authForm {
	f := authForm{labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 32
		if i > 0 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	return f
}

// setFocus focuses input i and blurs the rest.
func (f *authForm) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

// move shifts focus by delta, wrapping around.
func (f *authForm) move(delta int) tea.Cmd {
	n := len(f.inputs)
	return f.setFocus(((f.focus+delta)%n + n) % n)
}

func (f *authForm) last() bool { return f.focus == len(f.inputs)-1 }

// value returns input i; the username is trimmed.
func (f *authForm) value(i int) string {
	if i == 0 {
		return strings.TrimSpace(f.inputs[i].Value())
	}
	return f.inputs[i].Value()
}

// reset clears values and messages and focuses the first input.
func (f *authForm) reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.err, f.notice = "", ""
	return f.setFocus(0)
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f authForm) view(title string) string {
	rows := []string{titleStyle.Render(title)}
	for i, in := range f.inputs {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.labels[i]), in.View()))
	}
	rows = append(rows, "")
	switch {
	case f.err != "":
		rows = append(rows, errorStyle.Render(f.err))
	case f.notice != "":
		rows = append(rows, noticeStyle.Render(f.notice))
	}
	return panel(true).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// authMessage turns a store error from Connect or RegisterUser into text
// for the form.
func authMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidUsername):
		return msgBadUsername
	case errors.Is(err, types.ErrInvalidPassword):
		return msgEmptyPassword
	case errors.Is(err, types.ErrUserAlreadyExists):
		return msgUserTaken
	case errors.Is(err, types.ErrUserNotFound):
		return msgUserMissing
	default:
		return err.Error()
	}
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.authKeys
	switch {
	case key.Matches(msg, k.Register):
		m.screen = ScreenRegister
		return m, m.register.reset()
	case key.Matches(msg, k.Next):
		return m, m.login.move(1)
	case key.Matches(msg, k.Prev):
		return m, m.login.move(-1)
	case key.Matches(msg, k.Submit):
		if !m.login.last() {
			return m, m.login.move(1)
		}
		return m.submitLogin()
	}
	return m, m.login.update(msg)
}

// submitLogin connects as the entered user and checks the password. The
// store stays connected only when both succeed.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	user, pw := m.login.value(0), m.login.value(1)
	m.login.notice = ""
	if user == "" {
		m.login.err = msgEmptyUsername
		return m, m.login.setFocus(0)
	}

	if err := m.store.Connect(m.ctx, user); err != nil {
		m.login.err = authMessage(err)
		return m, m.login.setFocus(0)
	}
	if msg := m.checkCredentials(user, pw); msg != "" {
		if err := m.store.Close(); err != nil {
			m.log.Error("close after failed login", "user", user, "error", err)
		}
		m.login.err = msg
		m.login.inputs[1].Reset()
		if msg == msgUserMissing {
			return m, m.login.setFocus(0)
		}
		return m, m.login.setFocus(1)
	}

	m.log.Info("login", "user", user)
	m.login.reset()
	m.screen = ScreenBook
	m.book = newBook()
	m.refresh()
	return m, m.book.search.Focus()
}

// checkCredentials returns "" when user exists and pw matches, otherwise
// the message to show.
func (m Model) checkCredentials(user, pw string) string {
	exists, err := m.store.UserExists(m.ctx, user)
	if err != nil {
		return err.Error()
	}
	if !exists {
		return msgUserMissing
	}
	matched, err := m.store.CheckPassword(m.ctx, user, pw)
	if err != nil {
		return err.Error()
	}
	if !matched {
		return msgWrongPassword
	}
	return ""
}

func (m Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.authKeys
	switch {
	case key.Matches(msg, k.Back):
		m.screen = ScreenLogin
		m.login.err = ""
		return m, m.login.setFocus(0)
	case key.Matches(msg, k.Next):
		return m, m.register.move(1)
	case key.Matches(msg, k.Prev):
		return m, m.register.move(-1)
	case key.Matches(msg, k.Submit):
		if !m.register.last() {
			return m, m.register.move(1)
		}
		return m.submitRegister()
	}
	return m, m.register.update(msg)
}

// submitRegister creates the account and returns to login with the
// username filled in.
func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	user, pw, again := m.register.value(0), m.register.value(1), m.register.value(2)
	switch {
	case user == "":
		m.register.err = msgEmptyUsername
		return m, m.register.setFocus(0)
	case pw != again:
		m.register.err = msgPasswordsDiffer
		m.register.inputs[2].Reset()
		return m, m.register.setFocus(2)
	}

	if err := m.store.Connect(m.ctx, user); err != nil {
		m.register.err = authMessage(err)
		return m, m.register.setFocus(0)
	}
	if err := m.store.RegisterUser(m.ctx, user, pw); err != nil {
		if closeErr := m.store.Close(); closeErr != nil {
			m.log.Error("close after failed registration", "user", user, "error", closeErr)
		}
		m.register.err = authMessage(err)
		return m, m.register.setFocus(0)
	}
	if err := m.store.CloseOut(); err != nil {
		m.register.err = err.Error()
		return m, nil
	}

	m.screen = ScreenLogin
	cmd := m.login.reset()
	m.login.inputs[0].SetValue(user)
	m.login.notice = "Account created for " + user
	m.register.reset()
	return m, tea.Batch(cmd, m.login.setFocus(1))
}
