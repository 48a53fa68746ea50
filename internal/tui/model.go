// Package tui implements the address book form interface: a login screen,
// a register screen and the main contact screen. Store calls run
// synchronously inside Update.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/addressbook/internal/logging"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenBook
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx   context.Context
	store types.ContactStore
	log   *logging.Logger

	screen   Screen
	width    int
	help     help.Model
	authKeys authKeys
	bookKeys bookKeys

	login    authForm
	register authForm
	book     book
}

// NewModel creates a model on the login screen. store must be disconnected;
// the model connects it on login and releases it on logout and quit.
func NewModel(ctx context.Context, store types.ContactStore, log *logging.Logger) Model {
	if log == nil {
		log = logging.NewNop()
	}
	m := Model{
		ctx:      ctx,
		store:    store,
		log:      log,
		screen:   ScreenLogin,
		help:     help.New(),
		authKeys: AuthKeyMap(),
		bookKeys: BookKeyMap(),
		login:    newAuthForm("Username", "Password"),
		register: newAuthForm("Username", "Password", "Re-enter"),
		book:     newBook(),
	}
	m.login.setFocus(0)
	return m
}

// Screen returns the active screen.
func (m Model) Screen() Screen { return m.screen }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes key messages to the active screen. Quit is global.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.bookKeys.Quit) {
			m.release()
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenRegister:
			return m.updateRegister(msg)
		case ScreenBook:
			return m.updateBook(msg)
		default:
			return m.updateLogin(msg)
		}
	}

	// Blink and other ticks go to whichever input has focus.
	var cmd tea.Cmd
	switch m.screen {
	case ScreenRegister:
		cmd = m.register.update(msg)
	case ScreenLogin:
		cmd = m.login.update(msg)
	case ScreenBook:
		if m.book.mode == modeBrowse {
			m.book.search, cmd = m.book.search.Update(msg)
		} else {
			m.book.fields[m.book.focus], cmd = m.book.fields[m.book.focus].Update(msg)
		}
	}
	return m, cmd
}

// logout commits and disconnects, then shows the login screen.
func (m Model) logout() (tea.Model, tea.Cmd) {
	user := m.store.CurrentUser()
	m.release()
	m.book = newBook()
	m.screen = ScreenLogin
	cmd := m.login.reset()
	m.login.notice = "Logged out " + user
	return m, cmd
}

// release commits and disconnects a connected store.
func (m Model) release() {
	if !m.store.Connected() {
		return
	}
	if err := m.store.CloseOut(); err != nil {
		m.log.Error("close store failed", "user", m.store.CurrentUser(), "error", err)
	}
}

// View renders the active screen and its help bar.
func (m Model) View() string {
	var body string
	var keys help.KeyMap
	switch m.screen {
	case ScreenRegister:
		body = m.register.view("Register")
		keys = m.authKeys
	case ScreenBook:
		body = m.book.view(m.store.CurrentUser())
		keys = m.bookKeys
	default:
		body = m.login.view("Address Book Login")
		keys = m.authKeys
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(keys))
}

// Run starts the program on the terminal and blocks until the user quits.
// A store still connected on exit is closed out.
func Run(ctx context.Context, store types.ContactStore, log *logging.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(ctx, store, log), opts...).Run()
	if store.Connected() {
		if closeErr := store.CloseOut(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
