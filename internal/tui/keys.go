package tui

import "github.com/charmbracelet/bubbles/key"

// authKeys holds the bindings shared by the login and register screens.
type authKeys struct {
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Register key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns the auth bindings for the help bar.
func (k authKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Register, k.Back, k.Quit}
}

// FullHelp returns the auth bindings grouped for expanded help.
func (k authKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.Register, k.Back, k.Quit},
	}
}

// bookKeys holds the bindings of the main screen.
type bookKeys struct {
	Up     key.Binding
	Down   key.Binding
	New    key.Binding
	Edit   key.Binding
	Save   key.Binding
	Delete key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// ShortHelp returns the main screen bindings for the help bar.
func (k bookKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Save, k.Delete, k.Cancel, k.Logout, k.Quit}
}

// FullHelp returns the main screen bindings grouped for expanded help.
func (k bookKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.New, k.Edit, k.Save, k.Delete, k.Cancel},
		{k.Logout, k.Quit},
	}
}

// AuthKeyMap returns the bindings for the login and register screens.
// Register is only meaningful on login and Back only on register.
func AuthKeyMap() authKeys {
	return authKeys{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "register"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// BookKeyMap returns the bindings for the main screen.
func BookKeyMap() bookKeys {
	return bookKeys{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "ctrl+e"),
			key.WithHelp("enter", "edit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
