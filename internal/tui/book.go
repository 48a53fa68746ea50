package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Form field indices.
const (
	fieldFirst = iota
	fieldLast
	fieldPhone
	fieldEmail
	fieldStreet
	fieldCity
	fieldState
	fieldZip
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"First Name", "Last Name", "Phone Number", "E-mail Address",
	"Street", "City", "State", "Zip Code",
}

// fieldMessages are shown after the last input of each group.
var fieldMessages = map[string]struct {
	row  int
	text string
}{
	types.FieldName:  {fieldLast, "Enter a first or last name"},
	types.FieldPhone: {fieldPhone, "Phone numbers are exactly 10 digits"},
	types.FieldEmail: {fieldEmail, "E-mail must look like name@domain.tld"},
	types.FieldHome:  {fieldZip, "Fill every address line; zip is 12345 or 12345-6789"},
}

const msgNameTaken = "A contact with this name already exists"

type formMode int

const (
	modeBrowse formMode = iota
	modeNew
	modeEdit
)

// book is the main screen: a live-filtered listing and a contact form that
// is enabled by New or Edit.
type book struct {
	search   textinput.Model
	contacts []types.Contact
	selected int

	fields   [fieldCount]textinput.Model
	focus    int
	mode     formMode
	original types.Contact
	errs     map[string]string

	status    string
	statusErr bool
}

func newBook() book {
	b := book{search: textinput.New()}
	b.search.Prompt = "Search: "
	b.search.Placeholder = "any field"
	b.search.Width = 28
	for i := range b.fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 32
		in.CharLimit = 128
		b.fields[i] = in
	}
	b.fields[fieldPhone].CharLimit = 10
	b.fields[fieldZip].CharLimit = 10
	return b
}

func (b *book) current() (types.Contact, bool) {
	if b.selected < 0 || b.selected >= len(b.contacts) {
		return types.Contact{}, false
	}
	return b.contacts[b.selected], true
}

// selectContact moves the cursor to c when it is listed.
func (b *book) selectContact(c types.Contact) {
	for i, listed := range b.contacts {
		if listed.SameName(c) {
			b.selected = i
			return
		}
	}
}

func (b *book) clamp() {
	if b.selected >= len(b.contacts) {
		b.selected = len(b.contacts) - 1
	}
	if b.selected < 0 {
		b.selected = 0
	}
}

// fill copies c into the form inputs.
func (b *book) fill(c types.Contact) {
	h := c.Home()
	values := [fieldCount]string{
		c.FirstName(), c.LastName(), c.Phone(), c.Email(),
		h.Street, h.City, h.State, h.Zip,
	}
	for i, v := range values {
		b.fields[i].SetValue(v)
	}
}

func (b *book) startNew() tea.Cmd {
	for i := range b.fields {
		b.fields[i].Reset()
	}
	b.mode = modeNew
	b.original = types.Contact{}
	b.errs = nil
	b.setStatus("New contact", false)
	return b.focusField(fieldFirst)
}

func (b *book) startEdit(c types.Contact) tea.Cmd {
	b.fill(c)
	b.mode = modeEdit
	b.original = c
	b.errs = nil
	b.setStatus("Editing "+c.Name(), false)
	return b.focusField(fieldFirst)
}

// stopEditing disables the form and returns focus to the search box.
func (b *book) stopEditing() tea.Cmd {
	b.mode = modeBrowse
	b.errs = nil
	for i := range b.fields {
		b.fields[i].Blur()
	}
	return b.search.Focus()
}

func (b *book) focusField(i int) tea.Cmd {
	b.search.Blur()
	b.focus = i
	var cmd tea.Cmd
	for j := range b.fields {
		if j == i {
			cmd = b.fields[j].Focus()
			continue
		}
		b.fields[j].Blur()
	}
	return cmd
}

func (b *book) moveField(delta int) tea.Cmd {
	return b.focusField(((b.focus+delta)%fieldCount + fieldCount) % fieldCount)
}

// formContact validates the form. Field errors are kept for rendering.
func (b *book) formContact() (types.Contact, error) {
	v := func(i int) string { return strings.TrimSpace(b.fields[i].Value()) }
	c, err := types.NewContact(v(fieldFirst), v(fieldLast), v(fieldPhone), v(fieldEmail), types.Home{
		Street: v(fieldStreet),
		City:   v(fieldCity),
		State:  v(fieldState),
		Zip:    v(fieldZip),
	})
	b.errs = nil
	if err != nil {
		b.errs = make(map[string]string)
		for _, f := range types.FieldOf(err) {
			b.errs[f] = fieldMessages[f].text
		}
	}
	return c, err
}

func (b *book) setStatus(s string, isErr bool) {
	b.status, b.statusErr = s, isErr
}

func (m Model) updateBook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.bookKeys
	switch {
	case key.Matches(msg, k.Logout):
		return m.logout()
	case key.Matches(msg, k.New):
		return m, m.book.startNew()
	case key.Matches(msg, k.Save):
		if m.book.mode == modeBrowse {
			return m, nil
		}
		return m.save()
	case key.Matches(msg, k.Delete):
		return m.deleteContact()
	case key.Matches(msg, k.Cancel):
		if m.book.mode != modeBrowse {
			m.book.setStatus("", false)
			return m, m.book.stopEditing()
		}
		return m, nil
	}

	if m.book.mode == modeBrowse {
		switch {
		case key.Matches(msg, k.Up):
			m.book.selected--
			m.book.clamp()
			return m, nil
		case key.Matches(msg, k.Down):
			m.book.selected++
			m.book.clamp()
			return m, nil
		case key.Matches(msg, k.Edit):
			if c, ok := m.book.current(); ok {
				return m, m.book.startEdit(c)
			}
			return m, nil
		}
		before := m.book.search.Value()
		var cmd tea.Cmd
		m.book.search, cmd = m.book.search.Update(msg)
		if m.book.search.Value() != before {
			m.book.selected = 0
			m.refresh()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, k.Next), msg.Type == tea.KeyEnter:
		return m, m.book.moveField(1)
	case key.Matches(msg, k.Prev):
		return m, m.book.moveField(-1)
	}
	var cmd tea.Cmd
	m.book.fields[m.book.focus], cmd = m.book.fields[m.book.focus].Update(msg)
	return m, cmd
}

// save adds or edits the contact in the form and commits.
func (m Model) save() (tea.Model, tea.Cmd) {
	c, err := m.book.formContact()
	if err != nil {
		if len(m.book.errs) == 0 {
			m.book.setStatus(err.Error(), true)
		} else {
			m.book.setStatus("Fix the highlighted fields", true)
		}
		return m, nil
	}

	switch m.book.mode {
	case modeNew:
		added, err := m.store.AddContact(m.ctx, c)
		if err != nil {
			return m.storeFailed("add contact", err)
		}
		if !added {
			m.book.errs = map[string]string{types.FieldName: msgNameTaken}
			m.book.setStatus(msgNameTaken, true)
			return m, nil
		}
	case modeEdit:
		if _, err := m.store.EditContact(m.ctx, m.book.original, c); err != nil {
			return m.storeFailed("edit contact", err)
		}
	}
	if err := m.store.Commit(); err != nil {
		return m.storeFailed("commit", err)
	}

	cmd := m.book.stopEditing()
	m.refresh()
	m.book.selectContact(c)
	m.book.setStatus("Saved "+c.Name(), false)
	return m, cmd
}

// deleteContact removes the contact being edited, or the selected one, and
// every other contact sharing its name.
func (m Model) deleteContact() (tea.Model, tea.Cmd) {
	target, ok := m.book.current()
	if m.book.mode == modeEdit {
		target, ok = m.book.original, true
	}
	if !ok || m.book.mode == modeNew {
		return m, nil
	}

	n, err := m.store.DeleteContact(m.ctx, target)
	if err != nil {
		return m.storeFailed("delete contact", err)
	}
	if err := m.store.Commit(); err != nil {
		return m.storeFailed("commit", err)
	}

	cmd := m.book.stopEditing()
	m.refresh()
	m.book.setStatus(fmt.Sprintf("Deleted %s (%d)", target.Name(), n), false)
	return m, cmd
}

func (m Model) storeFailed(op string, err error) (tea.Model, tea.Cmd) {
	m.log.Error(op+" failed", "user", m.store.CurrentUser(), "error", err)
	m.book.setStatus(err.Error(), true)
	return m, nil
}

// refresh reloads the listing from the search box.
func (m *Model) refresh() {
	term := m.book.search.Value()
	var (
		list []types.Contact
		err  error
	)
	if term == "" {
		list, err = m.store.Contacts(m.ctx)
	} else {
		list, err = m.store.Search(m.ctx, term)
	}
	if err != nil {
		m.log.Error("load contacts failed", "error", err)
		m.book.setStatus(err.Error(), true)
		return
	}
	m.book.contacts = list
	m.book.clamp()
}

func (b book) view(user string) string {
	listing := []string{b.search.View(), ""}
	if len(b.contacts) == 0 {
		listing = append(listing, mutedStyle.Render("No contacts"))
	}
	for i, c := range b.contacts {
		if i == b.selected {
			listing = append(listing, selectedStyle.Render("> "+c.Name()))
			continue
		}
		listing = append(listing, "  "+c.Name())
	}
	left := panel(b.mode == modeBrowse).Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, listing...))

	var form []string
	preview, hasPreview := b.current()
	previewValues := [fieldCount]string{}
	if hasPreview {
		h := preview.Home()
		previewValues = [fieldCount]string{
			preview.FirstName(), preview.LastName(), preview.Phone(), preview.Email(),
			h.Street, h.City, h.State, h.Zip,
		}
	}
	for i := range b.fields {
		value := b.fields[i].View()
		if b.mode == modeBrowse {
			value = mutedStyle.Render(previewValues[i])
		}
		form = append(form, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(fieldLabels[i]), value))
		for field, fm := range fieldMessages {
			if fm.row == i && b.errs[field] != "" {
				form = append(form, errorStyle.Render(strings.Repeat(" ", labelWidth)+b.errs[field]))
			}
		}
	}
	right := panel(b.mode != modeBrowse).Render(lipgloss.JoinVertical(lipgloss.Left, form...))

	status := mutedStyle.Render("Logged in as " + user)
	if b.status != "" {
		if b.statusErr {
			status = errorStyle.Render(b.status)
		} else {
			status = noticeStyle.Render(b.status)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Address Book"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		status,
	)
}
