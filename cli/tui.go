package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fahmaliyi/hiho/vault"
)

type tuiState int

const (
	stateTable tuiState = iota
	stateShow
	stateForm
	stateSearch
	stateConfirmDelete
)

const (
	msgTTL    = 3 * time.Second
	revealTTL = 5 * time.Second
)

// TUIOptions wires the TUI to persistence and the clipboard.
type TUIOptions struct {
	Save         func() error
	Touch        func() error
	Clipboard    Clipboard
	ClipboardTTL time.Duration
}

type clearMsg struct{ seq int }

type clearClipboardMsg struct{ text string }

type hideSecretMsg struct{ seq int }

type model struct {
	store *vault.Store
	opts  TUIOptions

	state   tuiState
	visible []vault.Match
	cursor  int

	filter textinput.Model
	inputs []textinput.Model
	// editing is the entry position being edited, or -1 when adding.
	editing int

	revealed  bool
	revealSeq int
	msg       string
	msgSeq    int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	msgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("0"))
)

// RunTUI browses and edits s until the user quits.
func RunTUI(s *vault.Store, opts TUIOptions) error {
	_, err := tea.NewProgram(newModel(s, opts)).Run()
	return err
}

func newModel(s *vault.Store, opts TUIOptions) model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "search"

	labels := []string{"Name", "Username", "Password"}
	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[2].EchoMode = textinput.EchoPassword

	m := model{store: s, opts: opts, filter: filter, inputs: inputs, editing: -1}
	m.refresh()
	return m
}

// refresh recomputes the visible rows from the store and the filter.
func (m *model) refresh() {
	q := m.filter.Value()
	if q == "" {
		entries := m.store.List()
		m.visible = make([]vault.Match, len(entries))
		for i, e := range entries {
			m.visible[i] = vault.Match{Index: i, Entry: e}
		}
	} else {
		m.visible = m.store.Search(q)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) current() (vault.Match, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return vault.Match{}, false
	}
	return m.visible[m.cursor], true
}

func (m *model) flash(text string) tea.Cmd {
	m.msgSeq++
	m.msg = text
	seq := m.msgSeq
	return tea.Tick(msgTTL, func(time.Time) tea.Msg { return clearMsg{seq: seq} })
}

// persist saves the store and records activity.
func (m *model) persist(ok string) tea.Cmd {
	if m.opts.Save != nil {
		if err := m.opts.Save(); err != nil {
			return m.flash("error: " + err.Error())
		}
	}
	m.touch()
	return m.flash(ok)
}

func (m *model) touch() {
	if m.opts.Touch != nil {
		_ = m.opts.Touch()
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearMsg:
		if msg.seq == m.msgSeq {
			m.msg = ""
		}
		return m, nil
	case hideSecretMsg:
		if msg.seq == m.revealSeq {
			m.revealed = false
		}
		return m, nil
	case clearClipboardMsg:
		if m.opts.Clipboard != nil {
			if cur, err := m.opts.Clipboard.ReadAll(); err != nil || cur == msg.text {
				_ = m.opts.Clipboard.WriteAll("")
			}
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateShow:
		return m.updateShow(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateConfirmDelete:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateTable(msg)
	}
}

func (m model) View() string {
	var b strings.Builder
	switch m.state {
	case stateShow:
		m.viewShow(&b)
	case stateForm:
		m.viewForm(&b)
	default:
		m.viewTable(&b)
	}
	if m.msg != "" {
		style := msgStyle
		if strings.HasPrefix(m.msg, "error:") {
			style = errStyle
		}
		b.WriteString("\n" + style.Render(m.msg) + "\n")
	}
	return b.String()
}

func (m model) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.state = stateSearch
		return m, m.filter.Focus()
	case "esc":
		m.filter.SetValue("")
		m.refresh()
	case "enter":
		if _, ok := m.current(); ok {
			m.state = stateShow
			m.revealed = false
		}
	case "a":
		return m, m.openForm(-1)
	case "e":
		if cur, ok := m.current(); ok {
			return m, m.openForm(cur.Index)
		}
	case "d":
		if _, ok := m.current(); ok {
			m.state = stateConfirmDelete
		}
	case "c":
		if cur, ok := m.current(); ok {
			return m, m.copy(cur.Entry)
		}
	}
	return m, nil
}

func (m *model) copy(e vault.Entry) tea.Cmd {
	if m.opts.Clipboard == nil {
		return m.flash("error: no clipboard")
	}
	if err := m.opts.Clipboard.WriteAll(e.Password); err != nil {
		return m.flash("error: " + err.Error())
	}
	m.touch()
	if m.opts.ClipboardTTL <= 0 {
		return m.flash("Password copied")
	}
	text := e.Password
	return tea.Batch(
		m.flash(fmt.Sprintf("Password copied (clears in %s)", m.opts.ClipboardTTL)),
		tea.Tick(m.opts.ClipboardTTL, func(time.Time) tea.Msg { return clearClipboardMsg{text: text} }),
	)
}

func (m model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.filter.Blur()
			m.state = stateTable
			return m, nil
		case tea.KeyEsc:
			m.filter.Blur()
			m.filter.SetValue("")
			m.state = stateTable
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

func (m model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.state = stateTable
	if key.String() != "y" {
		return m, m.flash("Cancelled")
	}
	cur, ok := m.current()
	if !ok {
		return m, nil
	}
	m.store.Remove(cur.Index)
	m.refresh()
	return m, m.persist("Removed " + cur.Entry.Name)
}

func (m model) viewTable(b *strings.Builder) {
	b.WriteString(titleStyle.Render("hiho") + "\n\n")
	if m.state == stateSearch || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n\n")
	}
	if len(m.visible) == 0 {
		b.WriteString("  (no entries)\n")
	}
	for i, v := range m.visible {
		line := fmt.Sprintf("%3d  %-24s  %-24s", v.Index+1, v.Entry.Name, v.Entry.Username)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.state == stateConfirmDelete {
		if cur, ok := m.current(); ok {
			b.WriteString("\n" + errStyle.Render(fmt.Sprintf("Remove %s? (y/n)", cur.Entry.Name)) + "\n")
		}
		return
	}
	b.WriteString("\n" + helpStyle.Render("j/k move  enter show  / search  a add  e edit  d delete  c copy  q quit") + "\n")
}

func (m model) updateShow(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "q":
		m.state = stateTable
		m.revealed = false
	case "v":
		m.revealed = true
		m.revealSeq++
		seq := m.revealSeq
		return m, tea.Tick(revealTTL, func(time.Time) tea.Msg { return hideSecretMsg{seq: seq} })
	case "c":
		if cur, ok := m.current(); ok {
			return m, m.copy(cur.Entry)
		}
	case "e":
		if cur, ok := m.current(); ok {
			return m, m.openForm(cur.Index)
		}
	}
	return m, nil
}

func (m model) viewShow(b *strings.Builder) {
	cur, ok := m.current()
	if !ok {
		return
	}
	secret := "********"
	if m.revealed {
		secret = cur.Entry.Password
	}
	b.WriteString(titleStyle.Render(cur.Entry.Name) + "\n\n")
	fmt.Fprintf(b, "Username: %s\nPassword: %s\n", cur.Entry.Username, secret)
	b.WriteString("\n" + helpStyle.Render("v reveal  c copy  e edit  esc back") + "\n")
}

// openForm switches to the entry form, prefilled when editing.
func (m *model) openForm(index int) tea.Cmd {
	m.editing = index
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	first := 0
	if e, ok := m.store.Get(index); ok {
		m.inputs[0].SetValue(e.Name)
		m.inputs[1].SetValue(e.Username)
		m.inputs[2].SetValue(e.Password)
		// names are fixed once created
		first = 1
	}
	m.state = stateForm
	return m.inputs[first].Focus()
}

func (m *model) focused() int {
	for i := range m.inputs {
		if m.inputs[i].Focused() {
			return i
		}
	}
	return -1
}

func (m *model) moveFocus(delta int) tea.Cmd {
	first := 0
	if m.editing >= 0 {
		first = 1
	}
	n := len(m.inputs) - first
	i := m.focused()
	if i < first {
		i = first
	}
	m.inputs[i].Blur()
	next := first + ((i-first+delta)%n+n)%n
	return m.inputs[next].Focus()
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = stateTable
			return m, nil
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+g":
			pw, err := GeneratePassword(DefaultPasswordLength, false)
			if err != nil {
				return m, m.flash("error: " + err.Error())
			}
			m.inputs[2].SetValue(pw)
			return m, m.flash("Password generated")
		case "enter", "ctrl+s":
			return m, m.submitForm()
		}
	}

	i := m.focused()
	if i < 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

func (m *model) submitForm() tea.Cmd {
	name := strings.TrimSpace(m.inputs[0].Value())
	user := m.inputs[1].Value()
	pass := m.inputs[2].Value()
	if name == "" {
		return m.flash("error: name is required")
	}
	if pass == "" {
		var err error
		if pass, err = GeneratePassword(DefaultPasswordLength, false); err != nil {
			return m.flash("error: " + err.Error())
		}
	}

	var done string
	if m.editing >= 0 {
		if err := m.store.Edit(m.editing, &user, &pass); err != nil {
			return m.flash("error: " + err.Error())
		}
		done = "Updated " + name
	} else {
		m.store.Add(vault.Entry{Name: name, Username: user, Password: pass})
		done = "Added " + name
	}
	m.state = stateTable
	m.editing = -1
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.refresh()
	return m.persist(done)
}

func (m model) viewForm(b *strings.Builder) {
	title := "Add entry"
	if m.editing >= 0 {
		title = "Edit entry"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for _, ti := range m.inputs {
		fmt.Fprintf(b, "%-9s %s\n", ti.Placeholder+":", ti.View())
	}
	b.WriteString("\n" + helpStyle.Render("tab next  ctrl+g generate  enter save  esc cancel") + "\n")
}
