package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/coinplan/internal/cli/formatter"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// queueLoadedMsg carries the stored queue into the editor.
type queueLoadedMsg struct {
	q   []domain.SpendingEvent
	err error
}

// queueSavedMsg reports the outcome of writing the working copy back.
type queueSavedMsg struct{ err error }

type queueKeyMap struct {
	Up, Down, Grab, Chain, Clone, Remove, Save, Reload, Quit key.Binding
}

func (k queueKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Grab, k.Chain, k.Clone, k.Remove, k.Save, k.Quit}
}

func (k queueKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Reload}}
}

var queueKeys = queueKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Grab:   key.NewBinding(key.WithKeys(" ", "m"), key.WithHelp("space", "grab/drop")),
	Chain:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "chain")),
	Clone:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clone")),
	Remove: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	Save:   key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "discard changes")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// queueEditor edits a working copy of the queue with the pure queue
// operations and writes it back in one save.
type queueEditor struct {
	app     *App
	q       []domain.SpendingEvent
	cursor  int
	grabbed bool
	dirty   bool
	// confirmQuit is set after a quit attempt with unsaved changes.
	confirmQuit bool
	loading     bool
	status      string
	err         error
	help        help.Model
	width       int
}

func newQueueEditor(app *App) *queueEditor {
	return &queueEditor{app: app, loading: true, help: help.New()}
}

func (m *queueEditor) Init() tea.Cmd {
	return m.load()
}

func (m *queueEditor) load() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		q, err := app.Queue.List(context.Background())
		return queueLoadedMsg{q: q, err: err}
	}
}

func (m *queueEditor) save() tea.Cmd {
	app := m.app
	q := queue.Sorted(m.q)
	return func() tea.Msg {
		return queueSavedMsg{err: app.Queue.Save(context.Background(), q)}
	}
}

func (m *queueEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case queueLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.q = msg.q
			m.dirty = false
			m.grabbed = false
			m.cursor = min(m.cursor, max(len(m.q)-1, 0))
		}
		return m, nil

	case queueSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.dirty = false
		m.status = "saved"
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *queueEditor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, queueKeys.Quit) {
		if m.dirty && !m.confirmQuit && msg.String() != "ctrl+c" {
			m.confirmQuit = true
			m.status = "unsaved changes: q again to discard, s to save"
			return m, nil
		}
		return m, tea.Quit
	}
	m.confirmQuit = false

	if m.loading || len(m.q) == 0 {
		return m, nil
	}
	cur := m.q[m.cursor]
	m.status = ""

	switch {
	case key.Matches(msg, queueKeys.Up):
		if m.grabbed {
			m.shift(-1)
		} else if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, queueKeys.Down):
		if m.grabbed {
			m.shift(1)
		} else if m.cursor < len(m.q)-1 {
			m.cursor++
		}
	case key.Matches(msg, queueKeys.Grab):
		if !m.grabbed && !queue.IsHead(m.q, cur.ID) {
			m.status = "chain members move with their head"
			return m, nil
		}
		m.grabbed = !m.grabbed
	case key.Matches(msg, queueKeys.Chain):
		out, res := queue.ToggleChain(m.q, cur.ID)
		m.status = chainMessage(&cur, res)
		if res.Changed() {
			m.apply(out, cur.ID)
		}
	case key.Matches(msg, queueKeys.Clone):
		if out, ok := queue.Clone(m.q, cur.ID); ok {
			m.apply(out, cur.ID)
			m.cursor++
			m.status = "cloned " + cur.Name
		}
	case key.Matches(msg, queueKeys.Remove):
		if out, ok := queue.Remove(m.q, cur.ID); ok {
			m.grabbed = false
			m.apply(out, "")
			m.cursor = min(m.cursor, max(len(m.q)-1, 0))
			m.status = "removed " + cur.Name
		}
	case key.Matches(msg, queueKeys.Save):
		m.grabbed = false
		return m, m.save()
	case key.Matches(msg, queueKeys.Reload):
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

// shift swaps the grabbed unit with the neighbouring unit in direction dir.
// Units are whole chains, so a move never splits one.
func (m *queueEditor) shift(dir int) {
	id := m.q[m.cursor].ID
	members := queue.ChainMembers(m.q, id)
	first := queue.IndexOf(m.q, members[0].ID)
	last := queue.IndexOf(m.q, members[len(members)-1].ID)

	var from, to int
	if dir < 0 {
		if first == 0 {
			return
		}
		prevHead, _ := queue.ChainHead(m.q, m.q[first-1].ID)
		from, to = first, queue.IndexOf(m.q, prevHead)
	} else {
		if last >= len(m.q)-1 {
			return
		}
		nextHead, _ := queue.ChainHead(m.q, m.q[last+1].ID)
		from, to = queue.IndexOf(m.q, nextHead), first
	}

	out, ok := queue.Reorder(m.q, from, to)
	if !ok {
		m.status = "cannot move past that event"
		return
	}
	m.apply(out, id)
}

// apply replaces the working copy and keeps the cursor on follow when set.
func (m *queueEditor) apply(out []domain.SpendingEvent, follow string) {
	m.q = out
	m.dirty = true
	if follow != "" {
		if i := queue.IndexOf(out, follow); i >= 0 {
			m.cursor = i
		}
	}
}

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	grabbedStyle = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorBlue)
)

func (m *queueEditor) View() string {
	if m.loading {
		return formatter.Dim("Loading queue...")
	}
	if m.err != nil {
		return formatter.StyleRed.Render("Error: " + m.err.Error())
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("QUEUE"))
	if m.dirty {
		b.WriteString(" " + formatter.StyleYellow.Render("(modified)"))
	}
	b.WriteString("\n\n")

	if len(m.q) == 0 {
		b.WriteString(formatter.Dim("The queue is empty. Add events with 'coinplan event add'."))
		b.WriteString("\n")
	}
	for i, e := range m.q {
		line := fmt.Sprintf("%-4s %s%s  %s %s",
			formatter.Position(i+1),
			formatter.ChainMarker(queue.Predecessor(m.q, e.ID) != ""),
			e.Name,
			formatter.FormatAmount(decimal.NewFromFloat(e.Amount), m.app.places()),
			formatter.CurrencyBadge(e.CurrencyID),
		)
		switch {
		case i == m.cursor && m.grabbed:
			b.WriteString(cursorStyle.Render("≡ ") + grabbedStyle.Render(line))
		case i == m.cursor:
			b.WriteString(cursorStyle.Render("> ") + line)
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(formatter.StyleYellow.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(queueKeys))
	return b.String()
}
