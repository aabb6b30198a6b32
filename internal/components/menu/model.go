package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/termdeck/termdeck/internal/components"
	"github.com/termdeck/termdeck/internal/theme"
)

// Item is one menu entry. ID is what the app switches on when the
// entry is picked.
type Item struct {
	ID    string
	Title string
	Hint  string // keybinding hint shown right-aligned
}

// SelectedMsg is sent when the user picks an entry.
type SelectedMsg struct {
	ID string
}

// items implements fuzzy.Source over the titles.
type items []Item

func (it items) String(i int) string { return it[i].Title }
func (it items) Len() int            { return len(it) }

const maxVisibleRows = 10

// Model is the command/file-action menu: a text input filtering the
// item list fuzzily.
type Model struct {
	components.Base

	input    textinput.Model
	all      items
	filtered []fuzzy.Match
	cursor   int
	open     bool
}

// New creates a closed menu.
func New() *Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 100
	ti.Prompt = "> "
	return &Model{input: ti}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Open shows the menu over the given items.
func (m *Model) Open(entries []Item) tea.Cmd {
	m.all = items(entries)
	m.cursor = 0
	m.open = true
	m.input.SetValue("")
	m.input.Focus()
	m.refilter()
	return textinput.Blink
}

// Close hides the menu.
func (m *Model) Close() {
	m.open = false
	m.input.Blur()
}

// IsOpen reports whether the menu is showing.
func (m *Model) IsOpen() bool {
	return m.open
}

// Update handles keys while the menu is open.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.open {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.Type {
	case tea.KeyEscape:
		m.Close()
		return nil
	case tea.KeyEnter:
		return m.pick()
	case tea.KeyDown, tea.KeyTab:
		m.move(1)
		return nil
	case tea.KeyUp, tea.KeyShiftTab:
		m.move(-1)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return cmd
}

func (m *Model) pick() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	id := m.all[m.filtered[m.cursor].Index].ID
	m.Close()
	return func() tea.Msg {
		return SelectedMsg{ID: id}
	}
}

func (m *Model) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.filtered)) % len(m.filtered)
}

// refilter recomputes the fuzzy matches for the current query. An
// empty query shows everything in the original order.
func (m *Model) refilter() {
	query := m.input.Value()
	if query == "" {
		m.filtered = make([]fuzzy.Match, len(m.all))
		for i := range m.all {
			m.filtered[i] = fuzzy.Match{Str: m.all[i].Title, Index: i}
		}
	} else {
		m.filtered = fuzzy.FindFrom(query, m.all)
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Matches returns how many items pass the current filter.
func (m *Model) Matches() int {
	return len(m.filtered)
}

// View renders the menu popover.
func (m *Model) View() string {
	if !m.open {
		return ""
	}

	w, _ := m.Size()
	if w <= 4 {
		w = 50
	}
	innerWidth := w - 2

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	start := 0
	if m.cursor >= maxVisibleRows {
		start = m.cursor - maxVisibleRows + 1
	}
	end := start + maxVisibleRows
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	if len(m.filtered) == 0 {
		b.WriteString(theme.Muted.Render("no matches"))
	}

	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		b.WriteString(m.renderRow(m.filtered[i], i == m.cursor, innerWidth))
	}

	box := lipgloss.NewStyle().
		Border(theme.SoftBorder).
		BorderForeground(theme.Accent).
		Width(innerWidth)
	return box.Render(b.String())
}

func (m *Model) renderRow(match fuzzy.Match, selected bool, width int) string {
	item := m.all[match.Index]

	title := item.Title
	if !selected && len(match.MatchedIndexes) > 0 {
		title = highlightMatches(item.Title, match.MatchedIndexes)
	}

	hint := item.Hint
	pad := width - lipgloss.Width(item.Title) - lipgloss.Width(hint) - 2
	if pad < 1 {
		pad = 1
		hint = ""
	}

	if selected {
		return theme.PopoverSelected.Render(" " + item.Title + strings.Repeat(" ", pad) + hint + " ")
	}
	return " " + title + strings.Repeat(" ", pad) + theme.PopoverDesc.Render(hint) + " "
}

// highlightMatches renders the fuzzy-matched runes in the accent color.
func highlightMatches(s string, indexes []int) string {
	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if matched[i] {
			b.WriteString(theme.PopoverKind.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
