package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/termdeck/termdeck/internal/completion"
	"github.com/termdeck/termdeck/internal/components"
	"github.com/termdeck/termdeck/internal/theme"
)

// maxVisibleRows caps the popover height.
const maxVisibleRows = 8

// Model renders the autocomplete popover over the terminal. All list
// state lives in the completion session; this component is a view plus
// the keys that drive selection.
type Model struct {
	components.Base

	session *completion.Session
}

// New creates an overlay bound to a completion session.
func New(session *completion.Session) *Model {
	return &Model{session: session}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update drives selection. The app routes keys here only while the
// overlay is visible.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.session.Visible() {
		return nil
	}
	switch key.Type {
	case tea.KeyDown, tea.KeyTab:
		m.session.SelectNext()
	case tea.KeyUp, tea.KeyShiftTab:
		m.session.SelectPrevious()
	case tea.KeyEscape:
		m.session.Dismiss()
	}
	return nil
}

// Accept returns the selected completion and dismisses the popover.
func (m *Model) Accept() (completion.Completion, bool) {
	c, ok := m.session.SelectedCompletion()
	if ok {
		m.session.Dismiss()
	}
	return c, ok
}

// Visible reports whether there is anything to draw.
func (m *Model) Visible() bool {
	return m.session.Visible()
}

// View renders the popover.
func (m *Model) View() string {
	if !m.session.Visible() {
		return ""
	}

	completions := m.session.Completions()
	selected := m.session.Selected()
	w, _ := m.Size()
	if w <= 4 {
		w = 40
	}
	innerWidth := w - 2

	// Keep the selected row inside the window.
	start := 0
	if selected >= maxVisibleRows {
		start = selected - maxVisibleRows + 1
	}
	end := start + maxVisibleRows
	if end > len(completions) {
		end = len(completions)
	}

	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(completions[i], i == selected, innerWidth))
	}

	box := lipgloss.NewStyle().
		Border(theme.SoftBorder).
		BorderForeground(theme.Accent).
		Width(innerWidth)
	return box.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderRow(c completion.Completion, selected bool, width int) string {
	icon := theme.KindIcon(string(c.Kind))
	label := icon + " " + c.Display

	desc := c.Description
	if desc != "" {
		desc = "  " + desc
	}

	labelWidth := lipgloss.Width(label)
	descWidth := lipgloss.Width(desc)
	if labelWidth+descWidth > width {
		keep := width - labelWidth
		if keep <= 1 {
			desc = ""
		} else {
			desc = string([]rune(desc)[:keep-1]) + "…"
		}
	}

	pad := width - lipgloss.Width(label) - lipgloss.Width(desc)
	if pad < 0 {
		pad = 0
	}

	if selected {
		return theme.PopoverSelected.Render(label + desc + strings.Repeat(" ", pad))
	}
	return theme.PopoverItem.Render(label) + theme.PopoverDesc.Render(desc) + strings.Repeat(" ", pad)
}
