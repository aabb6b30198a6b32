package components

import tea "github.com/charmbracelet/bubbletea"

// Component is the contract every TermDeck panel implements. Panels
// use pointer receivers and mutate in place; Update returns commands
// only.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string

	// Focus gives keyboard focus to the panel.
	Focus()
	// Blur removes keyboard focus.
	Blur()
	// Focused reports whether the panel has focus.
	Focused() bool

	// SetSize updates the panel's outer dimensions.
	SetSize(width, height int)
	// Size returns the panel's current dimensions.
	Size() (width, height int)
}

// Base carries the focus and size state shared by all panels. Embed it
// to satisfy the non-rendering half of Component.
type Base struct {
	focused bool
	width   int
	height  int
}

// NewBase returns a Base with the given dimensions and no focus.
func NewBase(width, height int) Base {
	return Base{width: width, height: height}
}

func (b *Base) Focus() {
	b.focused = true
}

func (b *Base) Blur() {
	b.focused = false
}

func (b *Base) Focused() bool {
	return b.focused
}

func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b *Base) Size() (width, height int) {
	return b.width, b.height
}
