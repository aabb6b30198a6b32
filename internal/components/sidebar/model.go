package sidebar

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/termdeck/termdeck/internal/components"
	"github.com/termdeck/termdeck/internal/git"
	"github.com/termdeck/termdeck/internal/listing"
	"github.com/termdeck/termdeck/internal/theme"
)

// Messages
type (
	// ReloadedMsg delivers a fresh listing for a directory.
	ReloadedMsg struct {
		Dir     string
		Entries []listing.Entry
	}

	// OpenMsg is sent when the user picks a file.
	OpenMsg struct {
		Path string
	}

	// DirChangedMsg is sent after navigating into a different
	// directory, so the app can retarget the watcher and git scan.
	DirChangedMsg struct {
		Dir string
	}
)

// KeyMap defines the sidebar key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Back     key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Back:     key.NewBinding(key.WithKeys("left", "h", "backspace")),
		Enter:    key.NewBinding(key.WithKeys("enter", "right", "l")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		Home:     key.NewBinding(key.WithKeys("home", "g")),
		End:      key.NewBinding(key.WithKeys("end", "G")),
	}
}

// Model is the file browser panel: a flat listing of one directory
// with git status markers.
type Model struct {
	components.Base

	svc        *listing.Service
	dir        string
	entries    []listing.Entry
	cursor     int
	offset     int
	showHidden bool

	keys KeyMap
}

// New creates a sidebar browsing dir.
func New(svc *listing.Service, dir string) *Model {
	return &Model{
		svc:  svc,
		dir:  dir,
		keys: DefaultKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload lists the current directory in the background.
func (m *Model) Reload() tea.Cmd {
	svc := m.svc
	dir := m.dir
	hidden := m.showHidden
	return func() tea.Msg {
		return ReloadedMsg{Dir: dir, Entries: svc.ListWithHidden(dir, hidden)}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReloadedMsg:
		// A stale reload for a directory we already left.
		if msg.Dir != m.dir {
			return nil
		}
		m.entries = msg.Entries
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()
		return nil

	case tea.KeyMsg:
		if !m.Focused() {
			return nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		_, h := m.Size()
		m.moveCursor(-h / 2)
	case key.Matches(msg, m.keys.PageDown):
		_, h := m.Size()
		m.moveCursor(h / 2)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.offset = 0
	case key.Matches(msg, m.keys.End):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Enter):
		return m.open()
	case key.Matches(msg, m.keys.Back):
		return m.navigateTo(filepath.Dir(m.dir))
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-3)
	case tea.MouseButtonWheelDown:
		m.moveCursor(3)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		// Coordinates arrive content-local: row 0 is the first entry.
		idx := m.offset + msg.Y
		if idx >= 0 && idx < len(m.entries) {
			m.cursor = idx
			return m.open()
		}
	}
	return nil
}

// open descends into the selected directory or emits an OpenMsg for
// the selected file.
func (m *Model) open() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	e := m.entries[m.cursor]
	if e.IsDir {
		return m.navigateTo(e.Path)
	}
	path := e.Path
	return func() tea.Msg {
		return OpenMsg{Path: path}
	}
}

func (m *Model) navigateTo(dir string) tea.Cmd {
	dir = filepath.Clean(dir)
	if dir == m.dir {
		return nil
	}
	m.dir = dir
	m.cursor = 0
	m.offset = 0
	return tea.Batch(m.Reload(), func() tea.Msg {
		return DirChangedMsg{Dir: dir}
	})
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	_, h := m.Size()
	viewport := h - 2
	if viewport <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewport {
		m.offset = m.cursor - viewport + 1
	}
}

// View renders the listing rows. The app wraps them in a panel border.
func (m *Model) View() string {
	w, h := m.Size()
	if w == 0 || h == 0 {
		return ""
	}

	contentHeight := h - 2
	var lines []string
	for i := m.offset; i < len(m.entries) && len(lines) < contentHeight; i++ {
		lines = append(lines, m.renderEntry(m.entries[i], i == m.cursor, w-4))
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderEntry(e listing.Entry, selected bool, maxWidth int) string {
	var icon string
	if e.IsDir {
		icon = theme.Current().DirIcon(false)
	} else {
		icon = theme.Current().FileIcon(filepath.Ext(e.Name))
	}

	name := e.Name
	if e.IsDir {
		name += "/"
	}

	mark := markFor(e.Status)
	markWidth := 0
	if mark != "" {
		markWidth = lipgloss.Width(mark) + 1
	}

	line := icon + " " + name
	avail := maxWidth - markWidth
	if avail > 1 && lipgloss.Width(line) > avail {
		line = string([]rune(line)[:avail-1]) + "…"
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = theme.SidebarSelected
	case e.IsDir:
		style = theme.SidebarDir
	default:
		style = theme.SidebarFile
	}

	out := style.Render(line)
	if mark != "" {
		out += " " + theme.MarkStyle(mark).Render(mark)
	}
	return out
}

// markFor maps a git status to its sidebar marker. Ignored entries get
// no marker.
func markFor(s git.Status) string {
	switch s {
	case git.StatusModified:
		return theme.MarkModified
	case git.StatusAdded:
		return theme.MarkAdded
	case git.StatusDeleted:
		return theme.MarkDeleted
	case git.StatusUntracked:
		return theme.MarkUntracked
	}
	return ""
}

// Dir returns the directory being browsed.
func (m *Model) Dir() string {
	return m.dir
}

// SelectedPath returns the path under the cursor, or "".
func (m *Model) SelectedPath() string {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return ""
	}
	return m.entries[m.cursor].Path
}

// SelectedIsDir reports whether the cursor is on a directory.
func (m *Model) SelectedIsDir() bool {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return false
	}
	return m.entries[m.cursor].IsDir
}

// ShowHidden reports whether dotfiles are listed.
func (m *Model) ShowHidden() bool {
	return m.showHidden
}

// SetShowHidden toggles dotfile listing; the caller issues the reload.
func (m *Model) SetShowHidden(show bool) tea.Cmd {
	if m.showHidden == show {
		return nil
	}
	m.showHidden = show
	return m.Reload()
}

// ScrollPercent returns the scroll position as 0-100.
func (m *Model) ScrollPercent() float64 {
	if len(m.entries) == 0 {
		return 100
	}
	_, h := m.Size()
	viewport := h - 2
	if viewport <= 0 {
		return 100
	}
	maxOffset := len(m.entries) - viewport
	if maxOffset <= 0 {
		return 100
	}
	return float64(m.offset) / float64(maxOffset) * 100
}
