package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
	"github.com/hinshun/vt10x"

	"github.com/termdeck/termdeck/internal/components"
	"github.com/termdeck/termdeck/internal/selection"
	"github.com/termdeck/termdeck/internal/theme"
)

// Messages. Every message carries the session ID so the app can route
// it to the right tab.
type (
	// OutputMsg contains bytes read from the PTY.
	OutputMsg struct {
		ID   int
		Data []byte
	}

	// ExitMsg is sent when the shell process exits.
	ExitMsg struct {
		ID  int
		Err error
	}
)

const maxScrollbackLines = 10000

// Model is one terminal session backed by a PTY running the user's
// shell. The app owns one Model per tab.
type Model struct {
	components.Base

	id      int
	shell   string
	workDir string

	vt      vt10x.Terminal
	cmd     *exec.Cmd
	ptmx    *os.File
	mu      sync.Mutex
	running bool
	exitErr error

	// Lines that scrolled off the top of the live screen.
	scrollback   []string
	scrollOffset int // 0 = live view, >0 = scrolled up N lines

	selection selection.Model
	tracker   Tracker

	ready bool
}

// New creates a session for the given shell and working directory.
func New(id int, shell, workDir string) *Model {
	return &Model{
		id:        id,
		shell:     shell,
		workDir:   workDir,
		selection: selection.New(),
	}
}

// ID returns the session's tab identifier.
func (m *Model) ID() int {
	return m.id
}

// Title returns the label shown in the tab strip.
func (m *Model) Title() string {
	name := filepath.Base(m.shell)
	if name == "" || name == "." {
		name = "sh"
	}
	return fmt.Sprintf("%d:%s", m.id+1, name)
}

// WorkDir returns the directory the shell was started in.
func (m *Model) WorkDir() string {
	return m.workDir
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Start launches the shell in a fresh PTY and begins reading output.
func (m *Model) Start() tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	w, h := m.Size()
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	m.vt = vt10x.New(vt10x.WithSize(w, h))

	m.cmd = exec.Command(m.shell)
	m.cmd.Dir = m.workDir
	m.cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.Start(m.cmd)
	if err != nil {
		m.vt.Write([]byte("\x1b[31mfailed to start " + m.shell + ": " + err.Error() + "\x1b[0m\r\n"))
		return nil
	}

	m.ptmx = ptmx
	m.running = true
	m.exitErr = nil
	pty.Setsize(m.ptmx, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})

	return m.readOutput()
}

func (m *Model) readOutput() tea.Cmd {
	ptmx := m.ptmx
	cmd := m.cmd
	id := m.id
	return func() tea.Msg {
		if ptmx == nil {
			return nil
		}
		// Large buffer reduces redraw churn on bursty output.
		buf := make([]byte, 65536)
		n, err := ptmx.Read(buf)
		if err != nil {
			if err == io.EOF {
				return ExitMsg{ID: id, Err: cmd.Wait()}
			}
			return ExitMsg{ID: id, Err: err}
		}
		return OutputMsg{ID: id, Data: buf[:n]}
	}
}

// Update handles messages addressed to this session.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OutputMsg:
		if msg.ID != m.id {
			return nil
		}
		m.handleOutput(msg.Data)
		return m.continueReading()

	case ExitMsg:
		if msg.ID != m.id {
			return nil
		}
		m.mu.Lock()
		m.running = false
		m.exitErr = msg.Err
		if m.ptmx != nil {
			m.ptmx.Close()
			m.ptmx = nil
		}
		m.cmd = nil
		m.mu.Unlock()
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.Focused() {
			return nil
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleOutput(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// New output snaps back to the live view.
	m.scrollOffset = 0
	m.tracker.ObserveOutput(data)

	if m.vt == nil {
		return
	}

	cols, rows := m.vt.Size()
	oldPlain := make([]string, rows)
	oldRendered := make([]string, rows)
	for row := 0; row < rows; row++ {
		oldPlain[row] = m.screenLinePlain(cols, row)
		oldRendered[row] = m.renderScreenLine(cols, row)
	}

	m.vt.Write(data)

	// Figure out how far the screen scrolled by locating the new top
	// line in the old screen, then bank the lines that scrolled off.
	newTop := m.screenLinePlain(cols, 0)
	scrolled := 0
	if strings.TrimSpace(newTop) != "" {
		for i := 1; i < rows; i++ {
			if strings.TrimSpace(oldPlain[i]) != "" && oldPlain[i] == newTop {
				scrolled = i
				break
			}
		}
	}

	if scrolled > 0 {
		for i := 0; i < scrolled; i++ {
			if strings.TrimSpace(oldPlain[i]) != "" {
				m.appendScrollback(oldRendered[i])
			}
		}
	} else if oldPlain[0] != newTop && strings.TrimSpace(oldPlain[0]) != "" {
		// Scroll distance undetectable (large chunk rewrote the whole
		// screen). Bank everything non-empty rather than lose it.
		for i := 0; i < rows; i++ {
			if strings.TrimSpace(oldPlain[i]) != "" {
				m.appendScrollback(oldRendered[i])
			}
		}
	}

	if len(m.scrollback) > maxScrollbackLines {
		m.scrollback = m.scrollback[len(m.scrollback)-maxScrollbackLines:]
	}
}

// appendScrollback adds a line, skipping lines already present among
// the most recent entries.
func (m *Model) appendScrollback(line string) {
	check := 20
	if check > len(m.scrollback) {
		check = len(m.scrollback)
	}
	for i := len(m.scrollback) - check; i < len(m.scrollback); i++ {
		if m.scrollback[i] == line {
			return
		}
	}
	m.scrollback = append(m.scrollback, line)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			line, col := m.screenToTextPosition(msg.X, msg.Y)
			m.selection.Begin(line, col)
			m.refreshSelectionContent()
		case tea.MouseActionMotion:
			if m.selection.Span.Active {
				line, col := m.screenToTextPosition(msg.X, msg.Y)
				m.selection.Extend(line, col)
			}
		case tea.MouseActionRelease:
			if m.selection.Span.Active {
				line, col := m.screenToTextPosition(msg.X, msg.Y)
				m.selection.Extend(line, col)
				m.selection.Finish()
			}
		}
	case tea.MouseButtonWheelUp:
		m.scrollOffset += 3
		if m.scrollOffset > len(m.scrollback) {
			m.scrollOffset = len(m.scrollback)
		}
	case tea.MouseButtonWheelDown:
		m.scrollOffset -= 3
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Ctrl+C with a selection copies instead of sending SIGINT.
	if selection.IsCopyKey(msg.String()) && m.selection.HasSelection() {
		_ = m.selection.Copy()
		m.selection.Clear()
		return nil
	}
	if msg.Type == tea.KeyEscape && m.selection.HasSelection() {
		m.selection.Clear()
		return nil
	}

	if !m.running || m.ptmx == nil {
		return nil
	}

	input := encodeKey(msg)
	if len(input) == 0 {
		return nil
	}
	m.tracker.Keystroke(msg)
	m.ptmx.Write(input)
	return nil
}

// encodeKey translates a bubbletea key event into the byte sequence a
// terminal would send.
func encodeKey(msg tea.KeyMsg) []byte {
	switch msg.Type {
	case tea.KeyEnter:
		return []byte("\r")
	case tea.KeyBackspace:
		if msg.Alt {
			return []byte{27, 127}
		}
		return []byte{127}
	case tea.KeyTab:
		return []byte("\t")
	case tea.KeySpace:
		return []byte(" ")
	case tea.KeyEscape:
		return []byte{27}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyPgUp:
		return []byte("\x1b[5~")
	case tea.KeyPgDown:
		return []byte("\x1b[6~")
	case tea.KeyDelete:
		return []byte("\x1b[3~")
	case tea.KeyRunes:
		s := string(msg.Runes)
		if looksLikeMouseSequence(s) || looksLikeEscapeFragment(s) {
			return nil
		}
		if msg.Alt {
			var out []byte
			for _, r := range msg.Runes {
				out = append(out, 27, byte(r))
			}
			return out
		}
		return []byte(s)
	}

	// Ctrl+A through Ctrl+Z map to bytes 1..26.
	if b, ok := ctrlBytes[msg.Type]; ok {
		return []byte{b}
	}
	return nil
}

var ctrlBytes = map[tea.KeyType]byte{
	tea.KeyCtrlA: 1, tea.KeyCtrlB: 2, tea.KeyCtrlC: 3, tea.KeyCtrlD: 4,
	tea.KeyCtrlE: 5, tea.KeyCtrlF: 6, tea.KeyCtrlG: 7, tea.KeyCtrlJ: 10,
	tea.KeyCtrlK: 11, tea.KeyCtrlL: 12, tea.KeyCtrlN: 14, tea.KeyCtrlO: 15,
	tea.KeyCtrlP: 16, tea.KeyCtrlR: 18, tea.KeyCtrlS: 19, tea.KeyCtrlT: 20,
	tea.KeyCtrlU: 21, tea.KeyCtrlV: 22, tea.KeyCtrlW: 23, tea.KeyCtrlX: 24,
	tea.KeyCtrlY: 25, tea.KeyCtrlZ: 26,
}

// looksLikeEscapeFragment reports whether s is a partial CSI sequence
// that leaked through as runes.
func looksLikeEscapeFragment(s string) bool {
	if s == "[" || s == "<" || s == "[<" {
		return true
	}
	if len(s) > 0 && s[0] == '[' {
		for i := 1; i < len(s); i++ {
			c := s[i]
			if c != ';' && c != '<' && (c < '0' || c > '9') {
				return false
			}
		}
		return len(s) > 1
	}
	return false
}

// looksLikeMouseSequence reports whether s is a partial SGR mouse
// report, e.g. "65;83;57M".
func looksLikeMouseSequence(s string) bool {
	if len(s) < 3 {
		return false
	}
	last := s[len(s)-1]
	if last != 'M' && last != 'm' {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		c := s[i]
		if c != ';' && c != '<' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// View renders the session's screen.
func (m *Model) View() string {
	w, h := m.Size()
	if !m.ready || w <= 0 || h <= 0 {
		return theme.Muted.Render("starting terminal...")
	}
	if m.vt == nil {
		return theme.Muted.Render("terminal ready")
	}
	return m.renderVT()
}

func (m *Model) renderVT() string {
	m.vt.Lock()
	defer m.vt.Unlock()

	cols, rows := m.vt.Size()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if m.scrollOffset > 0 && len(m.scrollback) > 0 {
		return m.renderWithScrollback(cols, rows)
	}
	return m.renderLiveScreen(cols, rows)
}

func (m *Model) renderLiveScreen(cols, rows int) string {
	cursor := m.vt.Cursor()
	cursorVisible := m.vt.CursorVisible() && m.Focused()
	hasSelection := m.selection.Span.Active || m.selection.Span.Complete

	var out strings.Builder
	out.Grow(rows * cols * 2)

	for row := 0; row < rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}

		var curFG, curBG vt10x.Color
		var curMode int16
		var curCursor, curSelected bool
		var batch strings.Builder
		first := true

		flush := func() {
			if batch.Len() == 0 {
				return
			}
			out.WriteString(buildANSI(curFG, curBG, curMode, curCursor, curSelected))
			out.WriteString(batch.String())
			out.WriteString("\x1b[0m")
			batch.Reset()
		}

		for col := 0; col < cols; col++ {
			glyph := m.vt.Cell(col, row)
			ch := glyph.Char
			if ch == 0 {
				ch = ' '
			}

			isCursor := cursorVisible && col == cursor.X && row == cursor.Y
			isSelected := hasSelection && m.selection.Contains(row, col)

			if !first && (glyph.FG != curFG || glyph.BG != curBG || glyph.Mode != curMode || isCursor != curCursor || isSelected != curSelected) {
				flush()
			}

			curFG, curBG, curMode = glyph.FG, glyph.BG, glyph.Mode
			curCursor, curSelected = isCursor, isSelected
			first = false
			batch.WriteRune(ch)
		}
		flush()
	}

	return out.String()
}

func (m *Model) renderWithScrollback(cols, rows int) string {
	var lines []string

	start := len(m.scrollback) - m.scrollOffset
	if start < 0 {
		start = 0
	}
	for i := start; i < len(m.scrollback) && len(lines) < rows; i++ {
		lines = append(lines, m.scrollback[i])
	}

	if len(lines) < rows {
		screenRows := rows - len(lines)
		for row := 0; row < screenRows; row++ {
			lines = append(lines, m.renderScreenLine(cols, row))
		}
	}
	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", cols))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderScreenLine(cols, row int) string {
	var out strings.Builder
	var curFG, curBG vt10x.Color
	var curMode int16
	var batch strings.Builder
	first := true

	flush := func() {
		if batch.Len() == 0 {
			return
		}
		out.WriteString(buildANSI(curFG, curBG, curMode, false, false))
		out.WriteString(batch.String())
		out.WriteString("\x1b[0m")
		batch.Reset()
	}

	for col := 0; col < cols; col++ {
		glyph := m.vt.Cell(col, row)
		ch := glyph.Char
		if ch == 0 {
			ch = ' '
		}
		if !first && (glyph.FG != curFG || glyph.BG != curBG || glyph.Mode != curMode) {
			flush()
		}
		curFG, curBG, curMode = glyph.FG, glyph.BG, glyph.Mode
		first = false
		batch.WriteRune(ch)
	}
	flush()

	return out.String()
}

// screenLinePlain returns a screen line without styling, trailing
// spaces trimmed.
func (m *Model) screenLinePlain(cols, row int) string {
	var out strings.Builder
	for col := 0; col < cols; col++ {
		ch := m.vt.Cell(col, row).Char
		if ch == 0 {
			ch = ' '
		}
		out.WriteRune(ch)
	}
	return strings.TrimRight(out.String(), " ")
}

// buildANSI emits the escape sequence for a glyph's style. Cursor and
// selection both render as reverse video.
func buildANSI(fg, bg vt10x.Color, mode int16, isCursor, isSelected bool) string {
	var codes []string

	if isCursor || isSelected {
		codes = append(codes, "7")
	} else {
		if mode&0x01 != 0 {
			codes = append(codes, "7")
		}
		if mode&0x02 != 0 {
			codes = append(codes, "4")
		}
		if mode&0x04 != 0 {
			codes = append(codes, "1")
		}
		if mode&0x10 != 0 {
			codes = append(codes, "3")
		}
		if c := colorToANSI(fg, true); c != "" {
			codes = append(codes, c)
		}
		if c := colorToANSI(bg, false); c != "" {
			codes = append(codes, c)
		}
	}

	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func colorToANSI(c vt10x.Color, isFG bool) string {
	// Default color marker
	if c >= 0x01000000 {
		return ""
	}
	base := 38
	if !isFG {
		base = 48
	}
	if c < 256 {
		return fmt.Sprintf("%d;5;%d", base, c)
	}
	r := (c >> 16) & 0xFF
	g := (c >> 8) & 0xFF
	b := c & 0xFF
	return fmt.Sprintf("%d;2;%d;%d;%d", base, r, g, b)
}

// SetSize resizes the screen, the virtual terminal, and the PTY.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.ready = true
	m.scrollOffset = 0

	if m.vt != nil && width > 0 && height > 0 {
		m.vt.Resize(width, height)
	}
	if m.running && m.ptmx != nil && width > 0 && height > 0 {
		pty.Setsize(m.ptmx, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	}
}

// Running reports whether the shell process is alive.
func (m *Model) Running() bool {
	return m.running
}

// Stop kills the shell process and closes the PTY.
func (m *Model) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Kill()
	}
	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
	m.running = false
}

func (m *Model) continueReading() tea.Cmd {
	if !m.running || m.ptmx == nil {
		return nil
	}
	return m.readOutput()
}

// InputLine returns the mirrored shell command line, or "" while an
// interactive child has the terminal.
func (m *Model) InputLine() string {
	if m.tracker.Interactive() {
		return ""
	}
	return m.tracker.Line()
}

// InteractiveChild reports whether keystroke tracking is suspended.
func (m *Model) InteractiveChild() bool {
	return m.tracker.Interactive()
}

// InputCursor returns the cursor position within the mirrored line.
func (m *Model) InputCursor() int {
	return m.tracker.Cursor()
}

// ApplyCompletion replaces the last prefixLen runes of the shell's
// command line with text, keeping the mirror in step.
func (m *Model) ApplyCompletion(prefixLen int, text string) {
	m.mu.Lock()
	ptmx := m.ptmx
	m.mu.Unlock()
	if ptmx == nil {
		return
	}

	var buf bytes.Buffer
	for i := 0; i < prefixLen; i++ {
		buf.WriteByte(0x7f)
		m.tracker.Keystroke(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	buf.WriteString(text)
	m.tracker.Keystroke(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	ptmx.Write(buf.Bytes())
}

// screenToTextPosition converts screen coordinates to a position in
// the text the selection model indexes.
func (m *Model) screenToTextPosition(x, y int) (line, col int) {
	line = y
	if m.scrollOffset > 0 {
		start := len(m.scrollback) - m.scrollOffset
		if start < 0 {
			start = 0
		}
		line = start + y
	}
	return line, x
}

// refreshSelectionContent snapshots the visible text into the
// selection model.
func (m *Model) refreshSelectionContent() {
	if m.vt == nil {
		m.selection.SetContent(nil)
		return
	}

	m.vt.Lock()
	defer m.vt.Unlock()

	cols, rows := m.vt.Size()
	if cols <= 0 || rows <= 0 {
		m.selection.SetContent(nil)
		return
	}

	var lines []string
	if m.scrollOffset > 0 && len(m.scrollback) > 0 {
		start := len(m.scrollback) - m.scrollOffset
		if start < 0 {
			start = 0
		}
		for i := start; i < len(m.scrollback) && len(lines) < rows; i++ {
			lines = append(lines, stripANSI(m.scrollback[i]))
		}
		if len(lines) < rows {
			screenRows := rows - len(lines)
			for row := 0; row < screenRows; row++ {
				lines = append(lines, m.screenLinePlain(cols, row))
			}
		}
	} else {
		for row := 0; row < rows; row++ {
			lines = append(lines, m.screenLinePlain(cols, row))
		}
	}

	m.selection.SetContent(lines)
}

func stripANSI(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && !((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
				i++
			}
			if i < len(s) {
				i++
			}
		} else {
			out.WriteByte(s[i])
			i++
		}
	}
	return out.String()
}

// HasSelection reports whether text is selected in this session.
func (m *Model) HasSelection() bool {
	return m.selection.HasSelection()
}

// SelectedText returns the currently selected text.
func (m *Model) SelectedText() string {
	return m.selection.Text()
}
