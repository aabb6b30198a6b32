package terminal

import (
	"bytes"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Tracker mirrors the user's shell command line from keystrokes so the
// completion overlay knows what is being typed, and suspends tracking
// while an interactive child has the terminal. Detection is a
// heuristic: known editor/pager/REPL names on the command the user
// runs, plus alternate-screen switches in the output stream.
type Tracker struct {
	line   []rune
	cursor int

	replActive bool
	altScreen  bool
}

// interactivePrograms are commands that take over terminal input
// without necessarily entering the alternate screen.
var interactivePrograms = map[string]bool{
	"vi": true, "vim": true, "nvim": true, "nano": true, "emacs": true,
	"less": true, "more": true, "man": true,
	"top": true, "htop": true, "watch": true,
	"ssh": true, "tmux": true, "screen": true,
	"python": true, "python3": true, "ipython": true,
	"node": true, "irb": true, "pry": true, "ghci": true,
	"psql": true, "mysql": true, "sqlite3": true, "redis-cli": true,
	"gdb": true, "lldb": true,
}

// Alternate-screen switch sequences.
var (
	altEnter = [][]byte{[]byte("\x1b[?1049h"), []byte("\x1b[?1047h"), []byte("\x1b[?47h")}
	altExit  = [][]byte{[]byte("\x1b[?1049l"), []byte("\x1b[?1047l"), []byte("\x1b[?47l")}
)

// Interactive reports whether an interactive child appears to have the
// terminal. The mirrored line is meaningless while this is true.
func (t *Tracker) Interactive() bool {
	return t.altScreen || t.replActive
}

// Line returns the mirrored command line.
func (t *Tracker) Line() string {
	return string(t.line)
}

// Cursor returns the cursor position within the mirrored line.
func (t *Tracker) Cursor() int {
	return t.cursor
}

// Reset clears the mirrored line.
func (t *Tracker) Reset() {
	t.line = t.line[:0]
	t.cursor = 0
}

// Keystroke feeds one key event into the mirror.
func (t *Tracker) Keystroke(msg tea.KeyMsg) {
	if t.Interactive() {
		// Ctrl+D is the usual way out of a REPL. The alt-screen flag
		// clears itself from output.
		if msg.Type == tea.KeyCtrlD {
			t.replActive = false
			t.Reset()
		}
		return
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return
		}
		t.insert(msg.Runes)
	case tea.KeySpace:
		t.insert([]rune{' '})
	case tea.KeyBackspace:
		if t.cursor > 0 {
			t.line = append(t.line[:t.cursor-1], t.line[t.cursor:]...)
			t.cursor--
		}
	case tea.KeyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
	case tea.KeyRight:
		if t.cursor < len(t.line) {
			t.cursor++
		}
	case tea.KeyCtrlA, tea.KeyHome:
		t.cursor = 0
	case tea.KeyCtrlE, tea.KeyEnd:
		t.cursor = len(t.line)
	case tea.KeyCtrlW:
		t.deleteWordBack()
	case tea.KeyEnter:
		t.submitted(string(t.line))
		t.Reset()
	case tea.KeyCtrlC, tea.KeyCtrlU:
		t.Reset()
	case tea.KeyUp, tea.KeyDown, tea.KeyTab, tea.KeyCtrlR:
		// Shell-side history navigation and completion rewrite the
		// real line out from under the mirror. Drop it rather than
		// track a lie.
		t.Reset()
	}
}

// ObserveOutput scans PTY output for alternate-screen switches.
func (t *Tracker) ObserveOutput(data []byte) {
	for _, seq := range altEnter {
		if bytes.Contains(data, seq) {
			t.altScreen = true
			t.Reset()
		}
	}
	for _, seq := range altExit {
		if bytes.Contains(data, seq) {
			t.altScreen = false
		}
	}
}

func (t *Tracker) insert(runes []rune) {
	t.line = append(t.line[:t.cursor], append(append([]rune{}, runes...), t.line[t.cursor:]...)...)
	t.cursor += len(runes)
}

func (t *Tracker) deleteWordBack() {
	i := t.cursor
	for i > 0 && t.line[i-1] == ' ' {
		i--
	}
	for i > 0 && t.line[i-1] != ' ' {
		i--
	}
	t.line = append(t.line[:i], t.line[t.cursor:]...)
	t.cursor = i
}

// submitted inspects a command the user just ran and flags known
// interactive programs. Alt-screen programs also trigger the output
// heuristic; this catches plain-screen REPLs.
func (t *Tracker) submitted(cmdline string) {
	fields := strings.Fields(cmdline)
	// Skip env assignments and sudo to find the program name.
	for _, f := range fields {
		if strings.Contains(f, "=") {
			continue
		}
		if f == "sudo" || f == "env" || f == "nohup" {
			continue
		}
		name := f
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if interactivePrograms[name] {
			t.replActive = true
		}
		return
	}
}
