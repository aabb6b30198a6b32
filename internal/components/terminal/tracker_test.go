package terminal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(t *Tracker, s string) {
	for _, r := range s {
		if r == ' ' {
			t.Keystroke(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		t.Keystroke(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(t *Tracker, kt tea.KeyType) {
	t.Keystroke(tea.KeyMsg{Type: kt})
}

func TestTrackerMirrorsTyping(t *testing.T) {
	var tr Tracker
	runes(&tr, "git sta")
	assert.Equal(t, "git sta", tr.Line())
	assert.Equal(t, 7, tr.Cursor())

	key(&tr, tea.KeyBackspace)
	assert.Equal(t, "git st", tr.Line())
}

func TestTrackerCursorMovement(t *testing.T) {
	var tr Tracker
	runes(&tr, "cat log")
	key(&tr, tea.KeyLeft)
	key(&tr, tea.KeyLeft)
	key(&tr, tea.KeyLeft)
	runes(&tr, "my")
	assert.Equal(t, "cat mylog", tr.Line())

	key(&tr, tea.KeyCtrlA)
	assert.Equal(t, 0, tr.Cursor())
	key(&tr, tea.KeyCtrlE)
	assert.Equal(t, len("cat mylog"), tr.Cursor())
}

func TestTrackerDeleteWordBack(t *testing.T) {
	var tr Tracker
	runes(&tr, "git commit -m")
	key(&tr, tea.KeyCtrlW)
	assert.Equal(t, "git commit ", tr.Line())
}

func TestTrackerResets(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
	}{
		{"ctrl+c", tea.KeyCtrlC},
		{"ctrl+u", tea.KeyCtrlU},
		{"up arrow", tea.KeyUp},
		{"tab", tea.KeyTab},
		{"reverse search", tea.KeyCtrlR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr Tracker
			runes(&tr, "echo hi")
			key(&tr, tt.key)
			assert.Equal(t, "", tr.Line())
		})
	}
}

func TestTrackerEnterClearsLine(t *testing.T) {
	var tr Tracker
	runes(&tr, "ls -la")
	key(&tr, tea.KeyEnter)
	assert.Equal(t, "", tr.Line())
	assert.False(t, tr.Interactive())
}

func TestTrackerDetectsRepl(t *testing.T) {
	var tr Tracker
	runes(&tr, "python3")
	key(&tr, tea.KeyEnter)
	assert.True(t, tr.Interactive())

	// Keystrokes are ignored while interactive.
	runes(&tr, "print(1)")
	assert.Equal(t, "", tr.Line())

	// Ctrl+D leaves the REPL.
	key(&tr, tea.KeyCtrlD)
	assert.False(t, tr.Interactive())
}

func TestTrackerSkipsWrappersAndEnvAssignments(t *testing.T) {
	var tr Tracker
	runes(&tr, "FOO=1 sudo htop")
	key(&tr, tea.KeyEnter)
	assert.True(t, tr.Interactive())
}

func TestTrackerPathPrefixedProgram(t *testing.T) {
	var tr Tracker
	runes(&tr, "/usr/bin/vim notes.txt")
	key(&tr, tea.KeyEnter)
	assert.True(t, tr.Interactive())
}

func TestTrackerAltScreen(t *testing.T) {
	var tr Tracker
	tr.ObserveOutput([]byte("prompt$ \x1b[?1049h\x1b[2J"))
	assert.True(t, tr.Interactive())

	runes(&tr, ":wq")
	assert.Equal(t, "", tr.Line())

	tr.ObserveOutput([]byte("\x1b[?1049l\x1b[23;0;0t"))
	assert.False(t, tr.Interactive())
}

func TestTrackerNonInteractiveCommand(t *testing.T) {
	var tr Tracker
	runes(&tr, "grep -r foo .")
	key(&tr, tea.KeyEnter)
	assert.False(t, tr.Interactive())
}
