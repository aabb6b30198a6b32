package terminal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []byte
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []byte("\r")},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []byte{127}},
		{"alt+backspace", tea.KeyMsg{Type: tea.KeyBackspace, Alt: true}, []byte{27, 127}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []byte{3}},
		{"ctrl+z", tea.KeyMsg{Type: tea.KeyCtrlZ}, []byte{26}},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, []byte("\x1b[A")},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, []byte("\x1b[6~")},
		{"plain runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []byte("ab")},
		{"alt+runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, []byte{27, 'x'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeKey(tt.msg))
		})
	}
}

func TestEncodeKeyDropsSequenceFragments(t *testing.T) {
	assert.Nil(t, encodeKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("65;83;57M")}))
	assert.Nil(t, encodeKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")}))
	assert.Nil(t, encodeKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[12;3")}))
}

func TestLooksLikeMouseSequence(t *testing.T) {
	assert.True(t, looksLikeMouseSequence("65;83;57M"))
	assert.True(t, looksLikeMouseSequence("<0;45;12m"))
	assert.False(t, looksLikeMouseSequence("ls -laM"))
	assert.False(t, looksLikeMouseSequence("hi"))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "hello", stripANSI("\x1b[31mhello\x1b[0m"))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestAppendScrollbackDedup(t *testing.T) {
	m := New(0, "/bin/sh", ".")
	m.appendScrollback("line one")
	m.appendScrollback("line two")
	m.appendScrollback("line one")
	assert.Equal(t, []string{"line one", "line two"}, m.scrollback)
}

func TestTitle(t *testing.T) {
	m := New(2, "/bin/zsh", "/tmp")
	assert.Equal(t, "3:zsh", m.Title())
}
