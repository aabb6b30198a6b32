package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: "open", Title: "Open file", Hint: "enter"},
		{ID: "preview", Title: "Preview file", Hint: "p"},
		{ID: "copy-path", Title: "Copy path", Hint: "y"},
		{ID: "new-tab", Title: "New terminal tab", Hint: "ctrl+t"},
		{ID: "toggle-hidden", Title: "Toggle hidden files", Hint: "."},
	}
}

func typeRunes(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestOpenShowsAllItems(t *testing.T) {
	m := New()
	m.Open(testItems())

	assert.True(t, m.IsOpen())
	assert.Equal(t, 5, m.Matches())
}

func TestFuzzyFilter(t *testing.T) {
	m := New()
	m.Open(testItems())

	typeRunes(m, "cpp")
	require.Equal(t, 1, m.Matches())

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "copy-path", msg.ID)
	assert.False(t, m.IsOpen())
}

func TestNoMatches(t *testing.T) {
	m := New()
	m.Open(testItems())

	typeRunes(m, "zzzz")
	assert.Equal(t, 0, m.Matches())
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}), "enter with no matches is a no-op")
	assert.True(t, m.IsOpen())
}

func TestSelectionWrapsAround(t *testing.T) {
	m := New()
	m.Open(testItems())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 4, m.cursor)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor)
}

func TestEscapeCloses(t *testing.T) {
	m := New()
	m.Open(testItems())
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.IsOpen())
	assert.Equal(t, "", m.View())
}

func TestFilterNarrowsThenRestores(t *testing.T) {
	m := New()
	m.Open(testItems())

	typeRunes(m, "file")
	narrowed := m.Matches()
	assert.Less(t, narrowed, 5)
	assert.Greater(t, narrowed, 0)

	for i := 0; i < 4; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	assert.Equal(t, 5, m.Matches())
}

func TestReopenResetsQuery(t *testing.T) {
	m := New()
	m.Open(testItems())
	typeRunes(m, "copy")
	m.Close()

	m.Open(testItems())
	assert.Equal(t, 5, m.Matches())
}
