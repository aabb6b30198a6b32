package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, m *Model, path string) FileLoadedMsg {
	t.Helper()
	msg := LoadFile(path)()
	loaded, ok := msg.(FileLoadedMsg)
	require.True(t, ok)
	m.Update(loaded)
	return loaded
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads text file content", func(t *testing.T) {
		path := filepath.Join(dir, "main.go")
		require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644))

		msg := LoadFile(path)().(FileLoadedMsg)
		assert.NoError(t, msg.Err)
		assert.Empty(t, msg.Notice)
		assert.Contains(t, msg.Content, "func main()")
	})

	t.Run("missing file reports error", func(t *testing.T) {
		msg := LoadFile(filepath.Join(dir, "nope.txt"))().(FileLoadedMsg)
		assert.Error(t, msg.Err)
	})

	t.Run("oversized file gets a notice", func(t *testing.T) {
		path := filepath.Join(dir, "big.log")
		require.NoError(t, os.WriteFile(path, make([]byte, maxPreviewBytes+1), 0o644))

		msg := LoadFile(path)().(FileLoadedMsg)
		assert.NoError(t, msg.Err)
		assert.Empty(t, msg.Content)
		assert.Contains(t, msg.Notice, "too large")
	})

	t.Run("binary file gets a notice", func(t *testing.T) {
		path := filepath.Join(dir, "blob.bin")
		require.NoError(t, os.WriteFile(path, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, 0o644))

		msg := LoadFile(path)().(FileLoadedMsg)
		assert.NoError(t, msg.Err)
		assert.Empty(t, msg.Content)
		assert.Contains(t, msg.Notice, "binary")
	})
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("plain text\nwith lines\n")))
	assert.True(t, isBinary([]byte{'a', 0x00, 'b'}))
	assert.False(t, isBinary([]byte{}))
}

func TestViewRendersNotice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01}, 0o644))

	m := New()
	m.SetSize(60, 10)
	loadFixture(t, m, path)

	assert.Contains(t, m.View(), "binary file")
}

func TestViewShowsLineNumbers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0o644))

	m := New()
	m.SetSize(60, 10)
	loadFixture(t, m, path)

	view := m.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "1")
	assert.Contains(t, view, "2")
}

func TestSearch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := "alpha\nbeta\ngamma\nbeta again\ndelta\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := New()
	m.SetSize(60, 20)
	m.Focus()
	loadFixture(t, m, path)

	t.Run("finds matching lines", func(t *testing.T) {
		m.search("beta")
		assert.Equal(t, []int{1, 3}, m.matchLines)
		assert.Equal(t, 0, m.currentMatch)
	})

	t.Run("n advances and wraps", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		assert.Equal(t, 1, m.currentMatch)
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		assert.Equal(t, 0, m.currentMatch)
	})

	t.Run("p goes backwards", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
		assert.Equal(t, 1, m.currentMatch)
	})

	t.Run("esc clears matches", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyEscape})
		assert.Empty(t, m.matchLines)
		assert.Equal(t, "", m.searchQuery)
	})

	t.Run("bad regex falls back to literal", func(t *testing.T) {
		m.search("beta[")
		assert.Empty(t, m.matchLines)
		assert.NotNil(t, m.searchRegex)
	})

	t.Run("case insensitive", func(t *testing.T) {
		m.search("BETA")
		assert.Equal(t, []int{1, 3}, m.matchLines)
	})
}

func TestSearchInputFlow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	m := New()
	m.SetSize(60, 20)
	m.Focus()
	loadFixture(t, m, path)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.IsSearching())

	for _, r := range "two" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.IsSearching())
	assert.Equal(t, []int{1}, m.matchLines)

	view := m.View()
	assert.Contains(t, view, "two")
}

func TestShowDiff(t *testing.T) {
	m := New()
	m.SetSize(60, 20)

	diff := strings.Join([]string{
		"--- a/main.go",
		"+++ b/main.go",
		"@@ -1,3 +1,3 @@",
		" package main",
		"-var x = 1",
		"+var x = 2",
	}, "\n")

	m.ShowDiff("main.go", diff)

	view := m.View()
	assert.Contains(t, view, "@@ -1,3 +1,3 @@")
	assert.Contains(t, view, "var x = 2")
	assert.Equal(t, "main.go", m.Path())
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	m := New()
	m.SetSize(60, 10)
	loadFixture(t, m, path)
	require.Equal(t, path, m.Path())

	m.Clear()
	assert.Equal(t, "", m.Path())
	assert.Contains(t, m.View(), "")
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	m := New()
	m.SetSize(60, 10)
	loadFixture(t, m, path)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.False(t, m.IsSearching())
}
