package listing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termdeck/termdeck/internal/git"
)

type stubStatuses map[string]git.Status

func (s stubStatuses) Status(path string) git.Status { return s[path] }

func mkdirAll(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0755))
	}
}

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestList(t *testing.T) {
	t.Run("directories sort before files, case-insensitive within groups", func(t *testing.T) {
		dir := t.TempDir()
		mkdirAll(t, filepath.Join(dir, "zeta"), filepath.Join(dir, "Alpha"))
		touch(t, filepath.Join(dir, "beta.go"), filepath.Join(dir, "ALPHA.go"))

		entries := NewService(nil).List(dir)
		require.Len(t, entries, 4)

		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name
		}
		assert.Equal(t, []string{"Alpha", "zeta", "ALPHA.go", "beta.go"}, names)
		assert.True(t, entries[0].IsDir)
		assert.True(t, entries[1].IsDir)
		assert.False(t, entries[2].IsDir)
	})

	t.Run("dotfiles are excluded", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, ".hidden"), filepath.Join(dir, "shown.txt"))
		mkdirAll(t, filepath.Join(dir, ".git"))

		entries := NewService(nil).List(dir)
		require.Len(t, entries, 1)
		assert.Equal(t, "shown.txt", entries[0].Name)
	})

	t.Run("ListWithHidden includes dotfiles and flags them", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, ".hidden"), filepath.Join(dir, "shown.txt"))

		entries := NewService(nil).ListWithHidden(dir, true)
		require.Len(t, entries, 2)

		byName := map[string]Entry{}
		for _, e := range entries {
			byName[e.Name] = e
		}
		assert.True(t, byName[".hidden"].Hidden)
		assert.False(t, byName["shown.txt"].Hidden)
	})

	t.Run("entries carry git status from the source", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "dirty.go"), filepath.Join(dir, "clean.go"))

		statuses := stubStatuses{
			filepath.Join(dir, "dirty.go"): git.StatusModified,
		}
		entries := NewService(statuses).List(dir)
		require.Len(t, entries, 2)

		byName := map[string]Entry{}
		for _, e := range entries {
			byName[e.Name] = e
		}
		assert.Equal(t, git.StatusNone, byName["clean.go"].Status)
		assert.Equal(t, git.StatusModified, byName["dirty.go"].Status)
	})

	t.Run("unreadable directory yields empty listing", func(t *testing.T) {
		entries := NewService(nil).List(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Empty(t, entries)
	})
}
