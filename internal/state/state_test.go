package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 0, s.ThemeIndex)
	assert.True(t, s.SidebarVisible)
	assert.False(t, s.ShowHidden)
	assert.Empty(t, s.Shell)
}

func TestConfigDir(t *testing.T) {
	dir, err := configDir()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "termdeck"), dir)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "state.json")

	original := State{
		ThemeIndex:     2,
		SidebarPercent: 30,
		SidebarVisible: true,
		ShowHidden:     true,
		Shell:          "/bin/zsh",
	}
	require.NoError(t, SaveTo(path, original), "SaveTo creates parent directories")

	loaded := LoadFrom(path)
	assert.Equal(t, original, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	loaded := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultState(), loaded)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded := LoadFrom(path)
	assert.Equal(t, DefaultState(), loaded)
}

func TestOmitEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, SaveTo(path, State{ThemeIndex: 1, SidebarVisible: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "shell")
	assert.NotContains(t, string(data), "sidebar_percent")
}
