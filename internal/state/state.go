package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	configDirName = ".config"
	appDirName    = "termdeck"
	stateFileName = "state.json"
)

// State is the persisted application state, written on exit and
// restored at startup.
type State struct {
	// ThemeIndex is the index of the selected theme.
	ThemeIndex int `json:"theme_index"`
	// SidebarPercent is the sidebar width percentage (15-60).
	SidebarPercent int `json:"sidebar_percent,omitempty"`
	// SidebarVisible indicates whether the file sidebar is shown.
	SidebarVisible bool `json:"sidebar_visible"`
	// ShowHidden indicates whether dotfiles are listed in the sidebar.
	ShowHidden bool `json:"show_hidden,omitempty"`
	// Shell overrides the login shell used for new terminal tabs.
	Shell string `json:"shell,omitempty"`
}

// DefaultState returns the state used on first run.
func DefaultState() State {
	return State{
		ThemeIndex:     0,
		SidebarVisible: true,
	}
}

// configDir returns the config directory (~/.config/termdeck).
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, appDirName), nil
}

func statePath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// Load reads the persisted state, falling back to defaults when the
// file is missing or unreadable.
func Load() State {
	path, err := statePath()
	if err != nil {
		return DefaultState()
	}
	return LoadFrom(path)
}

// LoadFrom reads state from an explicit path.
func LoadFrom(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultState()
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultState()
	}
	return s
}

// Save writes the state to the default location, creating the config
// directory if needed.
func Save(s State) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes state to an explicit path.
func SaveTo(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
