package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// UIState holds interface preferences that survive restarts.
type UIState struct {
	SidebarOpen bool `json:"sidebar_open"`
}

// ChatDefaults holds the saved model preference used to seed new sessions.
type ChatDefaults struct {
	Model string `json:"model,omitempty"`
}

// DefaultUIState is the first-run state: sidebar open.
func DefaultUIState() UIState {
	return UIState{SidebarOpen: true}
}

// stateDir returns the state directory path (~/.nexagents).
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nexagents"), nil
}

func uiStatePath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ui.json"), nil
}

func chatDefaultsPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "defaults.json"), nil
}

// LoadUIState reads persisted preferences. The file is overlaid on the
// defaults, so an absent file, an absent key, or unreadable content leaves
// the sidebar open; only an explicit false closes it.
func LoadUIState() UIState {
	state := DefaultUIState()
	path, err := uiStatePath()
	if err != nil {
		return state
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultUIState()
	}
	return state
}

// SaveUIState writes preferences to ~/.nexagents/ui.json. Called on every
// change, not on exit, so a crash never loses the last toggle.
func SaveUIState(state UIState) error {
	dir, err := stateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := uiStatePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadChatDefaults reads the saved model preference. A zero value means the
// user has no preference yet.
func LoadChatDefaults() ChatDefaults {
	var d ChatDefaults
	path, err := chatDefaultsPath()
	if err != nil {
		return d
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return ChatDefaults{}
	}
	return d
}

// SaveChatDefaults writes the model preference to ~/.nexagents/defaults.json.
func SaveChatDefaults(d ChatDefaults) error {
	dir, err := stateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := chatDefaultsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
