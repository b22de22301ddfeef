// Package view renders the decoded run log and the plot theater: a
// persisted view state, lipgloss renderers for the context tree and the
// overview grid, and the bubbletea model behind `runview watch`.
package view

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LogState is the persisted state of the log pane.
type LogState struct {
	Collapsed map[int]bool `json:"collapsed"`
	LogLevel  int          `json:"loglevel"`
}

// TheaterState is the persisted state of the theater pane.
type TheaterState struct {
	Href     string `json:"href"`
	Locked   bool   `json:"locked"`
	Overview bool   `json:"overview"`
}

// State is the persisted view state. Exactly one of the two panes is active,
// selected by ShowTheater.
type State struct {
	ShowTheater bool         `json:"show"`
	Log         LogState     `json:"log"`
	Theater     TheaterState `json:"theater"`
}

// NewState returns a state with the given verbosity filter and the log pane
// active.
func NewState(loglevel int) State {
	return State{
		Log: LogState{Collapsed: make(map[int]bool), LogLevel: loglevel},
	}
}

// LoadState restores a previously saved state. A missing or unreadable file
// falls back to fresh, never to an error: stale view state must not block
// the viewer.
func LoadState(path string, loglevel int) State {
	fresh := NewState(loglevel)
	data, err := os.ReadFile(path)
	if err != nil {
		return fresh
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fresh
	}
	if st.Log.Collapsed == nil {
		st.Log.Collapsed = make(map[int]bool)
	}
	if st.Log.LogLevel < 0 || st.Log.LogLevel > 4 {
		st.Log.LogLevel = loglevel
	}
	return st
}

// Save writes the state next to the config for the next invocation.
func (s State) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
