package view

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	st := NewState(3)
	st.ShowTheater = true
	st.Log.Collapsed[2] = true
	st.Log.LogLevel = 1
	st.Theater = TheaterState{Href: "/mesh0.png", Locked: true, Overview: true}

	path := filepath.Join(t.TempDir(), "runview", "state.json")
	if err := st.Save(path); err != nil {
		t.Fatal(err)
	}

	got := LoadState(path, 3)
	if !got.ShowTheater || !got.Log.Collapsed[2] || got.Log.LogLevel != 1 {
		t.Errorf("log state lost in round trip: %+v", got)
	}
	if got.Theater != st.Theater {
		t.Errorf("theater state lost in round trip: %+v", got.Theater)
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	got := LoadState(filepath.Join(t.TempDir(), "absent.json"), 2)
	if got.Log.LogLevel != 2 {
		t.Errorf("expected the default verbosity, got %d", got.Log.LogLevel)
	}
	if got.Log.Collapsed == nil {
		t.Error("expected a usable collapsed set")
	}
	if got.ShowTheater {
		t.Error("expected the log pane to start active")
	}
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	got := LoadState(path, 4)
	if got.Log.LogLevel != 4 {
		t.Errorf("corrupt state must fall back fresh, got %+v", got)
	}
}

func TestLoadStateClampsVerbosity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"log":{"loglevel":9}}`), 0644); err != nil {
		t.Fatal(err)
	}
	got := LoadState(path, 3)
	if got.Log.LogLevel != 3 {
		t.Errorf("out-of-range verbosity must reset, got %d", got.Log.LogLevel)
	}
	if got.Log.Collapsed == nil {
		t.Error("expected a usable collapsed set")
	}
}
