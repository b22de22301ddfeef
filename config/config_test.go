package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollInterval.Std() != time.Second || cfg.LogLevel != 3 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if len(cfg.ViewableSuffixes) == 0 {
		t.Error("expected default viewable suffixes")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "poll_interval: 250ms\nloglevel: 1\nviewable_suffixes: [\".webp\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollInterval.Std() != 250*time.Millisecond {
		t.Errorf("poll interval not applied: %v", cfg.PollInterval)
	}
	if cfg.LogLevel != 1 {
		t.Errorf("loglevel not applied: %d", cfg.LogLevel)
	}
	if len(cfg.ViewableSuffixes) != 1 || cfg.ViewableSuffixes[0] != ".webp" {
		t.Errorf("suffixes not applied: %v", cfg.ViewableSuffixes)
	}
	if cfg.PlotAspect != 4.0/3.0 {
		t.Errorf("unset fields must keep their defaults, got aspect %v", cfg.PlotAspect)
	}
}

func TestLoadRejectsBadVerbosity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("loglevel: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for loglevel 7")
	}
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(": not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
