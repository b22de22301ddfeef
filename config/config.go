package config

//go:generate go run ../tools/schema-generator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values can be written in the usual
// "250ms" / "1s" notation.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the top-level configuration structure for runview.
type Config struct {
	// ViewableSuffixes lists the file suffixes treated as navigable plots.
	// Anything else referenced by the log renders as an opaque link.
	ViewableSuffixes []string `yaml:"viewable_suffixes,omitempty"`

	// PollInterval is the cadence of progress snapshot fetches.
	PollInterval Duration `yaml:"poll_interval,omitempty"`

	// FetchInterval is the pause between consecutive log range requests.
	FetchInterval Duration `yaml:"fetch_interval,omitempty"`

	// PlotAspect is the width/height ratio assumed for grid layout.
	PlotAspect float64 `yaml:"plot_aspect,omitempty"`

	// ScrubThreshold is the drag distance, in terminal rows, per
	// navigation step while scrubbing.
	ScrubThreshold float64 `yaml:"scrub_threshold,omitempty"`

	// LogLevel is the default verbosity filter, 0 (error) to 4 (debug).
	LogLevel int `yaml:"loglevel,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ViewableSuffixes: []string{".png", ".jpg", ".jpeg", ".svg", ".gif"},
		PollInterval:     Duration(time.Second),
		FetchInterval:    Duration(100 * time.Millisecond),
		PlotAspect:       4.0 / 3.0,
		ScrubThreshold:   2,
		LogLevel:         3,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "runview", "config.yaml")
}

// Load reads a yaml config file on top of the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.LogLevel < 0 || cfg.LogLevel > 4 {
		return cfg, fmt.Errorf("config %s: loglevel %d out of range 0-4", path, cfg.LogLevel)
	}
	return cfg, nil
}
