// Package config loads the console's YAML-driven tuning knobs the way
// vibetunnel loads its own session config: a struct with yaml tags,
// filled from a file on disk and then overridable by CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opendevcon/termcore/internal/logging"
)

// Config holds the tuning knobs spec §8's supplemented answerback/bell
// features and the page/history sizing need that aren't wire protocol,
// so they live outside the core packages entirely.
type Config struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	HistoryLines int `yaml:"history_lines"`

	Answerback string `yaml:"answerback"`
	BellAudible bool   `yaml:"bell_audible"`

	LogLevel logging.Level `yaml:"log_level"`

	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cols:         80,
		Rows:         24,
		HistoryLines: 10000,
		Answerback:   "",
		BellAudible:  false,
		LogLevel:     logging.LevelInfo,
		Listen:       ":7681",
	}
}

// Load reads path and merges it onto Default. A missing file is not an
// error: callers run on defaults until one is written.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
