// SPDX-License-Identifier: EPL-2.0

// Package config loads the command line settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "~/.config/composer/config.json"

// ErrInvalidLogLevel is returned for unknown logLevel values.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Config holds the defaults of the composer commands. Command line flags
// override them.
type Config struct {
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
	BPM        int    `json:"bpm"`
	PresetDir  string `json:"presetDir,omitempty"`
	Listen     string `json:"listen"`
	LogLevel   string `json:"logLevel"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() *Config {
	return &Config{
		SampleRate: 44100,
		Channels:   1,
		BPM:        120,
		Listen:     ":8080",
		LogLevel:   "info",
	}
}

// Path expands p, or DefaultPath when p is empty.
func Path(p string) (string, error) {
	if p == "" {
		p = DefaultPath
	}
	return homedir.Expand(p)
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	path, err := Path(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.PresetDir != "" {
		if cfg.PresetDir, err = homedir.Expand(cfg.PresetDir); err != nil {
			return nil, err
		}
	}
	if _, err := cfg.Level(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating the directory.
func (c *Config) Save(path string) error {
	path, err := Path(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return l, nil
}
