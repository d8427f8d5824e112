// Package config loads kernel settings from a TOML file. Everything has a
// default; a config file is optional and flags override it.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the kernel configuration.
type Config struct {
	// Engine names the script engine to execute code with (goja, tengo)
	Engine string `toml:"engine"`
	// Verbose enables startup/shutdown diagnostics on stderr
	Verbose bool `toml:"verbose"`
	// History configures the optional request transcript
	History HistoryConfig `toml:"history"`
}

// HistoryConfig holds transcript settings.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: "goja",
		History: HistoryConfig{
			Enabled: false,
			Path:    "gokernel_history.db",
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be caught later.
func (c Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}
