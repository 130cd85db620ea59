// Package config loads the indentation settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds the user-tunable settings.
type Config struct {
	IndentUnit     string `yaml:"indent_unit"`
	UseTabs        bool   `yaml:"use_tabs"`
	TabSize        int    `yaml:"tab_size"`
	EmbeddedPrefix string `yaml:"embedded_prefix"`
	ChunkLanguage  string `yaml:"chunk_language"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		IndentUnit:     "  ",
		TabSize:        4,
		EmbeddedPrefix: "r-",
		ChunkLanguage:  "R",
		LogLevel:       "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Unit returns the string inserted per indentation level.
func (c Config) Unit() string {
	if c.UseTabs {
		return "\t"
	}
	return c.IndentUnit
}

// Validate checks the settings for values the engine cannot work with.
func (c Config) Validate() error {
	if !c.UseTabs && (c.IndentUnit == "" || strings.Trim(c.IndentUnit, " \t") != "") {
		return fmt.Errorf("%w: indent_unit must be blanks, got %q", ErrInvalid, c.IndentUnit)
	}
	if c.TabSize < 1 {
		return fmt.Errorf("%w: tab_size must be positive, got %d", ErrInvalid, c.TabSize)
	}
	if c.EmbeddedPrefix == "" {
		return fmt.Errorf("%w: embedded_prefix is empty", ErrInvalid)
	}
	if c.ChunkLanguage != "R" && c.ChunkLanguage != "r" {
		return fmt.Errorf("%w: chunk_language must be R or r, got %q", ErrInvalid, c.ChunkLanguage)
	}
	return nil
}
