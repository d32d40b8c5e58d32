package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the content of the configuration file.
type Config struct {
	Prompt             string   `yaml:"prompt"`
	ContinuationPrompt string   `yaml:"continuation_prompt"`
	History            bool     `yaml:"history"`
	HistorySize        int      `yaml:"history_size"`
	LibPaths           []string `yaml:"lib_paths"`
	ShowResult         bool     `yaml:"show_result"`
}

// DefaultConfig returns the configuration used when there is no
// configuration file.
func DefaultConfig() *Config {
	return &Config{
		Prompt:             "> ",
		ContinuationPrompt: "| ",
		History:            true,
		HistorySize:        1000,
		ShowResult:         true,
	}
}

// LoadConfig reads the configuration file at path. Fields missing from the
// file keep their default values, and a missing file yields the default
// configuration. Unknown fields are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.HistorySize < 0 {
		return nil, fmt.Errorf("%s: history_size must be non-negative, got %d", path, cfg.HistorySize)
	}
	return cfg, nil
}
