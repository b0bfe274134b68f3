// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blert-io/bcf"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".bcf.yaml"

// Config holds CLI defaults. Flags override every field.
type Config struct {
	// Version pins validation to a BCF version. Empty means auto-detect.
	Version string `yaml:"version"`
	// Strict forces strict (true) or lax (false) validation. Nil keeps the
	// default, which depends on Version.
	Strict *bool `yaml:"strict"`
	// Language selects the grammar message language ("en" or "ja").
	Language string `yaml:"language"`
	// Output is "text" or "json".
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Language: "en", Output: "text"}
}

// Load reads the configuration at path. When path is DefaultPath and the file
// does not exist, Load returns Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if v := strings.TrimSpace(cfg.Version); v != "" {
		parsed, ok := bcf.ParseVersion(v)
		if !ok {
			return fmt.Errorf("malformed version: %q", v)
		}
		if !bcf.IsSupported(parsed) {
			return fmt.Errorf("unsupported version: %s", parsed)
		}
	}
	switch cfg.Language {
	case "en", "ja":
	default:
		return fmt.Errorf("unsupported language: %q", cfg.Language)
	}
	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output format: %q", cfg.Output)
	}
	return nil
}

// ValidateOptions converts the configuration into validation options.
func (c *Config) ValidateOptions() bcf.ValidateOptions {
	var opts bcf.ValidateOptions
	if v, ok := bcf.ParseVersion(strings.TrimSpace(c.Version)); ok {
		opts.Version = v
	}
	if c.Strict != nil {
		if *c.Strict {
			opts.Mode = bcf.ModeStrict
		} else {
			opts.Mode = bcf.ModeLax
		}
	}
	return opts
}
