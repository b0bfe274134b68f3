package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blert-io/bcf"
)

func TestLoad(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := Load(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Language != "ja" || cfg.Output != "json" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		opts := cfg.ValidateOptions()
		if opts.Version != bcf.V1_0 || opts.Mode != bcf.ModeLax {
			t.Fatalf("unexpected options: %+v", opts)
		}
	})

	t.Run("defaults fill omitted fields", func(t *testing.T) {
		cfg, err := Load(writeTempConfig(t, "strict: true\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Language != "en" || cfg.Output != "text" {
			t.Fatalf("defaults not applied: %+v", cfg)
		}
		if opts := cfg.ValidateOptions(); !opts.Version.IsZero() || opts.Mode != bcf.ModeStrict {
			t.Fatalf("unexpected options: %+v", opts)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, "version: \"2.0\"\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("malformed version", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, "version: latest\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, "language: fr\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown output", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, "output: xml\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("explicit file not found", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("default file missing", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load(DefaultPath)
		if err != nil {
			t.Fatalf("expected defaults, got %v", err)
		}
		if cfg.Output != "text" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := Load(writeTempConfig(t, "language: [\n")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
