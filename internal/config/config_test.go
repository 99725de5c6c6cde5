package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be fatal: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Completion.MaxTokens != 1000 {
		t.Errorf("max_tokens = %d, want 1000", cfg.Completion.MaxTokens)
	}
	if cfg.Completion.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", cfg.Completion.Temperature)
	}
	if cfg.Providers.BenchmarkSymbol != "SPY" {
		t.Errorf("benchmark = %s, want SPY", cfg.Providers.BenchmarkSymbol)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9000\ncompletion:\n  model: from-file\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COMPLETION_MODEL", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Completion.Model != "from-env" {
		t.Errorf("env must override file, got %s", cfg.Completion.Model)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	cfg.Completion.Temperature = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("temperature 1.5 must fail validation")
	}
}

func TestValidate_MissingAPIKeysAreAllowed(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Providers.PolygonAPIKey = ""
	cfg.Completion.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("absent API keys must not fail validation: %v", err)
	}
}
