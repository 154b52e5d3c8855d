package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "DATASET_SOURCE", "LOG_LEVEL", "CORS_ORIGINS", EnvFile} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8081" {
		t.Errorf("expected port 8081, got %s", cfg.Server.Port)
	}
	if cfg.Dataset.Source != "data/universities.json" {
		t.Errorf("unexpected source %s", cfg.Dataset.Source)
	}
	if cfg.Query.PageSize != 25 || cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("unexpected query config %+v", cfg.Query)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unexpected log level %s", cfg.Log.Level)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNIFINDER_TEST_HOST", "data.example.edu")

	path := filepath.Join(t.TempDir(), "override.yaml")
	content := `
dataset:
  source: https://${UNIFINDER_TEST_HOST}/universities.json
query:
  page_size: 500
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://unifinder.example, ,https://admin.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Dataset.Source != "https://data.example.edu/universities.json" {
		t.Errorf("env not expanded: %s", cfg.Dataset.Source)
	}
	if cfg.Dataset.MaxRetries != 3 {
		t.Errorf("expected untouched default max_retries 3, got %d", cfg.Dataset.MaxRetries)
	}
	if cfg.Query.PageSize != 100 {
		t.Errorf("expected page size capped at 100, got %d", cfg.Query.PageSize)
	}
	if cfg.Log.Level != "debug" || cfg.Server.Port != "9000" {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	expected := []string{"http://localhost:4200", "https://unifinder.example", "https://admin.example"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, expected) {
		t.Errorf("expected origins %v, got %v", expected, cfg.Server.CORSOrigins)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFile, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected port from env file, got %s", cfg.Server.Port)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestFetchConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	fc := cfg.Fetch()
	if fc.TimeoutSeconds != 30 || fc.MaxRetries != 3 {
		t.Errorf("unexpected fetch config %+v", fc)
	}
}
