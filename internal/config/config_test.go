package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// No config file anywhere in the search path: defaults apply.
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Fetch.TimeoutSec != 30 || cfg.Fetch.RatePerSec != 2 || cfg.Fetch.BrowserWaitSec != 3 {
		t.Errorf("fetch defaults = %+v", cfg.Fetch)
	}
	if cfg.Collector.Parallel || cfg.Collector.MaxWorkers != 4 {
		t.Errorf("collector defaults = %+v", cfg.Collector)
	}
	if cfg.Validation.Strict || cfg.Validation.MaxAgeHours != 48 {
		t.Errorf("validation defaults = %+v", cfg.Validation)
	}
	if cfg.Output.Dir != "./output" || !cfg.Output.CSV || !cfg.Output.HTML {
		t.Errorf("output defaults = %+v", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketpipe.yaml")
	content := `
logging:
  level: debug
  format: json
collector:
  parallel: true
  max_workers: 8
validation:
  strict: true
output:
  dir: /tmp/out
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Collector.Parallel || cfg.Collector.MaxWorkers != 8 {
		t.Errorf("collector = %+v", cfg.Collector)
	}
	if !cfg.Validation.Strict {
		t.Error("strict should be true")
	}
	// Untouched sections keep their defaults.
	if cfg.Fetch.TimeoutSec != 30 {
		t.Errorf("fetch timeout = %d, want the default 30", cfg.Fetch.TimeoutSec)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("output dir = %q", cfg.Output.Dir)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
