package hostconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.Numeric.DefaultWidth != 128 {
		t.Errorf("Expected DefaultWidth=128, got %d", cfg.Numeric.DefaultWidth)
	}
	if cfg.Numeric.DefaultShift != 126 {
		t.Errorf("Expected DefaultShift=126, got %d", cfg.Numeric.DefaultShift)
	}
	if !cfg.Execution.SingleInstance {
		t.Error("Expected SingleInstance=true")
	}
	if cfg.API.Addr != "127.0.0.1:8420" {
		t.Errorf("Expected API.Addr=127.0.0.1:8420, got %s", cfg.API.Addr)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultAppConfig()
	cfg.Numeric.DefaultWidth = 256
	cfg.API.Enabled = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Numeric.DefaultWidth != 256 {
		t.Errorf("Expected DefaultWidth=256, got %d", loaded.Numeric.DefaultWidth)
	}
	if !loaded.API.Enabled {
		t.Error("Expected API.Enabled=true")
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Numeric.DefaultWidth != 128 {
		t.Errorf("Expected default width 128, got %d", cfg.Numeric.DefaultWidth)
	}
}

func TestScopeConfigTargets(t *testing.T) {
	cfg := DefaultAppConfig()
	sc := NewScopeConfig()
	cfg.ScopeConfigTargets(sc)

	errs := sc.Parse(`
		numeric.default_width = 256;
		api.enabled = true;
		api.addr = "0.0.0.0:9000";
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if cfg.Numeric.DefaultWidth != 256 {
		t.Errorf("Expected DefaultWidth=256, got %d", cfg.Numeric.DefaultWidth)
	}
	if !cfg.API.Enabled {
		t.Error("Expected API.Enabled=true")
	}
	if cfg.API.Addr != "0.0.0.0:9000" {
		t.Errorf("Expected API.Addr=0.0.0.0:9000, got %s", cfg.API.Addr)
	}
}

func TestScopeConfigUnknownScope(t *testing.T) {
	sc := NewScopeConfig()
	errs := sc.Parse(`bogus.field = 1;`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestScopeConfigErrorCap(t *testing.T) {
	sc := NewScopeConfig()
	var bad string
	for i := 0; i < 40; i++ {
		bad += "bogus.field = 1;\n"
	}
	errs := sc.Parse(bad)
	if len(errs) != maxScopeConfigErrors {
		t.Errorf("expected error count capped at %d, got %d", maxScopeConfigErrors, len(errs))
	}
}

func TestGetConfigPathCreatesDir(t *testing.T) {
	// Verify GetConfigPath returns a non-empty path whose directory exists
	// once it returns, and that GetStateDir is non-empty.
	p := GetConfigPath()
	if p == "" {
		t.Error("GetConfigPath() returned empty string")
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Errorf("GetConfigPath() directory %q not created: %v", filepath.Dir(p), err)
	}
	if p := GetStateDir(); p == "" {
		t.Error("GetStateDir() returned empty string")
	}
	_ = os.Getenv("HOME")
}
