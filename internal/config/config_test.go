package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingManifest(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "clay.yaml"), "main.clay", []string{"/extra"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entry != "main.clay" {
		t.Fatalf("got entry %q", cfg.Entry)
	}
	if cfg.Backend != "tree-walk" {
		t.Fatalf("got backend %q", cfg.Backend)
	}
	if len(cfg.SearchPath) != 1 || cfg.SearchPath[0] != "/extra" {
		t.Fatalf("got search path %v", cfg.SearchPath)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clay.yaml")
	data := "searchPath:\n  - ./lib\nbackend: jit\nintrospect: \":9090\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, "main.clay", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "jit" {
		t.Fatalf("got backend %q", cfg.Backend)
	}
	if len(cfg.SearchPath) != 1 || cfg.SearchPath[0] != "./lib" {
		t.Fatalf("got search path %v", cfg.SearchPath)
	}
	if cfg.Introspect != ":9090" {
		t.Fatalf("got introspect %q", cfg.Introspect)
	}
	if cfg.Entry != "main.clay" {
		t.Fatalf("got entry %q", cfg.Entry)
	}
}

func TestColorEnabled(t *testing.T) {
	cfg := &Config{}
	if !cfg.ColorEnabled(true) {
		t.Fatalf("expected auto-detected true to pass through")
	}
	on := true
	cfg.Color = &on
	if !cfg.ColorEnabled(false) {
		t.Fatalf("expected explicit override to win over auto-detection")
	}
}
