// Package config holds Clay's build-time constants and the runtime
// Config loaded from CLI flags or an optional clay.yaml manifest (spec.md
// §6's search-path/backend/color knobs), grounded on the teacher's
// constants file and its yaml.v3-based manifest loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the engine's reported version string.
const Version = "0.1.0"

// SourceExt is the recognized Clay source file extension (spec.md §6;
// the teacher's equivalent constant names ".funxy").
const SourceExt = ".clay"

// DefaultLibDir is the directory name searched for relative to the
// running executable, per spec.md §6's "default search path includes
// <exe-dir>/lib-clay".
const DefaultLibDir = "lib-clay"

// Config is the resolved set of runtime knobs for one `clay` invocation.
type Config struct {
	Entry      string   `yaml:"-"`
	SearchPath []string `yaml:"searchPath"`
	Backend    string   `yaml:"backend"` // "tree-walk" (default) or "jit"
	Color      *bool    `yaml:"color"`   // nil means auto-detect from the stream
	Introspect string   `yaml:"introspect"`
}

// Load reads manifestPath (if it exists) and overlays entry/searchPath on
// top of it; a missing manifest is not an error, matching the teacher's
// optional-config-file convention.
func Load(manifestPath, entry string, extraSearchPath []string) (*Config, error) {
	cfg := &Config{Entry: entry, Backend: "tree-walk"}

	if data, err := os.ReadFile(manifestPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
		}
		cfg.Entry = entry // CLI-supplied entry always wins over the manifest
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}

	cfg.SearchPath = append(cfg.SearchPath, extraSearchPath...)
	return cfg, nil
}

// ColorEnabled resolves the three-way Color override against an
// auto-detected default (typically diag.ColorForStream(fd)).
func (c *Config) ColorEnabled(auto bool) bool {
	if c.Color != nil {
		return *c.Color
	}
	return auto
}
