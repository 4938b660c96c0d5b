// Package config loads the optional .whyx.yml project file. Everything in
// it is additive: extra directories to skip while indexing and extra module
// prefixes the tracer should ignore.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file looked up at the project
// root.
const FileName = ".whyx.yml"

// Config is the parsed .whyx.yml contents.
type Config struct {
	// SkipDirs extends the built-in directory skip set for indexing.
	SkipDirs []string `yaml:"skip_dirs"`
	// IgnoredPrefixes extends the tracer's self-exclusion list.
	IgnoredPrefixes []string `yaml:"ignored_prefixes"`
}

// Load reads root/.whyx.yml. A missing file is not an error and yields an
// empty config; a malformed file is surfaced so a typo does not silently
// change what gets indexed.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &cfg, nil
}
