package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.SkipDirs)
	assert.Empty(t, cfg.IgnoredPrefixes)
}

func TestLoad_ParsesFile(t *testing.T) {
	root := t.TempDir()
	content := "skip_dirs:\n  - generated\n  - vendor\nignored_prefixes:\n  - internal_tooling\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"generated", "vendor"}, cfg.SkipDirs)
	assert.Equal(t, []string{"internal_tooling"}, cfg.IgnoredPrefixes)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("skip_dirs: [unclosed"), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}
