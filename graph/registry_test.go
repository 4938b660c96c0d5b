package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestModuleNameForFile(t *testing.T) {
	root := string(filepath.Separator) + "proj"

	assert.Equal(t, "a", ModuleNameForFile(root, filepath.Join(root, "a.py")))
	assert.Equal(t, "pkg.b", ModuleNameForFile(root, filepath.Join(root, "pkg", "b.py")))
	assert.Equal(t, "pkg", ModuleNameForFile(root, filepath.Join(root, "pkg", "__init__.py")))
	assert.Equal(t, "__init__", ModuleNameForFile(root, filepath.Join(root, "__init__.py")))
}

func TestBuildModuleRegistry_SkipsCachesAndEnvs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/a.py", "def a1():\n    pass\n")
	writeFile(t, root, "pkg/__pycache__/a.py", "broken")
	writeFile(t, root, ".venv/lib/site.py", "def hidden():\n    pass\n")
	writeFile(t, root, "node_modules/x/y.py", "def hidden():\n    pass\n")
	writeFile(t, root, "notes.txt", "not python")

	registry, err := BuildModuleRegistry(root, nil)
	require.NoError(t, err)

	modules := make([]string, 0, len(registry.Files))
	for _, f := range registry.Files {
		modules = append(modules, f.Module)
	}
	assert.Equal(t, []string{"pkg.a"}, modules)
}

func TestBuildModuleRegistry_ExtraSkips(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/a.py", "def a1():\n    pass\n")
	writeFile(t, root, "generated/g.py", "def g1():\n    pass\n")

	registry, err := BuildModuleRegistry(root, []string{"generated"})
	require.NoError(t, err)

	require.Len(t, registry.Files, 1)
	assert.Equal(t, "pkg.a", registry.Files[0].Module)
}

func TestBuildModuleRegistry_MissingRoot(t *testing.T) {
	_, err := BuildModuleRegistry(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
