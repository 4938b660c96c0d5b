package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleProject mirrors the canonical fixture tree: a small acmeproj
// package with predictable call relationships and an intentionally
// ambiguous "shared" symbol.
func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "acmeproj/__init__.py", "# test package\n")
	writeFile(t, root, "acmeproj/c.py", "def c1():\n    return 0\n")
	writeFile(t, root, "acmeproj/b.py", "from .c import c1\ndef b1():\n    c1()\ndef b2():\n    pass\n")
	writeFile(t, root, "acmeproj/a.py",
		"from .b import b1, b2\n"+
			"def a1():\n"+
			"    b1()\n"+
			"def a2():\n"+
			"    b2()\n"+
			"def helper_local():\n"+
			"    return 42\n"+
			"def a3():\n"+
			"    helper_local()\n")
	writeFile(t, root, "acmeproj/f.py", "def shared():\n    pass\n")
	writeFile(t, root, "acmeproj/g.py", "def shared():\n    return 1\n")
	return root
}

func edgeSet(edges []Edge) map[Edge]bool {
	set := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		set[e] = true
	}
	return set
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func TestBuildIndex_SampleProject(t *testing.T) {
	root := sampleProject(t)
	idx, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)

	functions := stringSet(idx.Functions)
	assert.True(t, functions["acmeproj.a.a1"])
	assert.True(t, functions["acmeproj.b.b1"])
	assert.True(t, functions["acmeproj.c.c1"])

	edges := edgeSet(idx.Edges)
	assert.True(t, edges[Edge{"acmeproj.a.a1", "acmeproj.b.b1"}])
	assert.True(t, edges[Edge{"acmeproj.a.a2", "acmeproj.b.b2"}])
	assert.True(t, edges[Edge{"acmeproj.a.a3", "acmeproj.a.helper_local"}])
	assert.True(t, edges[Edge{"acmeproj.b.b1", "acmeproj.c.c1"}])
}

func TestBuildIndex_EdgeSoundness(t *testing.T) {
	// Every caller in edges appears in functions.
	root := sampleProject(t)
	idx, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)

	functions := stringSet(idx.Functions)
	for _, edge := range idx.Edges {
		assert.True(t, functions[edge[0]], "caller %s missing from functions", edge[0])
	}
}

func TestBuildIndex_Deterministic(t *testing.T) {
	root := sampleProject(t)
	first, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)
	second, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, stringSet(first.Functions), stringSet(second.Functions))
	assert.Equal(t, edgeSet(first.Edges), edgeSet(second.Edges))
}

func TestBuildIndex_BrokenFileSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.py", "def fine():\n    pass\n")
	writeFile(t, root, "broken.py", "def broken(:\n")

	idx, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)
	assert.Contains(t, idx.Functions, "ok.fine")
}

func TestBuildIndex_ProgressCallback(t *testing.T) {
	root := sampleProject(t)
	var seen int
	_, err := BuildIndex(root, BuildOptions{
		Progress: func(done, total int, _ string) { seen = done },
	})
	require.NoError(t, err)
	assert.Equal(t, 6, seen)
}

func TestIndexSaveLoadRoundTrip(t *testing.T) {
	root := sampleProject(t)
	idx, err := BuildIndex(root, BuildOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, idx.Save(path))

	loaded, err := LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Root, loaded.Root)
	assert.Equal(t, idx.Functions, loaded.Functions)
	assert.Equal(t, idx.Edges, loaded.Edges)
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
