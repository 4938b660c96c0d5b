package graph

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// defaultSkipDirs are directory names that are never descended into while
// enumerating a project: VCS metadata, bytecode caches, build outputs,
// dependency trees, tool caches and virtual environments.
var defaultSkipDirs = map[string]bool{
	".git":          true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	"build":         true,
	"dist":          true,
	".eggs":         true,
	".tox":          true,
	"node_modules":  true,
}

// SourceFile is one Python file discovered under a project root, paired with
// its dotted module name.
type SourceFile struct {
	Path   string // absolute file path
	Module string // dotted module name, e.g. "acmeproj.a"
}

// ModuleRegistry maps a project's Python files to dotted module names.
// Files appear in walk order, which downstream consumers preserve as
// discovery order.
type ModuleRegistry struct {
	Root  string
	Files []SourceFile

	byModule map[string]string // module -> file path
}

// NewModuleRegistry creates an empty registry rooted at the given path.
func NewModuleRegistry(root string) *ModuleRegistry {
	return &ModuleRegistry{
		Root:     root,
		byModule: make(map[string]string),
	}
}

// AddFile records a discovered source file and its module name.
func (r *ModuleRegistry) AddFile(path, module string) {
	r.Files = append(r.Files, SourceFile{Path: path, Module: module})
	r.byModule[module] = path
}

// FileForModule returns the file path backing a module name, if known.
func (r *ModuleRegistry) FileForModule(module string) (string, bool) {
	path, ok := r.byModule[module]
	return path, ok
}

// BuildModuleRegistry walks projectRoot and registers every .py file that is
// not under a skipped directory. extraSkips extends the built-in skip set.
//
// The walk itself never fails on unreadable entries; they are skipped so a
// single bad directory cannot abort indexing.
func BuildModuleRegistry(projectRoot string, extraSkips []string) (*ModuleRegistry, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: root, Err: fs.ErrInvalid}
	}

	skip := make(map[string]bool, len(defaultSkipDirs)+len(extraSkips))
	for d := range defaultSkipDirs {
		skip[d] = true
	}
	for _, d := range extraSkips {
		skip[d] = true
	}

	registry := NewModuleRegistry(root)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		registry.AddFile(path, ModuleNameForFile(root, path))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return registry, nil
}

// ModuleNameForFile derives the dotted module name for a file under root:
// the relative path with separators replaced by dots, the .py extension
// dropped, and a trailing ".__init__" stripped so packages are addressed by
// their directory name.
func ModuleNameForFile(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".py")
	module := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	if module == "__init__" {
		return module
	}
	return strings.TrimSuffix(module, ".__init__")
}
