package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Index is the persisted result of statically analyzing a project: every
// declared function/method in discovery order plus the resolved call edges.
// Duplicates are tolerated in both sequences; query layers deduplicate.
type Index struct {
	Root        string   `json:"root"`
	GeneratedAt string   `json:"generated_at"`
	Functions   []string `json:"functions"`
	Edges       []Edge   `json:"edges"`
}

// BuildOptions tunes index construction.
type BuildOptions struct {
	// SkipDirs extends the built-in directory skip set.
	SkipDirs []string
	// Progress, when non-nil, is invoked after each file is analyzed.
	Progress func(done, total int, file string)
}

// BuildIndex analyzes every Python file under projectPath and accumulates
// the declared functions and call edges into an Index. Files that fail to
// read or parse are skipped; a broken file must never abort indexing.
func BuildIndex(projectPath string, opts BuildOptions) (*Index, error) {
	registry, err := BuildModuleRegistry(projectPath, opts.SkipDirs)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		Root:        registry.Root,
		GeneratedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Functions:   []string{},
		Edges:       []Edge{},
	}

	total := len(registry.Files)
	for i, file := range registry.Files {
		source, err := os.ReadFile(file.Path)
		if err == nil {
			if analysis, aerr := AnalyzeModule(file.Module, source); aerr == nil {
				idx.Functions = append(idx.Functions, analysis.Functions...)
				idx.Edges = append(idx.Edges, analysis.Edges...)
			}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, total, file.Path)
		}
	}
	return idx, nil
}

// Save writes the index as pretty-printed JSON. Failures surface to the
// caller; nothing is partially persisted on marshal errors.
func (idx *Index) Save(path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing index to %s: %w", path, err)
	}
	return nil
}

// LoadIndex reads a previously saved index file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", path, err)
	}
	return &idx, nil
}
