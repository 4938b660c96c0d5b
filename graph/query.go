package graph

import "sort"

// CallMaps are the two adjacency views derived from an index's edge set:
// callee -> sorted unique callers, and caller -> sorted unique callees.
// They are cheap to rebuild and are not persisted.
type CallMaps struct {
	Callers map[string][]string
	Callees map[string][]string
}

// BuildCallMaps deduplicates the index's edges and pushes each edge into
// both directions, sorting every adjacency list for determinism.
func BuildCallMaps(idx *Index) *CallMaps {
	maps := &CallMaps{
		Callers: make(map[string][]string),
		Callees: make(map[string][]string),
	}
	seen := make(map[Edge]bool, len(idx.Edges))
	for _, edge := range idx.Edges {
		if seen[edge] {
			continue
		}
		seen[edge] = true
		caller, callee := edge[0], edge[1]
		maps.Callers[callee] = append(maps.Callers[callee], caller)
		maps.Callees[caller] = append(maps.Callees[caller], callee)
	}
	for _, m := range []map[string][]string{maps.Callers, maps.Callees} {
		for k := range m {
			m[k] = sortedUnique(m[k])
		}
	}
	return maps
}

// CallerPaths enumerates caller chains ending at target, each chain running
// root-first. A chain terminates (and is emitted) at a node with no
// recorded callers; an isolated target yields the single chain [target].
// Enumeration stops once limit chains are collected or a chain would exceed
// maxDepth. A candidate caller already on the current chain is skipped, so
// cycles cannot recurse.
func (m *CallMaps) CallerPaths(target string, limit, maxDepth int) [][]string {
	var results [][]string
	var dfs func(callee string, path []string, depth int)
	dfs = func(callee string, path []string, depth int) {
		if len(results) >= limit || depth > maxDepth {
			return
		}
		parents := m.Callers[callee]
		if len(parents) == 0 {
			results = append(results, path)
			return
		}
		for _, caller := range parents {
			if containsString(path, caller) {
				continue
			}
			next := make([]string, 0, len(path)+1)
			next = append(next, caller)
			next = append(next, path...)
			dfs(caller, next, depth+1)
		}
	}
	dfs(target, []string{target}, 0)
	return results
}

// DirectCallees returns the sorted unique direct adjacency of target.
func (m *CallMaps) DirectCallees(target string) []string {
	return append([]string(nil), m.Callees[target]...)
}

// TransitiveCallees returns every node reachable from target through the
// forward map, sorted, excluding target itself. Nodes up to maxDepth hops
// away are expanded, so callees up to maxDepth+1 hops away are included.
func (m *CallMaps) TransitiveCallees(target string, maxDepth int) []string {
	seen := make(map[string]bool)
	type item struct {
		node  string
		depth int
	}
	stack := []item{{target, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > maxDepth {
			continue
		}
		for _, nb := range m.Callees[top.node] {
			if !seen[nb] {
				seen[nb] = true
				stack = append(stack, item{nb, top.depth + 1})
			}
		}
	}
	delete(seen, target)
	out := make([]string, 0, len(seen))
	for node := range seen {
		out = append(out, node)
	}
	sort.Strings(out)
	return out
}

// FindAllPaths enumerates up to limit simple paths from source to target in
// the forward map, depth-first, bounded by maxDepth. Adjacency lists are
// iterated in sorted order, so the first limit paths are deterministic.
func (m *CallMaps) FindAllPaths(source, target string, limit, maxDepth int) [][]string {
	var results [][]string
	visited := make(map[string]bool)
	var path []string

	var dfs func(node string, depth int)
	dfs = func(node string, depth int) {
		if len(results) >= limit || depth > maxDepth {
			return
		}
		visited[node] = true
		path = append(path, node)
		if node == target {
			results = append(results, append([]string(nil), path...))
		} else {
			for _, nb := range m.Callees[node] {
				if !visited[nb] {
					dfs(nb, depth+1)
				}
			}
		}
		path = path[:len(path)-1]
		delete(visited, node)
	}
	dfs(source, 0)
	return results
}

func sortedUnique(values []string) []string {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func containsString(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
