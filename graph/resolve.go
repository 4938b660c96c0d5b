package graph

import "strings"

// ResolutionKind tags the outcome of resolving a user-supplied symbol.
type ResolutionKind int

const (
	// Resolved means a unique fully qualified name was found.
	Resolved ResolutionKind = iota
	// Ambiguous means multiple functions matched; Candidates lists them.
	Ambiguous
	// Unknown means nothing matched; FQN carries the input unchanged so
	// callers can proceed with it.
	Unknown
)

// Resolution is the tagged result of ResolveSymbol.
type Resolution struct {
	Kind       ResolutionKind
	FQN        string
	Candidates []string
}

// ResolveSymbol maps a short or suffix symbol to a unique fully qualified
// name from the index:
//
//   - an exact member of functions resolves to itself;
//   - a dotted symbol resolves to the unique function ending in ".symbol";
//   - a bare symbol resolves to the unique function whose last dotted
//     component equals it.
//
// Multiple matches produce an Ambiguous resolution with sorted candidates;
// no match produces Unknown with the input preserved.
func ResolveSymbol(idx *Index, symbol string) Resolution {
	for _, fqn := range idx.Functions {
		if fqn == symbol {
			return Resolution{Kind: Resolved, FQN: symbol}
		}
	}

	var candidates []string
	if strings.Contains(symbol, ".") {
		suffix := "." + symbol
		for _, fqn := range idx.Functions {
			if strings.HasSuffix(fqn, suffix) {
				candidates = append(candidates, fqn)
			}
		}
	} else {
		for _, fqn := range idx.Functions {
			parts := strings.Split(fqn, ".")
			if parts[len(parts)-1] == symbol {
				candidates = append(candidates, fqn)
			}
		}
	}

	candidates = sortedUnique(candidates)
	switch len(candidates) {
	case 1:
		return Resolution{Kind: Resolved, FQN: candidates[0]}
	case 0:
		return Resolution{Kind: Unknown, FQN: symbol}
	default:
		return Resolution{Kind: Ambiguous, Candidates: candidates}
	}
}
