package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSymbol_Exact(t *testing.T) {
	idx := &Index{Functions: []string{"pkg.a.a1", "pkg.b.b1"}}
	res := ResolveSymbol(idx, "pkg.a.a1")

	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "pkg.a.a1", res.FQN)
}

func TestResolveSymbol_DottedSuffix(t *testing.T) {
	idx := &Index{Functions: []string{"lab.demo.increment", "lab.demo.workflow"}}
	res := ResolveSymbol(idx, "demo.increment")

	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "lab.demo.increment", res.FQN)
}

func TestResolveSymbol_BareTerminal(t *testing.T) {
	idx := &Index{Functions: []string{"billing.invoice.calculateTotal", "billing.invoice.void"}}
	res := ResolveSymbol(idx, "calculateTotal")

	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "billing.invoice.calculateTotal", res.FQN)
}

func TestResolveSymbol_Ambiguous(t *testing.T) {
	// Two modules declare shared; the resolver reports both, sorted.
	idx := &Index{Functions: []string{"pkg.g.shared", "pkg.f.shared"}}
	res := ResolveSymbol(idx, "shared")

	assert.Equal(t, Ambiguous, res.Kind)
	assert.Equal(t, []string{"pkg.f.shared", "pkg.g.shared"}, res.Candidates)
}

func TestResolveSymbol_Unknown(t *testing.T) {
	idx := &Index{Functions: []string{"pkg.a.a1"}}
	res := ResolveSymbol(idx, "missing")

	assert.Equal(t, Unknown, res.Kind)
	assert.Equal(t, "missing", res.FQN)
}

func TestResolveSymbol_BareDoesNotMatchSubstring(t *testing.T) {
	// The bare form matches the terminal component exactly, never a
	// substring of it.
	idx := &Index{Functions: []string{"pkg.a.handler_extra"}}
	res := ResolveSymbol(idx, "handler")

	assert.Equal(t, Unknown, res.Kind)
}
