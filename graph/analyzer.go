package graph

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Edge is a directed (caller, callee) pair of fully qualified names.
type Edge [2]string

// ModuleAnalysis holds everything the static analyzer extracts from a single
// module: declared functions/methods in source order and the call edges
// rooted in them.
type ModuleAnalysis struct {
	Functions []string
	Edges     []Edge
}

// analyzer walks one module's AST and resolves call targets to fully
// qualified names. Resolution is deliberately conservative: an edge is only
// emitted when the callee can be justified from syntax alone (imports,
// self/cls, locally defined classes and functions). Anything else stays
// unresolved rather than guessed.
type analyzer struct {
	moduleName      string
	source          []byte
	imports         map[string]string
	classes         map[string]bool
	localFunctions  map[string]bool
	currentFunction string
	currentClass    string

	result *ModuleAnalysis
}

// AnalyzeModule parses source with the tree-sitter Python grammar and
// extracts the module's declared functions and call edges. The module name
// must already be in dotted form (see ModuleNameForFile).
func AnalyzeModule(moduleName string, source []byte) (*ModuleAnalysis, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	a := &analyzer{
		moduleName:     moduleName,
		source:         source,
		imports:        make(map[string]string),
		classes:        make(map[string]bool),
		localFunctions: make(map[string]bool),
		result:         &ModuleAnalysis{},
	}
	a.walk(tree.RootNode())
	return a.result, nil
}

func (a *analyzer) walk(node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		a.processImport(node)
		return
	case "import_from_statement":
		a.processImportFrom(node)
		return
	case "class_definition":
		a.processClass(node)
		return
	case "function_definition":
		a.processFunction(node)
		return
	case "call":
		a.processCall(node)
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		a.walk(node.NamedChild(i))
	}
}

// processImport handles `import a.b [as x]`, including comma-separated
// forms. The bound target is always the full dotted path; the local alias
// defaults to the last path component.
func (a *analyzer) processImport(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			target := child.Content(a.source)
			parts := strings.Split(target, ".")
			a.imports[parts[len(parts)-1]] = target
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				a.imports[aliasNode.Content(a.source)] = nameNode.Content(a.source)
			}
		}
	}
}

// processImportFrom handles `from M import n [as x]`, both absolute and
// relative. A relative import at level L resolves against the current
// module's package path with L-1 trailing components dropped. Wildcard
// imports bind nothing.
func (a *analyzer) processImportFrom(node *sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	var root string
	switch moduleNode.Type() {
	case "relative_import":
		text := moduleNode.Content(a.source)
		level := len(text) - len(strings.TrimLeft(text, "."))
		remainder := strings.TrimLeft(text, ".")

		baseParts := strings.Split(a.moduleName, ".")
		baseParts = baseParts[:len(baseParts)-1]
		if level > 1 {
			trim := level - 1
			if trim > len(baseParts) {
				trim = len(baseParts)
			}
			baseParts = baseParts[:len(baseParts)-trim]
		}
		if remainder != "" {
			baseParts = append(baseParts, strings.Split(remainder, ".")...)
		}
		root = strings.Join(baseParts, ".")
	default:
		root = moduleNode.Content(a.source)
	}

	// Imported names follow the `import` keyword; the module node itself is
	// also a dotted_name, so only children past the keyword count.
	seenImportKeyword := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "import" {
			seenImportKeyword = true
			continue
		}
		if !seenImportKeyword {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			continue
		case "dotted_name":
			name := child.Content(a.source)
			a.imports[name] = joinDotted(root, name)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				name := nameNode.Content(a.source)
				a.imports[aliasNode.Content(a.source)] = joinDotted(root, name)
			}
		}
	}
}

func (a *analyzer) processClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := nameNode.Content(a.source)
	a.classes[className] = true

	prev := a.currentClass
	a.currentClass = className
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			a.walk(body.NamedChild(i))
		}
	}
	a.currentClass = prev
}

func (a *analyzer) processFunction(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(a.source)

	var fqn string
	if a.currentClass != "" {
		fqn = a.moduleName + "." + a.currentClass + "." + name
	} else {
		fqn = a.moduleName + "." + name
		a.localFunctions[name] = true
	}
	a.result.Functions = append(a.result.Functions, fqn)

	prev := a.currentFunction
	a.currentFunction = fqn
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			a.walk(body.NamedChild(i))
		}
	}
	a.currentFunction = prev
}

func (a *analyzer) processCall(node *sitter.Node) {
	if a.currentFunction != "" {
		if target := a.resolveCall(node); target != "" {
			a.result.Edges = append(a.result.Edges, Edge{a.currentFunction, target})
		}
	}
	// Arguments (and chained call expressions) may contain further calls.
	for i := 0; i < int(node.NamedChildCount()); i++ {
		a.walk(node.NamedChild(i))
	}
}

// resolveCall maps a call expression's target to a fully qualified name, or
// "" when the target cannot be justified from syntax.
func (a *analyzer) resolveCall(node *sitter.Node) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	target, ok := dottedChain(fn, a.source)
	if !ok || target == "" {
		return ""
	}
	parts := strings.Split(target, ".")
	head := parts[0]

	if (head == "self" || head == "cls") && a.currentClass != "" {
		parts[0] = a.moduleName + "." + a.currentClass
		return strings.Join(parts, ".")
	}
	if imported, ok := a.imports[head]; ok {
		parts[0] = imported
		return strings.Join(parts, ".")
	}
	if a.classes[head] {
		if len(parts) == 1 {
			// A bare call on a class is construction.
			return a.moduleName + "." + head + ".__init__"
		}
		parts[0] = a.moduleName + "." + head
		return strings.Join(parts, ".")
	}
	if a.localFunctions[head] {
		if len(parts) == 1 {
			return a.moduleName + "." + head
		}
		// Attribute access rooted at a local function result is opaque.
		return ""
	}
	return ""
}

// dottedChain flattens a pure name/attribute chain into dotted form.
// Anything else (subscripts, calls, literals) is not a chain.
func dottedChain(node *sitter.Node, source []byte) (string, bool) {
	switch node.Type() {
	case "identifier":
		return node.Content(source), true
	case "attribute":
		object := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if object == nil || attr == nil {
			return "", false
		}
		base, ok := dottedChain(object, source)
		if !ok {
			return "", false
		}
		return base + "." + attr.Content(source), true
	default:
		return "", false
	}
}

func joinDotted(root, name string) string {
	if root == "" {
		return name
	}
	return root + "." + name
}
