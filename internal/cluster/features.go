// Package cluster groups candidate responses by structural similarity so
// that votes count structural agreement rather than textual identity.
package cluster

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ShayCichocki/quorum/internal/parser"
)

// FunctionSig describes one function found in a candidate.
type FunctionSig struct {
	// Name is the function name; empty for anonymous functions.
	Name string
	// Arity is the declared parameter count.
	Arity int
	// Async is true for async functions.
	Async bool
	// Arrow is true for arrow functions.
	Arrow bool
}

// ClassInfo describes one class declaration.
type ClassInfo struct {
	// Name is the class name.
	Name string
	// MethodCount is the number of method definitions in the class body.
	MethodCount int
}

// Feature is the structural fingerprint of one candidate. Features are
// derived values, recomputed (or cached per run) whenever similarity is
// needed.
type Feature struct {
	// Functions lists every function signature found.
	Functions []FunctionSig
	// Classes lists every class declaration found.
	Classes []ClassInfo
	// ImportSources is the set of imported module sources.
	ImportSources map[string]struct{}
	// ImportCount is the number of import statements.
	ImportCount int
	// ImportSpecifiers is the total number of imported bindings.
	ImportSpecifiers int
	// ExportCount is the number of export statements.
	ExportCount int
	// VariableCount is the number of variable declarators.
	VariableCount int
	// Tokens is the set of distinct identifier and string-literal tokens.
	// On parse failure it holds the raw token fallback instead.
	Tokens map[string]struct{}
	// SyntaxValid is false when the candidate failed to parse.
	SyntaxValid bool
}

// ExtractFeatures parses code and walks the syntax tree collecting the
// structural fingerprint. On parse failure the feature degrades to a raw
// token set split on non-alphanumeric characters with SyntaxValid false.
func ExtractFeatures(code string) *Feature {
	res, err := parser.Parse(code, parser.ModeModule)
	if err != nil {
		res, err = parser.Parse(code, parser.ModeScript)
	}
	if err != nil {
		return &Feature{
			Tokens:        rawTokens(code),
			ImportSources: map[string]struct{}{},
			SyntaxValid:   false,
		}
	}
	defer res.Close()

	f := &Feature{
		ImportSources: map[string]struct{}{},
		Tokens:        map[string]struct{}{},
		SyntaxValid:   true,
	}
	walk(res.Root(), res.Source(), f)
	return f
}

// walk is the single-pass visitor over the syntax tree. All accumulation
// happens into the one Feature record for this call.
func walk(n *sitter.Node, src []byte, f *Feature) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		f.Functions = append(f.Functions, functionSig(n, src, false))
	case "function", "function_expression":
		f.Functions = append(f.Functions, functionSig(n, src, false))
	case "arrow_function":
		f.Functions = append(f.Functions, functionSig(n, src, true))
	case "class_declaration":
		f.Classes = append(f.Classes, classInfo(n, src))
	case "import_statement":
		f.ImportCount++
		if source := n.ChildByFieldName("source"); source != nil {
			f.ImportSources[trimQuotes(source.Content(src))] = struct{}{}
		}
		f.ImportSpecifiers += countImportSpecifiers(n)
	case "export_statement":
		f.ExportCount++
	case "variable_declaration", "lexical_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "variable_declarator" {
				f.VariableCount++
			}
		}
	case "identifier", "property_identifier", "shorthand_property_identifier":
		f.Tokens[n.Content(src)] = struct{}{}
	case "string":
		f.Tokens[trimQuotes(n.Content(src))] = struct{}{}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), src, f)
	}
}

func functionSig(n *sitter.Node, src []byte, arrow bool) FunctionSig {
	sig := FunctionSig{Arrow: arrow}

	if name := n.ChildByFieldName("name"); name != nil {
		sig.Name = name.Content(src)
	} else if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil {
			sig.Name = name.Content(src)
		}
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		sig.Arity = int(params.NamedChildCount())
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		// Single-parameter arrow function without parentheses.
		sig.Arity = 1
	}

	// The async keyword appears as an anonymous leading token.
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			sig.Async = true
			break
		}
	}
	return sig
}

func classInfo(n *sitter.Node, src []byte) ClassInfo {
	info := ClassInfo{}
	if name := n.ChildByFieldName("name"); name != nil {
		info.Name = name.Content(src)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if body.NamedChild(i).Type() == "method_definition" {
				info.MethodCount++
			}
		}
	}
	return info
}

func countImportSpecifiers(n *sitter.Node) int {
	count := 0
	var visit func(m *sitter.Node)
	visit = func(m *sitter.Node) {
		switch m.Type() {
		case "import_specifier", "namespace_import":
			count++
			return
		case "identifier":
			// Default import binding.
			count++
			return
		}
		for i := 0; i < int(m.NamedChildCount()); i++ {
			visit(m.NamedChild(i))
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "import_clause" {
			visit(n.NamedChild(i))
		}
	}
	return count
}

func trimQuotes(s string) string {
	return strings.Trim(s, `"'`+"`")
}

// rawTokens is the parse-failure fallback: the set of maximal runs of
// alphanumeric characters.
func rawTokens(code string) map[string]struct{} {
	tokens := map[string]struct{}{}
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range code {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
