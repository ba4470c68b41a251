// Package parser is the source-text parsing boundary. It parses candidate
// text with the tree-sitter JavaScript grammar under two modes, module and
// script, and reports structured errors with line/column positions.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Mode selects the grammar mode for parsing.
type Mode string

const (
	// ModeModule parses the text as an ES module.
	ModeModule Mode = "module"
	// ModeScript parses the text as a classic script. Top-level import and
	// export declarations are rejected in this mode.
	ModeScript Mode = "script"
)

// ParseError is a structured syntax error with a human-readable message
// and, when available, a 1-based line and column.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// Result holds a successfully parsed syntax tree. Callers must Close it
// when done walking.
type Result struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the root node of the syntax tree.
func (r *Result) Root() *sitter.Node {
	return r.tree.RootNode()
}

// Source returns the original source bytes, for node content lookups.
func (r *Result) Source() []byte {
	return r.source
}

// Close releases the underlying tree.
func (r *Result) Close() {
	r.tree.Close()
}

// Parse parses text under the given grammar mode. It returns a *ParseError
// when the text does not parse cleanly.
func Parse(text string, mode Mode) (*Result, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())

	source := []byte(text)
	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("parse failed: %v", err)}
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := firstErrorAt(root)
		tree.Close()
		return nil, perr
	}

	if mode == ModeScript {
		if perr := findModuleOnlySyntax(root); perr != nil {
			tree.Close()
			return nil, perr
		}
	}

	return &Result{tree: tree, source: source}, nil
}

// firstErrorAt locates the first ERROR or missing node and converts its
// position into a ParseError.
func firstErrorAt(root *sitter.Node) *ParseError {
	var found *sitter.Node

	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return true
		}
		if !n.HasError() {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if walk(n.Child(i)) {
				return true
			}
		}
		return false
	}
	walk(root)

	if found == nil {
		return &ParseError{Message: "syntax error"}
	}
	pt := found.StartPoint()
	msg := "syntax error"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	}
	return &ParseError{
		Message: msg,
		Line:    int(pt.Row) + 1,
		Column:  int(pt.Column) + 1,
	}
}

// findModuleOnlySyntax rejects top-level import/export declarations, the
// observable difference between module and script grammars.
func findModuleOnlySyntax(root *sitter.Node) *ParseError {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_statement", "export_statement":
			pt := child.StartPoint()
			return &ParseError{
				Message: fmt.Sprintf("%s not allowed in script mode", child.Type()),
				Line:    int(pt.Row) + 1,
				Column:  int(pt.Column) + 1,
			}
		}
	}
	return nil
}
