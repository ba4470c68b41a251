package parser

import (
	"errors"
	"testing"
)

func TestParse_ValidModule(t *testing.T) {
	res, err := Parse("import fs from 'fs';\nexport function f(a) { return a; }\n", ModeModule)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer res.Close()

	if res.Root().Type() != "program" {
		t.Errorf("root type = %q, want program", res.Root().Type())
	}
}

func TestParse_ValidScript(t *testing.T) {
	res, err := Parse("function f(a, b) { return a + b; }", ModeScript)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	res.Close()
}

func TestParse_ScriptRejectsImport(t *testing.T) {
	_, err := Parse("import fs from 'fs';", ModeScript)
	if err == nil {
		t.Fatal("expected error for import in script mode")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Line != 1 {
		t.Errorf("Line = %d, want 1", perr.Line)
	}
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse("function f( {\n  return 1;\n}", ModeModule)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Line < 1 {
		t.Errorf("Line = %d, want >= 1", perr.Line)
	}
	if perr.Message == "" {
		t.Error("Message is empty")
	}
}

func TestParse_BothModesFailOnGarbage(t *testing.T) {
	for _, mode := range []Mode{ModeModule, ModeScript} {
		if _, err := Parse("function ((((", mode); err == nil {
			t.Errorf("mode %s: expected error for unparseable text", mode)
		}
	}
}
