package validate

import (
	"strings"
	"testing"
)

func TestValidate_Empty(t *testing.T) {
	v := New(Options{})

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		res := v.Validate(text, Task{})
		if res.Valid {
			t.Errorf("Validate(%q).Valid = true, want false", text)
		}
		if res.Confidence != 0 {
			t.Errorf("Validate(%q).Confidence = %v, want 0", text, res.Confidence)
		}
		if len(res.Flags) != 1 || res.Flags[0].Type != FlagEmptyResponse {
			t.Errorf("Validate(%q) flags = %v, want exactly one empty-response flag", text, res.Flags)
		}
	}
}

func TestValidate_HallucinationMarkers(t *testing.T) {
	v := New(Options{})

	tests := []struct {
		name string
		text string
	}{
		{"apology", "I'm sorry, I can't help with that request at this time."},
		{"ai self reference", "As an AI language model assistant I would suggest checking the docs first."},
		{"no understanding", "I don't understand what you mean by that question exactly."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.text, Task{})
			if res.Valid {
				t.Error("hallucination text marked valid")
			}
			found := false
			for _, f := range res.Flags {
				if f.Type == FlagHallucination && f.Severity == SeverityCritical {
					found = true
				}
			}
			if !found {
				t.Errorf("no critical hallucination flag in %v", res.Flags)
			}
		})
	}
}

func TestValidate_IncompletenessMarkers(t *testing.T) {
	v := New(Options{})

	res := v.Validate("const x = computeTheAnswer() // and then we keep going...", Task{})
	if !hasFlag(res, FlagIncomplete) {
		t.Errorf("trailing ellipsis not flagged: %v", res.Flags)
	}

	res = v.Validate("first half of the answer here [truncated] with more words", Task{})
	if !hasFlag(res, FlagIncomplete) {
		t.Errorf("truncation marker not flagged: %v", res.Flags)
	}
}

func TestValidate_BracketBalance(t *testing.T) {
	v := New(Options{})

	res := v.Validate("a perfectly plain sentence with ( an unclosed paren somewhere", Task{})
	if !hasFlag(res, FlagUnbalanced) {
		t.Errorf("unclosed opener not flagged: %v", res.Flags)
	}
	// Non-critical, so the response is still valid.
	if !res.Valid {
		t.Error("unbalanced brackets alone should not invalidate")
	}

	res = v.Validate("a stray closing bracket ] in otherwise plain prose here", Task{})
	if !hasFlag(res, FlagUnbalanced) {
		t.Errorf("unmatched closer not flagged: %v", res.Flags)
	}
}

func TestValidate_LengthChecks(t *testing.T) {
	v := New(Options{HardMaxTokens: 20, HardMinTokens: 5})

	long := strings.Repeat("many words in a row here ", 30)
	res := v.Validate(long, Task{})
	if res.Valid {
		t.Error("over-hard-max response marked valid")
	}
	if !hasFlag(res, FlagTooLong) {
		t.Errorf("hard max not flagged: %v", res.Flags)
	}

	res = v.Validate("hi", Task{})
	if !hasFlag(res, FlagTooShort) {
		t.Errorf("below-minimum response not flagged: %v", res.Flags)
	}

	v2 := New(Options{HardMaxTokens: 1500})
	medium := strings.Repeat("word after word after word ", 10)
	res = v2.Validate(medium, Task{ExpectedLength: 10})
	if !hasFlag(res, FlagAboveExpected) {
		t.Errorf("above 2x expected length not flagged: %v", res.Flags)
	}
	if !res.Valid {
		t.Error("medium-severity length flag should not invalidate")
	}
}

func TestValidate_SyntaxCheck(t *testing.T) {
	v := New(Options{})

	res := v.Validate("function add(a, b) {\n  return a + b;\n}", Task{Type: "code"})
	if !res.Valid {
		t.Errorf("valid code marked invalid: %v", res.Flags)
	}

	res = v.Validate("function broken(a, { return a; }", Task{Type: "code"})
	if res.Valid {
		t.Error("broken code marked valid")
	}
	if !hasFlag(res, FlagSyntaxError) {
		t.Errorf("syntax error not flagged: %v", res.Flags)
	}
}

func TestValidate_FormatMismatch(t *testing.T) {
	v := New(Options{})

	res := v.Validate("const answer = 42; // a plain constant, nothing else", Task{ExpectedFormat: "class"})
	if !hasFlag(res, FlagFormatMismatch) {
		t.Errorf("missing class structure not flagged: %v", res.Flags)
	}

	res = v.Validate("class Point { constructor(x) { this.x = x; } }", Task{ExpectedFormat: "class"})
	if hasFlag(res, FlagFormatMismatch) {
		t.Errorf("present class structure flagged: %v", res.Flags)
	}
}

func TestValidate_ConfidenceFromWeights(t *testing.T) {
	v := New(Options{})

	// One high flag (ellipsis): 1.0 - 0.3 = 0.7.
	res := v.Validate("a plain text answer without any brackets, ending like this...", Task{})
	if res.Confidence < 0.69 || res.Confidence > 0.71 {
		t.Errorf("Confidence = %v, want ~0.7 (flags: %v)", res.Confidence, res.Flags)
	}
}

func TestFilterValid(t *testing.T) {
	v := New(Options{})

	texts := []string{
		"a perfectly reasonable answer with enough words in it",
		"I'm sorry, I can't help with that.",
		"another perfectly reasonable answer with enough words",
	}
	valid := v.FilterValid(texts, Task{})
	if len(valid) != 2 {
		t.Fatalf("FilterValid kept %d, want 2", len(valid))
	}
	if valid[0] != texts[0] || valid[1] != texts[2] {
		t.Error("FilterValid did not preserve order")
	}
}

func hasFlag(res Result, flagType string) bool {
	for _, f := range res.Flags {
		if f.Type == flagType {
			return true
		}
	}
	return false
}
