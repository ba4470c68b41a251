package tokens

import (
	"strings"
	"testing"
)

func TestCount_Empty(t *testing.T) {
	c := NewCounter()
	if got := c.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
}

func TestCount_Deterministic(t *testing.T) {
	c := NewCounter()
	text := "function add(a, b) { return a + b; }"
	first := c.Count(text)
	for i := 0; i < 10; i++ {
		if got := c.Count(text); got != first {
			t.Fatalf("Count not deterministic: %d vs %d", got, first)
		}
	}
	if first == 0 {
		t.Error("Count of non-empty text should be positive")
	}
}

func TestCount_MonotonicWithLength(t *testing.T) {
	c := NewCounter()
	prev := 0
	for i := 1; i <= 8; i++ {
		text := strings.Repeat("some more words here ", i)
		got := c.Count(text)
		if got < prev {
			t.Fatalf("Count decreased from %d to %d as text grew", prev, got)
		}
		prev = got
	}
}

func TestTruncate_WithinLimit(t *testing.T) {
	c := NewCounter()
	text := "short text"
	if got := c.Truncate(text, 1000); got != text {
		t.Errorf("Truncate within limit modified text: %q", got)
	}
}

func TestTruncate_EnforcesLimit(t *testing.T) {
	c := NewCounter()
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 100)
	got := c.Truncate(text, 10)
	if len(got) >= len(text) {
		t.Error("Truncate did not shorten text over the limit")
	}
	if c.Count(got) > 10 {
		t.Errorf("truncated text counts %d tokens, want <= 10", c.Count(got))
	}
}

func TestTruncate_ZeroBudget(t *testing.T) {
	c := NewCounter()
	if got := c.Truncate("anything", 0); got != "" {
		t.Errorf("Truncate with zero budget = %q, want empty", got)
	}
}
