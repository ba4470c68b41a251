package cluster

import "testing"

func set(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func TestJaccard_Properties(t *testing.T) {
	a := set("x", "y", "z")
	b := set("y", "z", "w")

	if got, want := Jaccard(a, b), Jaccard(b, a); got != want {
		t.Errorf("Jaccard not symmetric: %v vs %v", got, want)
	}
	if got := Jaccard(a, a); got != 1.0 {
		t.Errorf("Jaccard(a, a) = %v, want 1", got)
	}
	if got := Jaccard(set("p"), set("q")); got != 0.0 {
		t.Errorf("Jaccard of disjoint sets = %v, want 0", got)
	}
	if got := Jaccard(a, b); got < 0 || got > 1 {
		t.Errorf("Jaccard out of bounds: %v", got)
	}
	// 2 shared of 4 total.
	if got := Jaccard(a, b); got != 0.5 {
		t.Errorf("Jaccard = %v, want 0.5", got)
	}
}

func TestSimilarity_IdenticalText(t *testing.T) {
	c := New()
	code := "function add(a, b) { return a + b; }"
	if got := c.Similarity(code, code); got != 1.0 {
		t.Errorf("Similarity of identical text = %v, want 1", got)
	}
}

func TestSimilarity_BothInvalidUsesJaccard(t *testing.T) {
	c := New()
	a := "function ((( alpha beta"
	b := "function ((( alpha gamma"

	fa, fb := c.Features(a), c.Features(b)
	if fa.SyntaxValid || fb.SyntaxValid {
		t.Fatal("fixtures should fail to parse")
	}
	want := Jaccard(fa.Tokens, fb.Tokens)
	if got := c.Similarity(a, b); got != want {
		t.Errorf("Similarity = %v, want plain Jaccard %v", got, want)
	}
}

func TestSimilarity_OneInvalidPenalized(t *testing.T) {
	c := New()
	valid := "function add(a, b) { return a + b; }"
	invalid := "function add(a, b { return a + b;"

	got := c.Similarity(valid, invalid)
	if got > 0.1 {
		t.Errorf("asymmetric validity similarity = %v, want <= 0.1", got)
	}
}

func TestSimilarity_StructurallyEquivalentCode(t *testing.T) {
	c := New()
	// Same shape, different identifiers: high but below 1.
	a := "function add(a, b) { return a + b; }"
	b := "function sum(x, y) { return x + y; }"

	got := c.Similarity(a, b)
	if got < 0.7 {
		t.Errorf("similar structure scored %v, want >= 0.7", got)
	}
	if got >= 1.0 {
		t.Errorf("different text scored %v, want < 1", got)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	c := New()
	a := "function one(p) { return p; }"
	b := "class Thing { go() { return 1; } }"
	if x, y := c.Similarity(a, b), c.Similarity(b, a); x != y {
		t.Errorf("Similarity not symmetric: %v vs %v", x, y)
	}
}

func TestCountRatio(t *testing.T) {
	tests := []struct {
		x, y int
		want float64
	}{
		{0, 0, 1.0},
		{0, 3, 0.0},
		{3, 0, 0.0},
		{2, 4, 0.5},
		{4, 2, 0.5},
		{3, 3, 1.0},
	}
	for _, tt := range tests {
		if got := countRatio(tt.x, tt.y); got != tt.want {
			t.Errorf("countRatio(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFunctionSimilarity(t *testing.T) {
	twoArg := FunctionSig{Arity: 2}
	threeArgAsync := FunctionSig{Arity: 3, Async: true}

	if got := functionSimilarity(nil, nil); got != 1.0 {
		t.Errorf("both empty = %v, want 1", got)
	}
	if got := functionSimilarity([]FunctionSig{twoArg}, nil); got != 0.0 {
		t.Errorf("one empty = %v, want 0", got)
	}
	if got := functionSimilarity([]FunctionSig{twoArg}, []FunctionSig{twoArg, threeArgAsync}); got != 0.5 {
		t.Errorf("partial match = %v, want 0.5", got)
	}
	if got := functionSimilarity([]FunctionSig{twoArg}, []FunctionSig{{Arity: 2, Async: true}}); got != 0.0 {
		t.Errorf("async mismatch = %v, want 0", got)
	}
}
