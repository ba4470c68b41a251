package cluster

// Similarity sub-score weights. The five components only apply when both
// candidates parsed; see Clusterer.Similarity for the asymmetric cases.
const (
	weightStructural = 0.30
	weightFunctions  = 0.25
	weightTokens     = 0.20
	weightClasses    = 0.15
	weightImports    = 0.10
)

// invalidPenalty scales the token similarity when exactly one candidate
// failed to parse: structural asymmetry is a strong disagreement signal.
const invalidPenalty = 0.1

// Jaccard returns intersection size over union size of two sets. Two empty
// sets are identical, so their similarity is 1.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// similarity computes the structural similarity of two already-extracted
// features, given their raw texts for the identity shortcut.
func similarity(aText, bText string, a, b *Feature) float64 {
	if aText == bText {
		return 1.0
	}

	switch {
	case !a.SyntaxValid && !b.SyntaxValid:
		return Jaccard(a.Tokens, b.Tokens)
	case !a.SyntaxValid || !b.SyntaxValid:
		return invalidPenalty * Jaccard(a.Tokens, b.Tokens)
	}

	return weightStructural*structuralCountSimilarity(a, b) +
		weightFunctions*functionSimilarity(a.Functions, b.Functions) +
		weightTokens*Jaccard(a.Tokens, b.Tokens) +
		weightClasses*classSimilarity(a.Classes, b.Classes) +
		weightImports*importSimilarity(a.ImportSources, b.ImportSources)
}

// structuralCountSimilarity averages the per-count min/max ratio over the
// function, class, import, export, and variable counts. Two zero counts
// agree perfectly; a zero against a non-zero is full disagreement.
func structuralCountSimilarity(a, b *Feature) float64 {
	pairs := [][2]int{
		{len(a.Functions), len(b.Functions)},
		{len(a.Classes), len(b.Classes)},
		{a.ImportCount, b.ImportCount},
		{a.ExportCount, b.ExportCount},
		{a.VariableCount, b.VariableCount},
	}

	total := 0.0
	for _, p := range pairs {
		total += countRatio(p[0], p[1])
	}
	return total / float64(len(pairs))
}

func countRatio(x, y int) float64 {
	if x == 0 && y == 0 {
		return 1.0
	}
	if x == 0 || y == 0 {
		return 0.0
	}
	if x < y {
		return float64(x) / float64(y)
	}
	return float64(y) / float64(x)
}

// functionSimilarity greedily matches signatures one-to-one on (arity,
// async) equality and scores matches over the larger signature count.
func functionSimilarity(f1, f2 []FunctionSig) float64 {
	if len(f1) == 0 && len(f2) == 0 {
		return 1.0
	}
	if len(f1) == 0 || len(f2) == 0 {
		return 0.0
	}

	used := make([]bool, len(f2))
	matches := 0
	for _, s1 := range f1 {
		for j, s2 := range f2 {
			if used[j] {
				continue
			}
			if s1.Arity == s2.Arity && s1.Async == s2.Async {
				used[j] = true
				matches++
				break
			}
		}
	}

	larger := len(f1)
	if len(f2) > larger {
		larger = len(f2)
	}
	return float64(matches) / float64(larger)
}

// classSimilarity pairs each class with its best method-count ratio on the
// other side, normalized by the larger class count.
func classSimilarity(c1, c2 []ClassInfo) float64 {
	if len(c1) == 0 && len(c2) == 0 {
		return 1.0
	}
	if len(c1) == 0 || len(c2) == 0 {
		return 0.0
	}

	total := 0.0
	for _, a := range c1 {
		best := 0.0
		for _, b := range c2 {
			if r := countRatio(a.MethodCount, b.MethodCount); r > best {
				best = r
			}
		}
		total += best
	}

	larger := len(c1)
	if len(c2) > larger {
		larger = len(c2)
	}
	score := total / float64(larger)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func importSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return Jaccard(a, b)
}
