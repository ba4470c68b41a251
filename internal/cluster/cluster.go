package cluster

import "sort"

// Member is one response assigned to a cluster.
type Member struct {
	// Content is the response text.
	Content string
	// SourceIndex is the response's index in the original input slice.
	SourceIndex int
	// Similarity is the similarity to the cluster representative.
	Similarity float64
}

// Cluster is a group of structurally similar responses. The clusters of
// one round partition the input exactly: every response belongs to one
// cluster and one cluster only.
type Cluster struct {
	// Representative is the content that stands for this cluster.
	Representative string
	// Members lists every assigned response, representative included.
	Members []Member
	// Size is len(Members).
	Size int
	// AvgSimilarity is the mean member similarity to the representative.
	AvgSimilarity float64
}

// Clusterer groups responses by structural similarity. Feature extraction
// is cached per Clusterer, so one instance should live for one voting
// round (or run).
type Clusterer struct {
	features map[string]*Feature
}

// New creates an empty Clusterer.
func New() *Clusterer {
	return &Clusterer{features: make(map[string]*Feature)}
}

// Features returns the structural fingerprint for code, extracting it on
// first use.
func (c *Clusterer) Features(code string) *Feature {
	if f, ok := c.features[code]; ok {
		return f
	}
	f := ExtractFeatures(code)
	c.features[code] = f
	return f
}

// Similarity scores two responses in [0, 1]. Identical text is 1; when
// exactly one side failed to parse, the token similarity is heavily
// penalized; when both parsed, five weighted structural sub-scores apply.
func (c *Clusterer) Similarity(a, b string) float64 {
	return similarity(a, b, c.Features(a), c.Features(b))
}

// Cluster partitions responses into clusters of pairwise-similar members.
//
// The pass is greedy: unassigned responses are seeded in descending
// average-similarity order (the most central response first, ascending
// index as tie break), each seed becomes a cluster representative, and
// every still-unassigned response within threshold of the representative
// is absorbed. The seed order is a deliberate policy choice and is kept
// stable for reproducibility.
//
// The returned clusters are sorted by size, descending, preserving
// formation order between equals.
func (c *Clusterer) Cluster(responses []string, threshold float64) []*Cluster {
	n := len(responses)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []*Cluster{{
			Representative: responses[0],
			Members:        []Member{{Content: responses[0], SourceIndex: 0, Similarity: 1.0}},
			Size:           1,
			AvgSimilarity:  1.0,
		}}
	}

	// Full symmetric pairwise similarity matrix, diagonal 1.
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := c.Similarity(responses[i], responses[j])
			matrix[i][j] = s
			matrix[j][i] = s
		}
	}

	// Seed order: most central (highest average similarity to the rest)
	// first.
	order := make([]int, n)
	avg := make([]float64, n)
	for i := 0; i < n; i++ {
		order[i] = i
		total := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				total += matrix[i][j]
			}
		}
		avg[i] = total / float64(n-1)
	}
	sort.SliceStable(order, func(a, b int) bool {
		if avg[order[a]] != avg[order[b]] {
			return avg[order[a]] > avg[order[b]]
		}
		return order[a] < order[b]
	})

	assigned := make([]bool, n)
	var clusters []*Cluster

	for _, seed := range order {
		if assigned[seed] {
			continue
		}
		assigned[seed] = true
		cl := &Cluster{
			Representative: responses[seed],
			Members: []Member{{
				Content:     responses[seed],
				SourceIndex: seed,
				Similarity:  1.0,
			}},
		}

		for j := 0; j < n; j++ {
			if assigned[j] || matrix[seed][j] < threshold {
				continue
			}
			assigned[j] = true
			cl.Members = append(cl.Members, Member{
				Content:     responses[j],
				SourceIndex: j,
				Similarity:  matrix[seed][j],
			})
		}

		total := 0.0
		for _, m := range cl.Members {
			total += m.Similarity
		}
		cl.Size = len(cl.Members)
		cl.AvgSimilarity = total / float64(cl.Size)
		clusters = append(clusters, cl)
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].Size > clusters[b].Size
	})
	return clusters
}

// BestCluster returns the cluster maximizing size x average similarity, or
// nil for an empty slice.
func BestCluster(clusters []*Cluster) *Cluster {
	var best *Cluster
	bestScore := -1.0
	for _, cl := range clusters {
		score := float64(cl.Size) * cl.AvgSimilarity
		if score > bestScore {
			best = cl
			bestScore = score
		}
	}
	return best
}
