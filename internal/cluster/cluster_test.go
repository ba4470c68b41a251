package cluster

import "testing"

func TestCluster_Empty(t *testing.T) {
	if got := New().Cluster(nil, 0.7); got != nil {
		t.Errorf("Cluster(nil) = %v, want nil", got)
	}
}

func TestCluster_Single(t *testing.T) {
	clusters := New().Cluster([]string{"function f() {}"}, 0.7)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Size != 1 || clusters[0].AvgSimilarity != 1.0 {
		t.Errorf("single cluster = size %d avg %v, want 1 and 1.0", clusters[0].Size, clusters[0].AvgSimilarity)
	}
}

// Five structurally identical candidates form one cluster of five.
func TestCluster_IdenticalCandidates(t *testing.T) {
	code := "function add(a, b) { return a + b; }"
	responses := []string{code, code, code, code, code}

	clusters := New().Cluster(responses, 0.7)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Size != 5 {
		t.Errorf("cluster size = %d, want 5", clusters[0].Size)
	}
	if clusters[0].AvgSimilarity != 1.0 {
		t.Errorf("avg similarity = %v, want 1.0", clusters[0].AvgSimilarity)
	}
}

// Five candidates with disjoint tokens and clashing structure stay apart.
func TestCluster_DisjointCandidates(t *testing.T) {
	responses := []string{
		"function aa(x1) { return x1; }",
		"function bb(y1, y2) {}\nfunction cc(y3, y4, y5) {}",
		"function dd(z1, z2, z3, z4) {}\nfunction ee(w1, w2, w3, w4, w5) {}\nfunction ff(v1, v2, v3, v4, v5, v6) {}\nvar q1 = 1;",
		"class Zed { m1() {} m2() {} }",
		"import { thing } from 'uniquepkg';\nexport const zz = 5;",
	}

	clusters := New().Cluster(responses, 0.7)
	if len(clusters) != 5 {
		for _, cl := range clusters {
			t.Logf("cluster size=%d rep=%q", cl.Size, cl.Representative)
		}
		t.Fatalf("got %d clusters, want 5 singletons", len(clusters))
	}
}

// Every response lands in exactly one cluster, at any threshold.
func TestCluster_ExactPartition(t *testing.T) {
	responses := []string{
		"function add(a, b) { return a + b; }",
		"function sum(x, y) { return x + y; }",
		"class Calc { add(a, b) { return a + b; } }",
		"function add(a, b) { return a + b; }",
		"not ((( parseable at all",
	}

	for _, threshold := range []float64{0.3, 0.5, 0.7, 0.9} {
		clusters := New().Cluster(responses, threshold)

		total := 0
		seen := map[int]bool{}
		for _, cl := range clusters {
			total += cl.Size
			if cl.Size != len(cl.Members) {
				t.Errorf("threshold %v: Size %d != len(Members) %d", threshold, cl.Size, len(cl.Members))
			}
			for _, m := range cl.Members {
				if seen[m.SourceIndex] {
					t.Errorf("threshold %v: index %d in two clusters", threshold, m.SourceIndex)
				}
				seen[m.SourceIndex] = true
			}
		}
		if total != len(responses) {
			t.Errorf("threshold %v: cluster sizes sum to %d, want %d", threshold, total, len(responses))
		}
	}
}

func TestCluster_SortedBySize(t *testing.T) {
	code := "function add(a, b) { return a + b; }"
	responses := []string{
		code, code, code,
		"import { thing } from 'somewhere';\nexport const zz = 5;",
	}

	clusters := New().Cluster(responses, 0.7)
	for i := 1; i < len(clusters); i++ {
		if clusters[i].Size > clusters[i-1].Size {
			t.Errorf("clusters not sorted by size: %d before %d", clusters[i-1].Size, clusters[i].Size)
		}
	}
	if clusters[0].Representative != code {
		t.Errorf("top cluster representative = %q, want the majority code", clusters[0].Representative)
	}
}

func TestBestCluster(t *testing.T) {
	if got := BestCluster(nil); got != nil {
		t.Errorf("BestCluster(nil) = %v, want nil", got)
	}

	small := &Cluster{Size: 2, AvgSimilarity: 1.0}
	large := &Cluster{Size: 4, AvgSimilarity: 0.8}
	if got := BestCluster([]*Cluster{small, large}); got != large {
		t.Errorf("BestCluster picked size*avg %v, want the larger product", got)
	}
}
