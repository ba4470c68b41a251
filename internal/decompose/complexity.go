package decompose

import (
	"github.com/ShayCichocki/quorum/internal/graph"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// typeOverhead is the fixed per-type token overhead added to a subtask's
// description token count.
var typeOverhead = map[models.SubtaskType]int{
	models.SubtaskCreate:  100,
	models.SubtaskWrite:   80,
	models.SubtaskEdit:    60,
	models.SubtaskRead:    40,
	models.SubtaskDelete:  20,
	models.SubtaskExecute: 50,
}

// defaultOverhead applies to unknown types.
const defaultOverhead = 50

// estimateComplexity fills in per-subtask token estimates and derives the
// plan-level complexity measures.
func (d *Decomposer) estimateComplexity(subtasks []*models.Subtask, g *graph.DependencyGraph) models.Complexity {
	totalTokens := 0
	for _, st := range subtasks {
		overhead, ok := typeOverhead[st.Type]
		if !ok {
			overhead = defaultOverhead
		}
		st.EstimatedTokens = d.counter.Count(st.Description) + overhead
		totalTokens += st.EstimatedTokens
	}

	maxDepth := g.MaxDepth()

	label := models.ComplexityLow
	switch {
	case maxDepth > 5:
		label = models.ComplexityHigh
	case maxDepth > 2:
		label = models.ComplexityMedium
	}

	return models.Complexity{
		TotalSteps:     len(subtasks),
		TotalTokens:    totalTokens,
		MaxDepth:       maxDepth,
		Parallelizable: g.RootCount(),
		Label:          label,
	}
}
