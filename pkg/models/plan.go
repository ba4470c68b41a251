package models

import "github.com/ShayCichocki/quorum/internal/graph"

// ComplexityLabel is the coarse difficulty classification of a plan.
type ComplexityLabel string

const (
	// ComplexityLow indicates a shallow dependency structure (depth <= 2).
	ComplexityLow ComplexityLabel = "low"
	// ComplexityMedium indicates a moderate dependency depth (3-5).
	ComplexityMedium ComplexityLabel = "medium"
	// ComplexityHigh indicates a deep dependency chain (depth > 5).
	ComplexityHigh ComplexityLabel = "high"
)

// Complexity estimates how demanding a plan is to execute.
type Complexity struct {
	// TotalSteps is the number of subtasks in the plan.
	TotalSteps int `json:"total_steps" yaml:"total_steps"`
	// TotalTokens is the summed per-subtask token estimate.
	TotalTokens int `json:"total_tokens" yaml:"total_tokens"`
	// MaxDepth is the longest dependency chain in the plan.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// Parallelizable is the number of subtasks with no dependencies.
	Parallelizable int `json:"parallelizable" yaml:"parallelizable"`
	// Label classifies the plan as low, medium, or high complexity.
	Label ComplexityLabel `json:"label" yaml:"label"`
}

// Plan is a dependency-ordered decomposition of one task. A plan is owned
// by a single execution and never shared across concurrent runs.
type Plan struct {
	// Subtasks holds every subtask, indexed in id order (id = index + 1).
	Subtasks []*Subtask `json:"subtasks" yaml:"subtasks"`
	// Graph is the dependency graph over subtask IDs. Built once per plan,
	// immutable thereafter.
	Graph *graph.DependencyGraph `json:"-" yaml:"-"`
	// ExecutionOrder lists subtask IDs in topological order.
	ExecutionOrder []int `json:"execution_order" yaml:"execution_order"`
	// Complexity is the plan's difficulty estimate.
	Complexity Complexity `json:"complexity" yaml:"complexity"`
}

// Subtask returns the subtask with the given ID, or nil if absent.
func (p *Plan) Subtask(id int) *Subtask {
	if id < 1 || id > len(p.Subtasks) {
		return nil
	}
	return p.Subtasks[id-1]
}
