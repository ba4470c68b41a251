// Package models defines the shared data types for the quorum pipeline:
// subtasks, plans, voting results, and execution log entries.
package models

import "time"

// SubtaskType classifies the mutation a subtask performs on its target.
type SubtaskType string

const (
	// SubtaskRead reads the target without modifying it.
	SubtaskRead SubtaskType = "read"
	// SubtaskWrite overwrites the target with new content.
	SubtaskWrite SubtaskType = "write"
	// SubtaskEdit modifies existing target content.
	SubtaskEdit SubtaskType = "edit"
	// SubtaskCreate creates a new target.
	SubtaskCreate SubtaskType = "create"
	// SubtaskDelete removes the target.
	SubtaskDelete SubtaskType = "delete"
	// SubtaskExecute performs work that is not a direct file mutation.
	SubtaskExecute SubtaskType = "execute"
)

// Valid returns true if the type is a known value.
func (t SubtaskType) Valid() bool {
	switch t {
	case SubtaskRead, SubtaskWrite, SubtaskEdit, SubtaskCreate, SubtaskDelete, SubtaskExecute:
		return true
	default:
		return false
	}
}

// AllSubtaskTypes lists every member of the closed subtask-type variant.
// Handler maps are checked against this set to stay exhaustive.
var AllSubtaskTypes = []SubtaskType{
	SubtaskRead, SubtaskWrite, SubtaskEdit,
	SubtaskCreate, SubtaskDelete, SubtaskExecute,
}

// SubtaskStatus represents the lifecycle state of a subtask within a plan.
type SubtaskStatus string

const (
	// SubtaskStatusPending indicates the subtask has not executed yet.
	SubtaskStatusPending SubtaskStatus = "pending"
	// SubtaskStatusCompleted indicates the subtask has executed.
	// Completed covers success, warning, and error outcomes alike so that
	// dependents see their dependencies as satisfied.
	SubtaskStatusCompleted SubtaskStatus = "completed"
)

// Subtask is one atomic unit of work produced by decomposition.
// IDs are sequential from 1 within a plan. The only mutation after
// creation is the pending->completed status flip.
type Subtask struct {
	// ID is the unique sequential identifier within the plan (1..N).
	ID int `json:"id" yaml:"id"`
	// Description is what this subtask should accomplish.
	Description string `json:"description" yaml:"description"`
	// Type is the mutation kind this subtask performs.
	Type SubtaskType `json:"type" yaml:"type"`
	// Target names the file or resource the subtask operates on.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// DependsOn lists subtask IDs that must complete before this one.
	DependsOn []int `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	// Status is the current lifecycle state.
	Status SubtaskStatus `json:"status" yaml:"status"`
	// EstimatedTokens is the projected token cost of executing this subtask.
	EstimatedTokens int `json:"estimated_tokens" yaml:"estimated_tokens"`
}

// ExecutionStatus classifies the outcome of one subtask execution.
type ExecutionStatus string

const (
	// ExecutionSuccess indicates a reliable result was applied.
	ExecutionSuccess ExecutionStatus = "success"
	// ExecutionWarning indicates an unreliable result was applied anyway.
	ExecutionWarning ExecutionStatus = "warning"
	// ExecutionError indicates the subtask failed.
	ExecutionError ExecutionStatus = "error"
)

// ExecutionLogEntry records the outcome of one subtask. The execution log
// is append-only within a run and is not persisted across runs.
type ExecutionLogEntry struct {
	// SubtaskID is the subtask this entry describes.
	SubtaskID int `json:"subtask_id"`
	// Status is the outcome classification.
	Status ExecutionStatus `json:"status"`
	// Confidence is the voting confidence, when a vote completed.
	Confidence float64 `json:"confidence,omitempty"`
	// Error holds the failure message for error entries.
	Error string `json:"error,omitempty"`
	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`
}
