// Package orchestrate sequences a decomposed plan: for each subtask in
// topological order it builds a minimal prompt context, runs a voting
// round, applies the winner, and records the outcome.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShayCichocki/quorum/internal/apply"
	"github.com/ShayCichocki/quorum/internal/decompose"
	"github.com/ShayCichocki/quorum/internal/tokens"
	"github.com/ShayCichocki/quorum/internal/validate"
	"github.com/ShayCichocki/quorum/internal/voting"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// DefaultContextTokenBudget caps how many tokens of target content are
// included in a subtask's prompt.
const DefaultContextTokenBudget = 500

// Options controls one task execution.
type Options struct {
	// UseAI enables AI-assisted decomposition.
	UseAI bool
	// BaseReliability feeds the voting threshold. Zero means 0.7.
	BaseReliability float64
	// CriticalTask raises the voting threshold by one.
	CriticalTask bool
	// RequireHighConfidence turns unreliable votes into subtask errors
	// instead of applying them with a warning.
	RequireHighConfidence bool
	// StopOnError aborts the whole execution on the first subtask error.
	StopOnError bool
	// MaxCandidates caps the candidate pool per voting round.
	MaxCandidates int
	// Temperature is the base sampling temperature.
	Temperature float64
	// SimilarityThreshold is the clustering threshold for voting rounds.
	// Zero means the voting default of 0.7.
	SimilarityThreshold float64
	// RelevantFiles names workspace files whose content may be included in
	// subtask prompts. At most two are used per subtask.
	RelevantFiles []string
	// ContextTokenBudget caps included target content. Zero means the
	// default of 500 tokens.
	ContextTokenBudget int
}

// Summary is the aggregate outcome of one execution.
type Summary struct {
	// ExecutionID uniquely identifies this run.
	ExecutionID string `json:"execution_id"`
	// Plan is the decomposition that was executed.
	Plan *models.Plan `json:"plan"`
	// SuccessRate is the fraction of subtasks that applied a result
	// (success or warning status).
	SuccessRate float64 `json:"success_rate"`
	// AvgConfidence is the mean voting confidence over completed rounds.
	AvgConfidence float64 `json:"avg_confidence"`
	// Log is the append-only execution log, one entry per attempted subtask.
	Log []models.ExecutionLogEntry `json:"log"`
}

// Orchestrator executes tasks end to end. It holds no per-execution state:
// each ExecuteTask call builds its own run value, so concurrent executions
// do not interfere.
type Orchestrator struct {
	decomposer *decompose.Decomposer
	voter      *voting.Manager
	workspace  *apply.Workspace
	counter    *tokens.Counter
	logger     *zap.Logger
}

// New creates an Orchestrator.
func New(d *decompose.Decomposer, v *voting.Manager, w *apply.Workspace, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		decomposer: d,
		voter:      v,
		workspace:  w,
		counter:    tokens.NewCounter(),
		logger:     logger,
	}
}

// run is the execution context for a single ExecuteTask call. Outputs and
// the log are only ever appended to.
type run struct {
	id      string
	plan    *models.Plan
	opts    Options
	k       int
	outputs map[int]string
	log     []models.ExecutionLogEntry
}

// ExecuteTask decomposes description into a plan and executes every subtask
// in topological order.
func (o *Orchestrator) ExecuteTask(ctx context.Context, description, taskContext string, opts Options) (*Summary, error) {
	if opts.BaseReliability == 0 {
		opts.BaseReliability = 0.7
	}
	if opts.ContextTokenBudget == 0 {
		opts.ContextTokenBudget = DefaultContextTokenBudget
	}

	plan, err := o.decomposer.Decompose(ctx, description, taskContext, decompose.Options{UseAI: opts.UseAI})
	if err != nil {
		return nil, fmt.Errorf("decomposing task: %w", err)
	}

	k := voting.OptimalK(plan.Complexity.TotalSteps, opts.BaseReliability)
	if opts.CriticalTask {
		k++
	}

	r := &run{
		id:      uuid.NewString(),
		plan:    plan,
		opts:    opts,
		k:       k,
		outputs: make(map[int]string, len(plan.Subtasks)),
	}

	o.logger.Info("executing plan",
		zap.String("execution_id", r.id),
		zap.Int("subtasks", len(plan.Subtasks)),
		zap.Int("k", k),
		zap.String("complexity", string(plan.Complexity.Label)))

	for _, id := range plan.ExecutionOrder {
		st := plan.Subtask(id)
		if st == nil {
			continue
		}

		aborted := o.executeSubtask(ctx, r, st)

		// Completed regardless of outcome so dependents see the
		// dependency as satisfied.
		st.Status = models.SubtaskStatusCompleted

		if aborted {
			o.logger.Warn("aborting execution",
				zap.String("execution_id", r.id),
				zap.Int("subtask", st.ID))
			break
		}
	}

	return o.summarize(r), nil
}

// executeSubtask runs one voting round and applies its winner. Returns true
// when the execution should abort.
func (o *Orchestrator) executeSubtask(ctx context.Context, r *run, st *models.Subtask) bool {
	messages := o.buildContext(r, st)
	task := validate.Task{
		Type:           taskKind(st.Type),
		ExpectedLength: st.EstimatedTokens,
	}

	res, err := o.voter.Vote(ctx, messages, task, voting.VoteOptions{
		K:                   r.k,
		MaxCandidates:       r.opts.MaxCandidates,
		Temperature:         r.opts.Temperature,
		SimilarityThreshold: r.opts.SimilarityThreshold,
	})
	if err != nil {
		o.recordError(r, st, fmt.Errorf("voting failed: %w", err))
		return r.opts.StopOnError
	}

	if !res.Stats.Reliable && r.opts.RequireHighConfidence {
		o.recordError(r, st, fmt.Errorf("result below required confidence: %s", res.Warning))
		return r.opts.StopOnError
	}

	if err := o.workspace.Apply(st.Type, st.Target, res.Winner); err != nil {
		o.recordError(r, st, fmt.Errorf("applying result: %w", err))
		return r.opts.StopOnError
	}
	r.outputs[st.ID] = res.Winner

	status := models.ExecutionSuccess
	if !res.Stats.Reliable {
		status = models.ExecutionWarning
		o.logger.Warn("applied an unreliable result",
			zap.Int("subtask", st.ID),
			zap.String("warning", res.Warning))
	}
	r.log = append(r.log, models.ExecutionLogEntry{
		SubtaskID:  st.ID,
		Status:     status,
		Confidence: res.Confidence,
		Timestamp:  time.Now(),
	})
	return false
}

func (o *Orchestrator) recordError(r *run, st *models.Subtask, err error) {
	o.logger.Error("subtask failed",
		zap.Int("subtask", st.ID),
		zap.Error(err))
	r.log = append(r.log, models.ExecutionLogEntry{
		SubtaskID: st.ID,
		Status:    models.ExecutionError,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (o *Orchestrator) summarize(r *run) *Summary {
	applied := 0
	confidenceTotal := 0.0
	confidenceCount := 0
	for _, entry := range r.log {
		if entry.Status != models.ExecutionError {
			applied++
		}
		if entry.Confidence > 0 {
			confidenceTotal += entry.Confidence
			confidenceCount++
		}
	}

	total := len(r.plan.Subtasks)
	summary := &Summary{
		ExecutionID: r.id,
		Plan:        r.plan,
		Log:         r.log,
	}
	if total > 0 {
		summary.SuccessRate = float64(applied) / float64(total)
	}
	if confidenceCount > 0 {
		summary.AvgConfidence = confidenceTotal / float64(confidenceCount)
	}

	o.logger.Info("execution complete",
		zap.String("execution_id", r.id),
		zap.Float64("success_rate", summary.SuccessRate),
		zap.Float64("avg_confidence", summary.AvgConfidence))

	return summary
}

// taskKind marks file-producing subtasks as code so the validator runs
// syntax checks on their candidates.
func taskKind(t models.SubtaskType) string {
	switch t {
	case models.SubtaskCreate, models.SubtaskWrite, models.SubtaskEdit:
		return "code"
	default:
		return ""
	}
}
