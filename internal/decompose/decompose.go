// Package decompose turns a task description into an ordered,
// dependency-aware plan of atomic subtasks.
package decompose

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/quorum/internal/graph"
	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/internal/tokens"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// Options selects the decomposition strategy.
type Options struct {
	// UseAI enables AI-assisted decomposition. On provider failure or an
	// unparseable response, decomposition falls back to the rule-based
	// strategy (non-fatal).
	UseAI bool
}

// Decomposer breaks task descriptions into plans.
type Decomposer struct {
	provider provider.CompletionProvider
	counter  *tokens.Counter
	logger   *zap.Logger
}

// New creates a Decomposer. The provider may be nil when only rule-based
// decomposition will be used.
func New(p provider.CompletionProvider, logger *zap.Logger) *Decomposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decomposer{
		provider: p,
		counter:  tokens.NewCounter(),
		logger:   logger,
	}
}

// Decompose produces a plan for the given task description. taskContext is
// optional background included in the AI prompt.
func (d *Decomposer) Decompose(ctx context.Context, description, taskContext string, opts Options) (*models.Plan, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("empty task description")
	}

	var subtasks []*models.Subtask
	if opts.UseAI && d.provider != nil {
		subtasks = d.aiDecompose(ctx, description, taskContext)
	}
	if len(subtasks) == 0 {
		subtasks = ruleBasedDecompose(description)
	}
	if len(subtasks) == 0 {
		return nil, fmt.Errorf("decomposition produced no subtasks")
	}

	normalize(subtasks)
	return d.buildPlan(subtasks), nil
}

// aiDecompose asks the provider for a tagged STEP response. Any failure
// returns nil so the caller falls back to rule-based decomposition.
func (d *Decomposer) aiDecompose(ctx context.Context, description, taskContext string) []*models.Subtask {
	contextBlock := ""
	if strings.TrimSpace(taskContext) != "" {
		contextBlock = "Context:\n" + taskContext
	}

	prompt := fmt.Sprintf(decompositionPrompt, description, contextBlock)
	resp, err := d.provider.Complete(ctx, []provider.Message{
		{Role: provider.RoleUser, Content: prompt},
	}, provider.Options{})
	if err != nil {
		d.logger.Warn("AI decomposition failed, falling back to rule-based",
			zap.Error(err))
		return nil
	}

	subtasks := ParseStepResponse(resp.Content)
	if len(subtasks) == 0 {
		d.logger.Warn("AI decomposition response had no parseable steps, falling back to rule-based")
	}
	return subtasks
}

var (
	stepRe    = regexp.MustCompile(`(?m)^STEP\s+(\d+):\s*(\w+)\s*-\s*(.+)$`)
	typeRe    = regexp.MustCompile(`(?m)^TYPE:\s*(\w+)\s*$`)
	targetRe  = regexp.MustCompile(`(?m)^TARGET:\s*(\S+)\s*$`)
	dependsRe = regexp.MustCompile(`(?m)^DEPENDS:\s*(.+?)\s*$`)
)

// ParseStepResponse extracts subtasks from a tagged STEP response. Steps
// keep their declared numbers as provisional IDs; normalization reassigns
// them afterwards. Returns nil when no step lines match.
func ParseStepResponse(response string) []*models.Subtask {
	headers := stepRe.FindAllStringSubmatchIndex(response, -1)
	if len(headers) == 0 {
		return nil
	}

	var subtasks []*models.Subtask
	for i, header := range headers {
		// The block runs from this header to the next (or end of text).
		end := len(response)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := response[header[0]:end]

		id, _ := strconv.Atoi(response[header[2]:header[3]])
		action := response[header[4]:header[5]]
		description := strings.TrimSpace(response[header[6]:header[7]])

		st := &models.Subtask{
			ID:          id,
			Description: description,
			Type:        classifyTypeTag(action),
			Status:      models.SubtaskStatusPending,
		}
		if m := typeRe.FindStringSubmatch(block); m != nil {
			st.Type = classifyTypeTag(m[1])
		}
		if m := targetRe.FindStringSubmatch(block); m != nil {
			st.Target = m[1]
		}
		if m := dependsRe.FindStringSubmatch(block); m != nil {
			st.DependsOn = parseDepends(m[1])
		}
		subtasks = append(subtasks, st)
	}
	return subtasks
}

// classifyTypeTag maps a declared type token onto the closed subtask-type
// variant, defaulting to execute.
func classifyTypeTag(tag string) models.SubtaskType {
	t := models.SubtaskType(strings.ToLower(tag))
	if t.Valid() {
		return t
	}
	return models.SubtaskExecute
}

func parseDepends(value string) []int {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || value == "none" {
		return nil
	}
	var deps []int
	for _, part := range strings.Split(value, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			deps = append(deps, id)
		}
	}
	return deps
}

// buildPlan assembles the graph, execution order, and complexity estimate
// for normalized subtasks.
func (d *Decomposer) buildPlan(subtasks []*models.Subtask) *models.Plan {
	deps := make(map[int][]int, len(subtasks))
	for _, st := range subtasks {
		deps[st.ID] = st.DependsOn
	}
	g := graph.Build(deps)

	if g.HasCycle() {
		// Cyclic plans are not rejected; traversal visited-sets break the
		// cycle by omission. Surface it for operators.
		d.logger.Warn("dependency cycle in decomposed plan; traversals will ignore back edges")
	}

	return &models.Plan{
		Subtasks:       subtasks,
		Graph:          g,
		ExecutionOrder: g.ExecutionOrder(),
		Complexity:     d.estimateComplexity(subtasks, g),
	}
}
