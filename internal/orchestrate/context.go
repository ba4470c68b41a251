package orchestrate

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/pkg/models"
)

const systemPrompt = `You are completing one step of a larger plan. ` +
	`Respond with only the content for this step: no commentary, no preamble.`

// maxRelevantFiles caps how many externally supplied files go into a
// subtask prompt.
const maxRelevantFiles = 2

// buildContext assembles the minimal prompt for one subtask: its own
// description, the outputs of its direct dependencies only, the current
// target content for read/edit subtasks (truncated to the token budget),
// and at most two relevant files. Keeping the context this small is what
// keeps per-step reliability high.
func (o *Orchestrator) buildContext(r *run, st *models.Subtask) []provider.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Step: %s\n", st.Description)
	fmt.Fprintf(&b, "Operation: %s\n", st.Type)
	if st.Target != "" {
		fmt.Fprintf(&b, "Target: %s\n", st.Target)
	}

	for _, dep := range st.DependsOn {
		output, ok := r.outputs[dep]
		if !ok {
			continue
		}
		depTask := r.plan.Subtask(dep)
		label := fmt.Sprintf("step %d", dep)
		if depTask != nil {
			label = fmt.Sprintf("step %d (%s)", dep, depTask.Description)
		}
		fmt.Fprintf(&b, "\nOutput of %s:\n%s\n", label, output)
	}

	if st.Target != "" && (st.Type == models.SubtaskRead || st.Type == models.SubtaskEdit) {
		if content := o.targetContent(st.Target, r.opts.ContextTokenBudget); content != "" {
			fmt.Fprintf(&b, "\nCurrent content of %s:\n%s\n", st.Target, content)
		}
	}

	included := 0
	for _, name := range r.opts.RelevantFiles {
		if included == maxRelevantFiles {
			break
		}
		if name == st.Target {
			continue
		}
		content := o.targetContent(name, r.opts.ContextTokenBudget)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "\nRelevant file %s:\n%s\n", name, content)
		included++
	}

	return []provider.Message{
		{Role: provider.RoleSystem, Content: systemPrompt},
		{Role: provider.RoleUser, Content: b.String()},
	}
}

// targetContent reads a workspace file and truncates it to budget tokens
// when it exceeds the budget. Missing or unreadable files yield empty.
func (o *Orchestrator) targetContent(name string, budget int) string {
	content, err := o.workspace.Read(name)
	if err != nil || content == "" {
		return ""
	}
	if o.counter.Count(content) > budget {
		return o.counter.Truncate(content, budget)
	}
	return content
}
