package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// fakeProvider returns canned responses in order, then errors.
type fakeProvider struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeProvider) Complete(ctx context.Context, messages []provider.Message, opts provider.Options) (*provider.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("no responses left")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return &provider.Completion{Content: resp}, nil
}

func TestDecompose_EmptyDescription(t *testing.T) {
	d := New(nil, nil)
	if _, err := d.Decompose(context.Background(), "   ", "", Options{}); err == nil {
		t.Error("expected error for empty description")
	}
}

func TestDecompose_RuleBased_TwoSentences(t *testing.T) {
	d := New(nil, nil)

	plan, err := d.Decompose(context.Background(), "Write a function. Then write a test.", "", Options{})
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(plan.Subtasks) != 2 {
		t.Fatalf("got %d subtasks, want 2", len(plan.Subtasks))
	}
	if len(plan.Subtasks[0].DependsOn) != 0 {
		t.Errorf("first subtask depends on %v, want nothing", plan.Subtasks[0].DependsOn)
	}
	if len(plan.Subtasks[1].DependsOn) != 1 || plan.Subtasks[1].DependsOn[0] != 1 {
		t.Errorf("second subtask depends on %v, want [1]", plan.Subtasks[1].DependsOn)
	}
}

func TestDecompose_RuleBased_ConjunctionSplit(t *testing.T) {
	d := New(nil, nil)

	plan, err := d.Decompose(context.Background(), "Create the config file and then delete the old one", "", Options{})
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if len(plan.Subtasks) != 2 {
		t.Fatalf("got %d subtasks, want 2 after conjunction split", len(plan.Subtasks))
	}
	if plan.Subtasks[0].Type != models.SubtaskCreate {
		t.Errorf("first type = %s, want create", plan.Subtasks[0].Type)
	}
	if plan.Subtasks[1].Type != models.SubtaskDelete {
		t.Errorf("second type = %s, want delete", plan.Subtasks[1].Type)
	}
}

func TestClassifyStatement_LeadingVerbWins(t *testing.T) {
	tests := []struct {
		statement string
		want      models.SubtaskType
	}{
		{"Remove the created file", models.SubtaskDelete},
		{"Update the generated docs", models.SubtaskEdit},
		{"Create a new endpoint", models.SubtaskCreate},
		{"Set up the project scaffolding", models.SubtaskCreate},
		{"Write the changelog entry", models.SubtaskWrite},
		{"Summarize the report", models.SubtaskExecute},
	}
	for _, tt := range tests {
		if got := classifyStatement(tt.statement); got != tt.want {
			t.Errorf("classifyStatement(%q) = %s, want %s", tt.statement, got, tt.want)
		}
	}
}

func TestDecompose_IDsAreSequential(t *testing.T) {
	d := New(nil, nil)

	descriptions := []string{
		"Write a function. Then write a test.",
		"Create a model and add a route and write docs",
		"Fix the parser",
	}
	for _, desc := range descriptions {
		plan, err := d.Decompose(context.Background(), desc, "", Options{})
		if err != nil {
			t.Fatalf("Decompose(%q) failed: %v", desc, err)
		}
		for i, st := range plan.Subtasks {
			if st.ID != i+1 {
				t.Errorf("%q: subtask %d has ID %d, want %d", desc, i, st.ID, i+1)
			}
		}
	}
}

func TestDecompose_AI(t *testing.T) {
	fake := &fakeProvider{responses: []string{`Here is the plan:

STEP 1: create - Create the user model
TYPE: create
TARGET: models/user.js
DEPENDS: none

STEP 2: write - Write tests for the user model
TYPE: write
TARGET: models/user.test.js
DEPENDS: 1

STEP 3: execute - Run the test suite
DEPENDS: 1, 2
`}}
	d := New(fake, nil)

	plan, err := d.Decompose(context.Background(), "Build a user model", "", Options{UseAI: true})
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(plan.Subtasks) != 3 {
		t.Fatalf("got %d subtasks, want 3", len(plan.Subtasks))
	}
	if plan.Subtasks[0].Type != models.SubtaskCreate || plan.Subtasks[0].Target != "models/user.js" {
		t.Errorf("first subtask = %+v, want create models/user.js", plan.Subtasks[0])
	}
	if got := plan.Subtasks[2].DependsOn; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("third subtask depends on %v, want [1 2]", got)
	}
	if plan.Subtasks[2].Type != models.SubtaskExecute {
		t.Errorf("untagged TYPE fell back to %s, want execute from the action token", plan.Subtasks[2].Type)
	}
}

func TestDecompose_AIProviderFailureFallsBack(t *testing.T) {
	fake := &fakeProvider{err: errors.New("provider down")}
	d := New(fake, nil)

	plan, err := d.Decompose(context.Background(), "Write a function. Then write a test.", "", Options{UseAI: true})
	if err != nil {
		t.Fatalf("Decompose should fall back, got error: %v", err)
	}
	if len(plan.Subtasks) != 2 {
		t.Errorf("fallback produced %d subtasks, want 2", len(plan.Subtasks))
	}
	if fake.calls != 1 {
		t.Errorf("provider called %d times, want 1", fake.calls)
	}
}

func TestDecompose_AIUnparseableFallsBack(t *testing.T) {
	fake := &fakeProvider{responses: []string{"I would suggest breaking this into several pieces."}}
	d := New(fake, nil)

	plan, err := d.Decompose(context.Background(), "Fix the bug", "", Options{UseAI: true})
	if err != nil {
		t.Fatalf("Decompose should fall back, got error: %v", err)
	}
	if len(plan.Subtasks) != 1 {
		t.Errorf("fallback produced %d subtasks, want 1", len(plan.Subtasks))
	}
}

func TestParseStepResponse_DropsInvalidDepends(t *testing.T) {
	subtasks := ParseStepResponse(`STEP 1: create - First step
DEPENDS: none

STEP 2: edit - Second step
DEPENDS: 2, 5, 1
`)
	normalize(subtasks)

	if len(subtasks) != 2 {
		t.Fatalf("got %d subtasks, want 2", len(subtasks))
	}
	// Self-reference (2) and dangling (5) dropped; only 1 survives.
	if got := subtasks[1].DependsOn; len(got) != 1 || got[0] != 1 {
		t.Errorf("DependsOn = %v, want [1]", got)
	}
}

func TestDecompose_ComplexityEstimate(t *testing.T) {
	d := New(nil, nil)

	plan, err := d.Decompose(context.Background(), "Create a parser. Then fix the lexer. Then write the docs.", "", Options{})
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	c := plan.Complexity
	if c.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, want 3", c.TotalSteps)
	}
	if c.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3 (sequential chain)", c.MaxDepth)
	}
	if c.Parallelizable != 1 {
		t.Errorf("Parallelizable = %d, want 1", c.Parallelizable)
	}
	if c.Label != models.ComplexityMedium {
		t.Errorf("Label = %s, want medium", c.Label)
	}
	if c.TotalTokens <= 0 {
		t.Error("TotalTokens should be positive")
	}
	for _, st := range plan.Subtasks {
		if st.EstimatedTokens <= 0 {
			t.Errorf("subtask %d has no token estimate", st.ID)
		}
	}
}

func TestDecompose_ExecutionOrderRespectsDependencies(t *testing.T) {
	fake := &fakeProvider{responses: []string{`STEP 1: write - Write the integration test
TYPE: write
DEPENDS: 2

STEP 2: create - Create the endpoint
TYPE: create
DEPENDS: none
`}}
	d := New(fake, nil)

	plan, err := d.Decompose(context.Background(), "Add an endpoint with tests", "", Options{UseAI: true})
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	// Provisional step 2 became id 2; step 1's dependency on it pointed
	// forward after renumbering and was dropped.
	if got := plan.Subtasks[0].DependsOn; len(got) != 0 {
		t.Errorf("forward dependency survived normalization: %v", got)
	}
	if len(plan.ExecutionOrder) != 2 {
		t.Errorf("ExecutionOrder = %v, want 2 entries", plan.ExecutionOrder)
	}
}
