package voting

import (
	"context"
	"math"

	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/internal/validate"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// expectedValidYield is the assumed fraction of generated candidates that
// survive red-flagging, used for cost projection only.
const expectedValidYield = 0.7

// AdaptiveOptions sizes an adaptive voting round from task shape.
type AdaptiveOptions struct {
	// EstimatedSteps is the plan size the subtask belongs to.
	EstimatedSteps int
	// Critical scales k by 1.5 and doubles the candidate pool.
	Critical bool
	// BaseReliability feeds OptimalK. Zero means the 0.7 default.
	BaseReliability float64
	// Temperature is the base sampling temperature.
	Temperature float64
	// MaxCandidates caps the pool size. Zero means uncapped.
	MaxCandidates int
}

// AdaptiveVote sizes k and the candidate pool from the task's estimated
// step count and criticality, then runs a normal round.
func (m *Manager) AdaptiveVote(ctx context.Context, messages []provider.Message, task validate.Task, opts AdaptiveOptions) (*models.VotingResult, error) {
	reliability := opts.BaseReliability
	if reliability == 0 {
		reliability = 0.7
	}

	k := OptimalK(opts.EstimatedSteps, reliability)
	if opts.Critical {
		k = int(math.Ceil(float64(k) * 1.5))
		if k > maxK {
			k = maxK
		}
	}

	pool := k + 2
	if pool < 5 {
		pool = 5
	}
	if opts.Critical {
		pool *= 2
	}
	if opts.MaxCandidates > 0 && pool > opts.MaxCandidates {
		pool = opts.MaxCandidates
	}

	return m.Vote(ctx, messages, task, VoteOptions{
		K:             k,
		MaxCandidates: pool,
		Temperature:   opts.Temperature,
	})
}

// QuickVote is the cheap mode: k=2 over a 3-candidate pool.
func (m *Manager) QuickVote(ctx context.Context, messages []provider.Message, task validate.Task, temperature float64) (*models.VotingResult, error) {
	return m.Vote(ctx, messages, task, VoteOptions{
		K:             2,
		MaxCandidates: 3,
		Temperature:   temperature,
	})
}

// ReliableVote is the thorough mode: k at least 5, 10 candidates. Zero
// steps defaults to a 10-step plan for sizing.
func (m *Manager) ReliableVote(ctx context.Context, messages []provider.Message, task validate.Task, steps int, temperature float64) (*models.VotingResult, error) {
	if steps == 0 {
		steps = 10
	}
	k := OptimalK(steps, 0.7)
	if k < 5 {
		k = 5
	}
	return m.Vote(ctx, messages, task, VoteOptions{
		K:             k,
		MaxCandidates: 10,
		Temperature:   temperature,
	})
}

// CostEstimate is an analytic projection of one voting round, for planning.
type CostEstimate struct {
	// Candidates is the pool size that would be generated.
	Candidates int
	// ExpectedValid applies the assumed validity yield to the pool.
	ExpectedValid int
	// EstimatedTokens is the projected completion token spend.
	EstimatedTokens int
	// Feasible is false when the expected valid count cannot produce a
	// margin of k even if unanimous.
	Feasible bool
}

// EstimateCost projects the spend and feasibility of a round without
// executing it, assuming a 70% candidate validity yield.
func EstimateCost(k, maxCandidates, avgTokensPerCandidate int) CostEstimate {
	expectedValid := int(math.Floor(float64(maxCandidates) * expectedValidYield))
	return CostEstimate{
		Candidates:      maxCandidates,
		ExpectedValid:   expectedValid,
		EstimatedTokens: maxCandidates * avgTokensPerCandidate,
		Feasible:        expectedValid >= k,
	}
}
