// Package voting resolves multiple sampled completions for one subtask to
// a single winner: generate candidates at jittered temperatures, red-flag
// them, cluster the survivors by structure, and require the top cluster to
// lead the runner-up by at least k votes.
package voting

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/ShayCichocki/quorum/internal/cluster"
	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/internal/tokens"
	"github.com/ShayCichocki/quorum/internal/validate"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// DefaultSimilarityThreshold is the clustering threshold used when a vote
// does not override it.
const DefaultSimilarityThreshold = 0.7

const (
	minK = 2
	maxK = 10

	// temperatureJitter is the maximum absolute jitter applied per
	// candidate for sampling diversity.
	temperatureJitter = 0.1
	minTemperature    = 0.1
	maxTemperature    = 1.0
)

// OptimalK derives the voting threshold from plan size: ceil(log2(steps+1))
// scaled up for low base reliability, clamped to [2, 10]. Non-decreasing in
// steps for a fixed reliability.
func OptimalK(steps int, baseReliability float64) int {
	if steps < 0 {
		steps = 0
	}
	baseK := math.Ceil(math.Log2(float64(steps + 1)))
	factor := 2 * (1 - baseReliability)
	if factor < 1 {
		factor = 1
	}
	k := int(math.Ceil(baseK * factor))
	if k < minK {
		return minK
	}
	if k > maxK {
		return maxK
	}
	return k
}

// VoteOptions configures one voting round.
type VoteOptions struct {
	// K is the margin the top cluster must lead by to be reliable.
	K int
	// MaxCandidates is how many completions to sample.
	MaxCandidates int
	// Temperature is the base sampling temperature before jitter.
	Temperature float64
	// SimilarityThreshold overrides the clustering threshold when nonzero.
	SimilarityThreshold float64
}

// Manager runs voting rounds against a completion provider.
type Manager struct {
	provider  provider.CompletionProvider
	validator *validate.Validator
	counter   *tokens.Counter
	logger    *zap.Logger
	rng       *rand.Rand
}

// New creates a Manager. The jitter source is seeded from seed so rounds
// are reproducible under a fixed seed.
func New(p provider.CompletionProvider, v *validate.Validator, logger *zap.Logger, seed int64) *Manager {
	if v == nil {
		v = validate.New(validate.Options{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		provider:  p,
		validator: v,
		counter:   tokens.NewCounter(),
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// GenerateCandidates issues count independent completion requests, each at
// the base temperature jittered by up to ±0.1 and clamped to [0.1, 1.0]. A
// failed request is logged and skipped; a connection-level fault aborts the
// batch and returns whatever was produced alongside the error.
func (m *Manager) GenerateCandidates(ctx context.Context, messages []provider.Message, count int, baseTemperature float64) ([]models.Candidate, error) {
	candidates := make([]models.Candidate, 0, count)

	for i := 0; i < count; i++ {
		temp := m.jitter(baseTemperature)
		resp, err := m.provider.Complete(ctx, messages, provider.Options{Temperature: temp})
		if err != nil {
			if provider.IsConnectionFault(err) {
				return candidates, fmt.Errorf("candidate generation aborted: %w", err)
			}
			m.logger.Warn("candidate generation failed, skipping",
				zap.Int("candidate", i+1),
				zap.Error(err))
			continue
		}

		tokenCount := 0
		if resp.Usage != nil {
			tokenCount = resp.Usage.CompletionTokens
		}
		if tokenCount == 0 {
			tokenCount = m.counter.Count(resp.Content)
		}
		candidates = append(candidates, models.Candidate{
			Content:     resp.Content,
			Temperature: temp,
			TokenCount:  tokenCount,
		})
	}
	return candidates, nil
}

func (m *Manager) jitter(base float64) float64 {
	t := base + (m.rng.Float64()*2-1)*temperatureJitter
	if t < minTemperature {
		return minTemperature
	}
	if t > maxTemperature {
		return maxTemperature
	}
	return t
}

// Vote runs one full voting round: generate, red-flag, cluster, count. The
// round fails only when no candidate could be generated at all; every other
// degraded path produces a winner with reliable=false and a warning.
func (m *Manager) Vote(ctx context.Context, messages []provider.Message, task validate.Task, opts VoteOptions) (*models.VotingResult, error) {
	if opts.K < 1 {
		opts.K = minK
	}
	if opts.MaxCandidates < 1 {
		opts.MaxCandidates = opts.K + 2
	}
	threshold := opts.SimilarityThreshold
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}

	candidates, genErr := m.GenerateCandidates(ctx, messages, opts.MaxCandidates, opts.Temperature)
	if len(candidates) == 0 {
		if genErr != nil {
			return nil, fmt.Errorf("voting round produced no candidates: %w", genErr)
		}
		return nil, fmt.Errorf("voting round produced no candidates")
	}
	if genErr != nil {
		m.logger.Warn("voting with a truncated candidate pool",
			zap.Int("candidates", len(candidates)),
			zap.Error(genErr))
	}

	results := make([]validate.Result, len(candidates))
	var valid []models.Candidate
	var validIdx []int
	for i, c := range candidates {
		results[i] = m.validator.Validate(c.Content, task)
		if results[i].Valid {
			valid = append(valid, c)
			validIdx = append(validIdx, i)
		}
	}

	stats := models.VotingStats{
		TotalCandidates: len(candidates),
		ValidCandidates: len(valid),
		VotesNeeded:     opts.K,
	}

	if len(valid) == 0 {
		return m.bestInvalid(candidates, results, stats), nil
	}
	if len(valid) == 1 {
		stats.ClusterCount = 1
		stats.WinnerVotes = 1
		stats.Margin = 1
		return &models.VotingResult{
			Winner:     valid[0].Content,
			Confidence: results[validIdx[0]].Confidence,
			Stats:      stats,
			Warning:    "only one candidate survived validation; no voting occurred",
		}, nil
	}

	contents := make([]string, len(valid))
	for i, c := range valid {
		contents[i] = c.Content
	}
	clusters := cluster.New().Cluster(contents, threshold)

	winner := clusters[0]
	runnerUpVotes := 0
	if len(clusters) > 1 {
		runnerUpVotes = clusters[1].Size
	}
	margin := winner.Size - runnerUpVotes

	stats.ClusterCount = len(clusters)
	stats.WinnerVotes = winner.Size
	stats.RunnerUpVotes = runnerUpVotes
	stats.Margin = margin
	stats.Reliable = margin >= opts.K

	confidence := 0.5*math.Min(1, float64(margin)/float64(opts.K)) +
		0.3*winner.AvgSimilarity +
		0.2*math.Min(1, float64(len(valid))/5.0)
	confidence = math.Min(1.0, math.Max(0.1, confidence))

	result := &models.VotingResult{
		Winner:     winner.Representative,
		Confidence: confidence,
		Stats:      stats,
	}
	if !stats.Reliable {
		result.Warning = fmt.Sprintf(
			"winning margin %d is below the required %d; result may be unreliable",
			margin, opts.K)
	}

	m.logger.Debug("voting round complete",
		zap.Int("total", stats.TotalCandidates),
		zap.Int("valid", stats.ValidCandidates),
		zap.Int("clusters", stats.ClusterCount),
		zap.Int("margin", margin),
		zap.Bool("reliable", stats.Reliable))

	return result, nil
}

// bestInvalid degrades to the highest-confidence candidate when red-flagging
// rejected every one.
func (m *Manager) bestInvalid(candidates []models.Candidate, results []validate.Result, stats models.VotingStats) *models.VotingResult {
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[best].Confidence {
			best = i
		}
	}
	m.logger.Warn("no candidate survived validation, returning best-effort winner",
		zap.Int("total", len(candidates)),
		zap.Float64("best_validator_confidence", results[best].Confidence))

	return &models.VotingResult{
		Winner:     candidates[best].Content,
		Confidence: 0.3,
		Stats:      stats,
		Warning:    "no candidate passed validation; returning the least-flagged response",
	}
}
