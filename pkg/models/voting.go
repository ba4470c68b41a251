package models

// Candidate is one sampled completion attempt for a prompt. Candidates are
// ephemeral: they exist for a single voting round and are discarded after
// winner selection.
type Candidate struct {
	// Content is the raw completion text.
	Content string `json:"content"`
	// Temperature is the sampling temperature this candidate was drawn at.
	Temperature float64 `json:"temperature"`
	// TokenCount is the completion token count reported by the provider,
	// or an estimate when usage was unavailable.
	TokenCount int `json:"token_count"`
}

// VotingStats summarizes one first-to-ahead-by-k voting round.
type VotingStats struct {
	// TotalCandidates is how many candidates were generated.
	TotalCandidates int `json:"total_candidates"`
	// ValidCandidates is how many survived red-flagging.
	ValidCandidates int `json:"valid_candidates"`
	// ClusterCount is how many structural clusters the valid set formed.
	ClusterCount int `json:"cluster_count"`
	// WinnerVotes is the member count of the top cluster.
	WinnerVotes int `json:"winner_votes"`
	// RunnerUpVotes is the member count of the second cluster (0 if none).
	RunnerUpVotes int `json:"runner_up_votes"`
	// Margin is WinnerVotes - RunnerUpVotes.
	Margin int `json:"margin"`
	// VotesNeeded is the margin k required for a reliable result.
	VotesNeeded int `json:"votes_needed"`
	// Reliable is true when Margin >= VotesNeeded.
	Reliable bool `json:"reliable"`
}

// VotingResult is the resolved outcome of a voting round.
type VotingResult struct {
	// Winner is the representative content of the top-voted cluster.
	Winner string `json:"winner"`
	// Confidence is the blended confidence score in [0.1, 1.0].
	Confidence float64 `json:"confidence"`
	// Stats holds the round's vote accounting.
	Stats VotingStats `json:"voting_stats"`
	// Warning explains degraded outcomes (no valid candidates, a single
	// valid candidate, or a margin below k). Empty for reliable results.
	Warning string `json:"warning,omitempty"`
}
