package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
anthropic:
  model: claude-sonnet-4-20250514
voting:
  max_candidates: 8
  temperature: 0.9
execution:
  stop_on_error: true
  workspace: /tmp/quorum-work
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q", cfg.Anthropic.Model)
	}
	if cfg.Voting.MaxCandidates != 8 {
		t.Errorf("max_candidates = %d, want 8", cfg.Voting.MaxCandidates)
	}
	if cfg.Voting.Temperature != 0.9 {
		t.Errorf("temperature = %f, want 0.9", cfg.Voting.Temperature)
	}
	if !cfg.Execution.StopOnError {
		t.Error("stop_on_error not set")
	}
	// Unset keys fall back to defaults.
	if cfg.Voting.SimilarityThreshold != 0.7 {
		t.Errorf("similarity_threshold = %f, want default 0.7", cfg.Voting.SimilarityThreshold)
	}
	if cfg.Validation.HardMaxTokens != 1500 {
		t.Errorf("hard_max_tokens = %d, want default 1500", cfg.Validation.HardMaxTokens)
	}
}

func TestLoadFromPath_ExpandsAPIKeyReference(t *testing.T) {
	t.Setenv("QUORUM_TEST_KEY", "sk-ant-REDACTED")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic:\n  api_key: ${QUORUM_TEST_KEY}\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-REDACTED" {
		t.Errorf("api_key = %q, want expanded env value", cfg.Anthropic.APIKey)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Voting.Temperature != 0.7 {
		t.Errorf("default temperature = %f, want 0.7", cfg.Voting.Temperature)
	}
	if cfg.Voting.BaseReliability != 0.7 {
		t.Errorf("default base_reliability = %f, want 0.7", cfg.Voting.BaseReliability)
	}
	if !cfg.Execution.UseAI {
		t.Error("AI decomposition should default on")
	}
	if cfg.Execution.ContextTokenBudget != 500 {
		t.Errorf("default context_token_budget = %d, want 500", cfg.Execution.ContextTokenBudget)
	}
}
