package main

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/ShayCichocki/quorum/internal/apply"
	"github.com/ShayCichocki/quorum/internal/config"
	"github.com/ShayCichocki/quorum/internal/decompose"
	"github.com/ShayCichocki/quorum/internal/logging"
	"github.com/ShayCichocki/quorum/internal/orchestrate"
	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/internal/validate"
	"github.com/ShayCichocki/quorum/internal/voting"
)

// pipeline bundles the wired components for one command invocation.
type pipeline struct {
	client       *provider.Client
	orchestrator *orchestrate.Orchestrator
	logger       *zap.Logger
}

// buildPipeline wires the provider, decomposer, voting manager, and
// workspace from configuration.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	logger := logging.New(cfg.Logging.Debug)

	apiKey, err := config.GetAPIKey(cfg)
	if err != nil && !cfg.Anthropic.UseAWSBedrock {
		return nil, err
	}

	client, err := provider.NewClient(provider.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}

	validator := validate.New(validate.Options{
		HardMaxTokens: cfg.Validation.HardMaxTokens,
		HardMinTokens: cfg.Validation.HardMinTokens,
	})
	voter := voting.New(client, validator, logger, time.Now().UnixNano())
	decomposer := decompose.New(client, logger)
	workspace := apply.New(cfg.Execution.Workspace, logger)

	return &pipeline{
		client:       client,
		orchestrator: orchestrate.New(decomposer, voter, workspace, logger),
		logger:       logger,
	}, nil
}

// executeOptions maps configuration onto orchestration options.
func executeOptions(cfg *config.Config) orchestrate.Options {
	return orchestrate.Options{
		UseAI:                 cfg.Execution.UseAI,
		BaseReliability:       cfg.Voting.BaseReliability,
		RequireHighConfidence: cfg.Execution.RequireHighConfidence,
		StopOnError:           cfg.Execution.StopOnError,
		MaxCandidates:         cfg.Voting.MaxCandidates,
		Temperature:           cfg.Voting.Temperature,
		SimilarityThreshold:   cfg.Voting.SimilarityThreshold,
		ContextTokenBudget:    cfg.Execution.ContextTokenBudget,
	}
}
