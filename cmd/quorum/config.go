package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify quorum configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/quorum/config.yaml
Project-specific overrides can be placed in .quorum.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orUnset(cfg.Anthropic.AWSRegion))
	fmt.Printf("anthropic.aws_profile: %s\n", orUnset(cfg.Anthropic.AWSProfile))
	fmt.Printf("voting.max_candidates: %d\n", cfg.Voting.MaxCandidates)
	fmt.Printf("voting.temperature: %g\n", cfg.Voting.Temperature)
	fmt.Printf("voting.similarity_threshold: %g\n", cfg.Voting.SimilarityThreshold)
	fmt.Printf("voting.base_reliability: %g\n", cfg.Voting.BaseReliability)
	fmt.Printf("validation.hard_max_tokens: %d\n", cfg.Validation.HardMaxTokens)
	fmt.Printf("validation.hard_min_tokens: %d\n", cfg.Validation.HardMinTokens)
	fmt.Printf("execution.use_ai: %t\n", cfg.Execution.UseAI)
	fmt.Printf("execution.require_high_confidence: %t\n", cfg.Execution.RequireHighConfidence)
	fmt.Printf("execution.stop_on_error: %t\n", cfg.Execution.StopOnError)
	fmt.Printf("execution.context_token_budget: %d\n", cfg.Execution.ContextTokenBudget)
	fmt.Printf("execution.workspace: %s\n", cfg.Execution.Workspace)
	fmt.Printf("logging.debug: %t\n", cfg.Logging.Debug)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return orUnset(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orUnset(cfg.Anthropic.AWSProfile), nil
	case "voting.max_candidates":
		return strconv.Itoa(cfg.Voting.MaxCandidates), nil
	case "voting.temperature":
		return strconv.FormatFloat(cfg.Voting.Temperature, 'g', -1, 64), nil
	case "voting.similarity_threshold":
		return strconv.FormatFloat(cfg.Voting.SimilarityThreshold, 'g', -1, 64), nil
	case "voting.base_reliability":
		return strconv.FormatFloat(cfg.Voting.BaseReliability, 'g', -1, 64), nil
	case "validation.hard_max_tokens":
		return strconv.Itoa(cfg.Validation.HardMaxTokens), nil
	case "validation.hard_min_tokens":
		return strconv.Itoa(cfg.Validation.HardMinTokens), nil
	case "execution.use_ai":
		return strconv.FormatBool(cfg.Execution.UseAI), nil
	case "execution.require_high_confidence":
		return strconv.FormatBool(cfg.Execution.RequireHighConfidence), nil
	case "execution.stop_on_error":
		return strconv.FormatBool(cfg.Execution.StopOnError), nil
	case "execution.context_token_budget":
		return strconv.Itoa(cfg.Execution.ContextTokenBudget), nil
	case "execution.workspace":
		return cfg.Execution.Workspace, nil
	case "logging.debug":
		return strconv.FormatBool(cfg.Logging.Debug), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "voting.max_candidates":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_candidates: %w", err)
		}
		cfg.Voting.MaxCandidates = n
	case "voting.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for temperature: %w", err)
		}
		cfg.Voting.Temperature = f
	case "voting.similarity_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for similarity_threshold: %w", err)
		}
		cfg.Voting.SimilarityThreshold = f
	case "voting.base_reliability":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for base_reliability: %w", err)
		}
		cfg.Voting.BaseReliability = f
	case "validation.hard_max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for hard_max_tokens: %w", err)
		}
		cfg.Validation.HardMaxTokens = n
	case "validation.hard_min_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for hard_min_tokens: %w", err)
		}
		cfg.Validation.HardMinTokens = n
	case "execution.use_ai":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_ai: %w", err)
		}
		cfg.Execution.UseAI = b
	case "execution.require_high_confidence":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for require_high_confidence: %w", err)
		}
		cfg.Execution.RequireHighConfidence = b
	case "execution.stop_on_error":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for stop_on_error: %w", err)
		}
		cfg.Execution.StopOnError = b
	case "execution.context_token_budget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for context_token_budget: %w", err)
		}
		cfg.Execution.ContextTokenBudget = n
	case "execution.workspace":
		cfg.Execution.Workspace = value
	case "logging.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for logging.debug: %w", err)
		}
		cfg.Logging.Debug = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
