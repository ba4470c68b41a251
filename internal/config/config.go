// Package config handles configuration loading and management for quorum.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for quorum.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Voting     VotingConfig     `mapstructure:"voting"`
	Validation ValidationConfig `mapstructure:"validation"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AnthropicConfig holds completion-provider settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseAWSBedrock routes requests through AWS Bedrock instead of the
	// Anthropic API.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// VotingConfig holds voting-round settings.
type VotingConfig struct {
	// MaxCandidates caps the candidate pool per round. Zero sizes the pool
	// from k.
	MaxCandidates int `mapstructure:"max_candidates"`
	// Temperature is the base sampling temperature before per-candidate
	// jitter.
	Temperature float64 `mapstructure:"temperature"`
	// SimilarityThreshold is the clustering threshold.
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	// BaseReliability feeds the optimal-k calculation.
	BaseReliability float64 `mapstructure:"base_reliability"`
}

// ValidationConfig holds response-validation limits.
type ValidationConfig struct {
	HardMaxTokens int `mapstructure:"hard_max_tokens"`
	HardMinTokens int `mapstructure:"hard_min_tokens"`
}

// ExecutionConfig holds orchestration behavior settings.
type ExecutionConfig struct {
	// UseAI enables AI-assisted task decomposition.
	UseAI bool `mapstructure:"use_ai"`
	// RequireHighConfidence turns unreliable voting results into subtask
	// errors.
	RequireHighConfidence bool `mapstructure:"require_high_confidence"`
	// StopOnError aborts a run on the first subtask error.
	StopOnError bool `mapstructure:"stop_on_error"`
	// ContextTokenBudget caps included target content per subtask prompt.
	ContextTokenBudget int `mapstructure:"context_token_budget"`
	// Workspace is the root directory results are applied under.
	Workspace string `mapstructure:"workspace"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.quorum.yaml in current directory or parent)
// 3. User config (~/.config/quorum/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("voting.max_candidates", cfg.Voting.MaxCandidates)
	v.Set("voting.temperature", cfg.Voting.Temperature)
	v.Set("voting.similarity_threshold", cfg.Voting.SimilarityThreshold)
	v.Set("voting.base_reliability", cfg.Voting.BaseReliability)
	v.Set("validation.hard_max_tokens", cfg.Validation.HardMaxTokens)
	v.Set("validation.hard_min_tokens", cfg.Validation.HardMinTokens)
	v.Set("execution.use_ai", cfg.Execution.UseAI)
	v.Set("execution.require_high_confidence", cfg.Execution.RequireHighConfidence)
	v.Set("execution.stop_on_error", cfg.Execution.StopOnError)
	v.Set("execution.context_token_budget", cfg.Execution.ContextTokenBudget)
	v.Set("execution.workspace", cfg.Execution.Workspace)
	v.Set("logging.debug", cfg.Logging.Debug)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it
// exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("voting.max_candidates", 0)
	v.SetDefault("voting.temperature", 0.7)
	v.SetDefault("voting.similarity_threshold", 0.7)
	v.SetDefault("voting.base_reliability", 0.7)

	v.SetDefault("validation.hard_max_tokens", 1500)
	v.SetDefault("validation.hard_min_tokens", 5)

	v.SetDefault("execution.use_ai", true)
	v.SetDefault("execution.require_high_confidence", false)
	v.SetDefault("execution.stop_on_error", false)
	v.SetDefault("execution.context_token_budget", 500)
	v.SetDefault("execution.workspace", ".")

	v.SetDefault("logging.debug", false)
}

// getUserConfigDir returns the XDG config directory for quorum.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "quorum")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "quorum")
	}
	return filepath.Join(home, ".config", "quorum")
}

// findProjectConfig searches for .quorum.yaml in the current directory and
// parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".quorum.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Voting: VotingConfig{
			Temperature:         0.7,
			SimilarityThreshold: 0.7,
			BaseReliability:     0.7,
		},
		Validation: ValidationConfig{
			HardMaxTokens: 1500,
			HardMinTokens: 5,
		},
		Execution: ExecutionConfig{
			UseAI:              true,
			ContextTokenBudget: 500,
			Workspace:          ".",
		},
	}
}
