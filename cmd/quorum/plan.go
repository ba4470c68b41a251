package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/quorum/internal/config"
	"github.com/ShayCichocki/quorum/internal/decompose"
	"github.com/ShayCichocki/quorum/internal/logging"
	"github.com/ShayCichocki/quorum/internal/provider"
	"github.com/ShayCichocki/quorum/internal/voting"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var (
	planNoAI    bool
	planOut     string
	planContext string
)

var planCmd = &cobra.Command{
	Use:   "plan <task>",
	Short: "Decompose a task without executing it",
	Long: `Decompose a task into a dependency-ordered plan and show what an
execution would do: the subtasks, their dependencies, the complexity
estimate, and the voting threshold that would apply.

Use --out to export the plan as YAML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: planTask,
}

func init() {
	planCmd.Flags().BoolVar(&planNoAI, "no-ai", false, "Use rule-based decomposition only")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the plan as YAML to this file")
	planCmd.Flags().StringVar(&planContext, "context", "", "Extra background included in decomposition")
}

func planTask(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Logging.Debug)
	defer logger.Sync() //nolint:errcheck

	useAI := cfg.Execution.UseAI && !planNoAI

	// Planning works without credentials when AI decomposition is off.
	var p provider.CompletionProvider
	if useAI {
		apiKey, keyErr := config.GetAPIKey(cfg)
		if keyErr != nil && !cfg.Anthropic.UseAWSBedrock {
			logger.Warn("no API key available, planning rule-based only")
			useAI = false
		} else {
			client, clientErr := provider.NewClient(provider.ClientConfig{
				Model:         anthropic.Model(cfg.Anthropic.Model),
				APIKey:        apiKey,
				UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
				AWSRegion:     cfg.Anthropic.AWSRegion,
				AWSProfile:    cfg.Anthropic.AWSProfile,
			})
			if clientErr != nil {
				return fmt.Errorf("create provider client: %w", clientErr)
			}
			p = client
		}
	}

	d := decompose.New(p, logger)
	plan, err := d.Decompose(context.Background(), description, planContext, decompose.Options{UseAI: useAI})
	if err != nil {
		return fmt.Errorf("decomposing task: %w", err)
	}

	printPlan(plan, cfg.Voting.BaseReliability)

	if planOut != "" {
		data, err := yaml.Marshal(plan)
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		if err := os.WriteFile(planOut, data, 0o644); err != nil {
			return fmt.Errorf("writing plan to %s: %w", planOut, err)
		}
		fmt.Printf("\nPlan written to %s\n", planOut)
	}
	return nil
}

func printPlan(plan *models.Plan, baseReliability float64) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Printf("Plan: %d subtask(s), complexity %s\n",
		plan.Complexity.TotalSteps, plan.Complexity.Label)
	fmt.Printf("  estimated tokens: %d, max depth: %d, parallelizable: %d\n",
		plan.Complexity.TotalTokens, plan.Complexity.MaxDepth, plan.Complexity.Parallelizable)
	fmt.Printf("  voting threshold k: %d\n\n",
		voting.OptimalK(plan.Complexity.TotalSteps, baseReliability))

	for _, id := range plan.ExecutionOrder {
		st := plan.Subtask(id)
		if st == nil {
			continue
		}
		cyan.Printf("  %d. [%s] ", st.ID, st.Type)
		fmt.Print(st.Description)
		if st.Target != "" {
			fmt.Printf(" -> %s", st.Target)
		}
		if len(st.DependsOn) > 0 {
			fmt.Printf(" (after %v)", st.DependsOn)
		}
		fmt.Println()
	}
}
