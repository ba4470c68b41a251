package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/config"
	"github.com/ShayCichocki/quorum/internal/orchestrate"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var (
	runCritical      bool
	runRequireHigh   bool
	runStopOnError   bool
	runNoAI          bool
	runCandidates    int
	runTemperature   float64
	runWorkspace     string
	runContextInput  string
	runRelevantFiles []string
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Execute a task with voted completions",
	Long: `Execute a task end to end.

The task is decomposed into subtasks, each subtask is completed by
sampling multiple candidates, rejecting red-flagged responses, and
voting across structural clusters. A subtask's result is applied to
the workspace only after a winner emerges.

Examples:
  quorum run "Create a parser for the config format. Then write tests."
  quorum run --critical --stop-on-error "Refactor src/auth.js"
  quorum run --files src/auth.js,src/session.js "Fix the login bug"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().BoolVar(&runCritical, "critical", false, "Raise the voting threshold for this task")
	runCmd.Flags().BoolVar(&runRequireHigh, "require-high-confidence", false, "Treat unreliable voting results as errors")
	runCmd.Flags().BoolVar(&runStopOnError, "stop-on-error", false, "Abort the execution on the first subtask error")
	runCmd.Flags().BoolVar(&runNoAI, "no-ai", false, "Use rule-based decomposition only")
	runCmd.Flags().IntVar(&runCandidates, "candidates", 0, "Candidate pool size per voting round (0 = sized from k)")
	runCmd.Flags().Float64Var(&runTemperature, "temperature", 0, "Base sampling temperature (0 = configured default)")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Directory results are applied under (default: configured workspace)")
	runCmd.Flags().StringVar(&runContextInput, "context", "", "Extra background included in decomposition")
	runCmd.Flags().StringSliceVar(&runRelevantFiles, "files", nil, "Workspace files to include in subtask prompts (max 2 per subtask)")
}

func runTask(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyRunFlags(cfg)

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := executeOptions(cfg)
	opts.CriticalTask = runCritical
	opts.RelevantFiles = runRelevantFiles

	summary, err := p.orchestrator.ExecuteTask(ctx, description, runContextInput, opts)
	if err != nil {
		return err
	}

	printSummary(summary)
	printUsage(p)
	return nil
}

func applyRunFlags(cfg *config.Config) {
	if runRequireHigh {
		cfg.Execution.RequireHighConfidence = true
	}
	if runStopOnError {
		cfg.Execution.StopOnError = true
	}
	if runNoAI {
		cfg.Execution.UseAI = false
	}
	if runCandidates > 0 {
		cfg.Voting.MaxCandidates = runCandidates
	}
	if runTemperature > 0 {
		cfg.Voting.Temperature = runTemperature
	}
	if runWorkspace != "" {
		cfg.Execution.Workspace = runWorkspace
	}
}

func printSummary(summary *orchestrate.Summary) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	fmt.Println()
	bold.Printf("Execution %s\n", summary.ExecutionID)
	fmt.Printf("  %d subtask(s), complexity %s\n",
		summary.Plan.Complexity.TotalSteps, summary.Plan.Complexity.Label)

	for _, entry := range summary.Log {
		st := summary.Plan.Subtask(entry.SubtaskID)
		desc := ""
		if st != nil {
			desc = st.Description
		}
		switch entry.Status {
		case models.ExecutionSuccess:
			green.Printf("  ✓ [%d] %s (confidence %.2f)\n", entry.SubtaskID, desc, entry.Confidence)
		case models.ExecutionWarning:
			yellow.Printf("  ! [%d] %s (confidence %.2f, unreliable)\n", entry.SubtaskID, desc, entry.Confidence)
		case models.ExecutionError:
			red.Printf("  ✗ [%d] %s: %s\n", entry.SubtaskID, desc, entry.Error)
		}
	}

	fmt.Printf("\nSuccess rate: %.0f%%  Average confidence: %.2f\n",
		summary.SuccessRate*100, summary.AvgConfidence)
}

func printUsage(p *pipeline) {
	tracker := p.client.Tracker()
	input, output := tracker.Total()
	if input == 0 && output == 0 {
		return
	}
	fmt.Printf("Tokens: %d in / %d out over %d call(s), est. $%.4f\n",
		input, output, tracker.Calls(), tracker.Cost())
}
