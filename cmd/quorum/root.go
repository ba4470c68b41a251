package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Reliable LLM task execution via redundant sampling and voting",
	Long: `Quorum executes tasks through an LLM reliably: it decomposes a task
into atomic subtasks, samples multiple candidate completions per subtask,
rejects red-flagged responses, clusters the survivors by code structure,
and only trusts a result when the leading cluster is ahead of the
runner-up by at least k votes.

Core capabilities:
- Decomposes work into a dependency-ordered plan
- Red-flags hallucinated, truncated, or malformed completions
- Groups candidates by structural similarity, not raw text
- First-to-ahead-by-k voting with an adaptive threshold
- Applies winning results to the workspace step by step`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
