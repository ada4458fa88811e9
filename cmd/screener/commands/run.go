package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCmd executes the full four-stage pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full screening pipeline",
	Long: `Runs all four stages in order and persists each stage's candidate
file to the output directory.

Example:
  screener run
  screener run --strategy strategies/nifty500.yaml`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}

	result, err := rt.orchestrator().Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Completed %d stages over %d month-ends in %s\n",
		len(result.CompletedStages), result.MonthEnds, result.Duration.Round(time.Millisecond))
	return nil
}
