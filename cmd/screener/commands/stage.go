package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// stageCmd groups the standalone stage runners. Each one reads its input
// candidate file (defaulting to the previous stage's output) and writes its
// own candidate file, so stages can be re-run individually after tweaking
// strategy parameters.
var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Run a single pipeline stage",
	Long: `Runs one screening stage in isolation.

Subcommands:
  liquidity - rolling average volume cut (reads the full universe)
  trend     - close above slow moving average
  buyzone   - rising average plus price above both averages
  rank      - relative strength against the benchmark

Example:
  screener stage liquidity
  screener stage trend --input out/volume_cut.csv
  screener stage rank`,
}

var stageInput string

var stageLiquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Run the volume cut",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := initRuntime()
		if err != nil {
			return err
		}
		out, err := rt.orchestrator().RunLiquidity(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d month-ends)\n",
			filepath.Join(rt.outDir, rt.strategy.Files.VolumeCut), out.Len())
		return nil
	},
}

var stageTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Run the trend-level cut",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := initRuntime()
		if err != nil {
			return err
		}
		input := stageInput
		if input == "" {
			input = filepath.Join(rt.outDir, rt.strategy.Files.VolumeCut)
		}
		out, err := rt.orchestrator().RunTrendLevel(context.Background(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d month-ends)\n",
			filepath.Join(rt.outDir, rt.strategy.Files.TrendCut), out.Len())
		return nil
	},
}

var stageBuyZoneCmd = &cobra.Command{
	Use:   "buyzone",
	Short: "Run the buy-zone cut",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := initRuntime()
		if err != nil {
			return err
		}
		input := stageInput
		if input == "" {
			input = filepath.Join(rt.outDir, rt.strategy.Files.TrendCut)
		}
		out, err := rt.orchestrator().RunBuyZone(context.Background(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d month-ends)\n",
			filepath.Join(rt.outDir, rt.strategy.Files.BuyZoneCut), out.Len())
		return nil
	},
}

var stageRankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Run the relative-strength ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := initRuntime()
		if err != nil {
			return err
		}
		input := stageInput
		if input == "" {
			input = filepath.Join(rt.outDir, rt.strategy.Files.BuyZoneCut)
		}
		rows, err := rt.orchestrator().RunRank(context.Background(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d month-ends)\n",
			filepath.Join(rt.outDir, rt.strategy.Files.RelativeRank), len(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.AddCommand(stageLiquidityCmd)
	stageCmd.AddCommand(stageTrendCmd)
	stageCmd.AddCommand(stageBuyZoneCmd)
	stageCmd.AddCommand(stageRankCmd)

	stageCmd.PersistentFlags().StringVar(&stageInput, "input", "", "input candidate file (default: previous stage's output)")
}
