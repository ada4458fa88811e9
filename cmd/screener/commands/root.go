package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdhawan/nifty-screener/internal/pipeline"
	"github.com/rdhawan/nifty-screener/internal/strategy"
	"github.com/rdhawan/nifty-screener/pkg/config"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

var (
	// Global flags
	strategyFile string
	dataDir      string
	outputDir    string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Monthly momentum screener for the NSE universe",
	Long: `Monthly equity screening pipeline.

Four stages run against month-end bars:
  1. liquidity  - rolling average volume cut
  2. trend      - close above the slow moving average
  3. buyzone    - rising moving average plus price above both averages
  4. rank       - relative strength against the benchmark index

Each stage writes its candidate file before the next stage reads it.

Examples:
  screener fetch --from 2015-01-01 --to 2024-12-31
  screener run
  screener stage liquidity
  screener schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy config file (default: built-in nifty500_monthly)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "bar file directory (default: SCREENER_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "candidate file directory (default: SCREENER_OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// runtime bundles the dependencies every subcommand needs.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategy.Config
	dataDir  string
	outDir   string
}

func initRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	strat := strategy.Default()
	if strategyFile != "" {
		strat, err = strategy.Load(strategyFile)
		if err != nil {
			return nil, fmt.Errorf("load strategy: %w", err)
		}
	}

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		strategy: strat,
		dataDir:  cfg.DataDir,
		outDir:   cfg.OutputDir,
	}
	if dataDir != "" {
		rt.dataDir = dataDir
	}
	if outputDir != "" {
		rt.outDir = outputDir
	}
	return rt, nil
}

func (rt *runtime) orchestrator() *pipeline.Orchestrator {
	return pipeline.New(rt.strategy, rt.dataDir, rt.outDir, rt.log)
}
