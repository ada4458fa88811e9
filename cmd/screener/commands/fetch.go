package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdhawan/nifty-screener/internal/fetch"
)

// fetchCmd downloads daily bars for the strategy universe plus the benchmark.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily bars for the universe and benchmark",
	Long: `Fetches daily bars for every symbol in the strategy universe and for
the benchmark index, writes one CSV per symbol into the data directory, and
writes a summary report.

Example:
  screener fetch --from 2015-01-01 --to 2024-12-31
  screener fetch --from 2015-01-01`,
	RunE: runFetch,
}

var (
	fetchFrom string
	fetchTo   string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	fetchCmd.MarkFlagRequired("from")
}

func runFetch(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}

	from, err := time.Parse("2006-01-02", fetchFrom)
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	to := time.Now().UTC()
	if fetchTo != "" {
		to, err = time.Parse("2006-01-02", fetchTo)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	client := fetch.NewClient(rt.cfg, rt.log)
	fetcher := fetch.NewFetcher(client, rt.strategy, rt.dataDir, rt.log)

	summary, err := fetcher.Run(context.Background(), from, to)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d symbols (%d failed)\n", len(summary.Fetched), len(summary.Failed))
	if summary.BenchmarkAlias != "" {
		fmt.Printf("Benchmark resolved via alias %q\n", summary.BenchmarkAlias)
	}
	return nil
}
