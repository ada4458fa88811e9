package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/internal/strategy"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Fetcher downloads the configured universe plus the benchmark index and
// writes one bar CSV per symbol into the data directory. Per-symbol
// failures are recorded and skipped; only a completely empty fetch is an
// error.
type Fetcher struct {
	client  *Client
	cfg     *strategy.Config
	dataDir string
	logger  *logger.Logger
}

// ReportRow is one line of the post-fetch summary report.
type ReportRow struct {
	Symbol     string
	Bars       int
	Start      time.Time
	End        time.Time
	FirstClose float64
	LastClose  float64
	ChangePct  float64
}

// Summary describes a completed fetch.
type Summary struct {
	Fetched []string
	Failed  []string
	Report  []ReportRow

	// BenchmarkAlias is the provider symbol that actually answered for the
	// benchmark, empty when every alias failed.
	BenchmarkAlias string
}

// NewFetcher creates a fetcher.
func NewFetcher(client *Client, cfg *strategy.Config, dataDir string, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		cfg:     cfg,
		dataDir: dataDir,
		logger:  log,
	}
}

// Run fetches the benchmark and every universe symbol over a date range.
func (f *Fetcher) Run(ctx context.Context, from, to time.Time) (*Summary, error) {
	if err := os.MkdirAll(f.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	summary := &Summary{}

	// The benchmark first: provider naming for index symbols varies, so a
	// configured alias list is tried in order until one returns data.
	f.fetchBenchmark(ctx, from, to, summary)

	for _, symbol := range f.cfg.Universe.Symbols {
		bars, err := f.client.FetchBars(ctx, symbol, from, to)
		if err != nil {
			f.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Symbol fetch failed")
			summary.Failed = append(summary.Failed, symbol)
			continue
		}

		bars = filterRange(bars, from, to)
		if len(bars) == 0 {
			summary.Failed = append(summary.Failed, symbol)
			continue
		}

		if err := f.writeSeries(symbol, bars); err != nil {
			return nil, err
		}
		summary.Fetched = append(summary.Fetched, symbol)
		summary.Report = append(summary.Report, reportRow(symbol, bars))
	}

	if len(summary.Fetched) == 0 && summary.BenchmarkAlias == "" {
		return nil, fmt.Errorf("nothing fetched: %d symbols failed", len(summary.Failed))
	}

	if err := f.writeReport(summary.Report); err != nil {
		return nil, err
	}

	f.logger.WithFields(map[string]interface{}{
		"fetched": len(summary.Fetched),
		"failed":  len(summary.Failed),
	}).Info("Fetch completed")

	return summary, nil
}

// fetchBenchmark tries each configured benchmark alias until one answers.
// The series is stored under the canonical benchmark name regardless of
// which alias worked.
func (f *Fetcher) fetchBenchmark(ctx context.Context, from, to time.Time, summary *Summary) {
	aliases := f.cfg.Universe.BenchmarkAliases
	if len(aliases) == 0 {
		aliases = []string{f.cfg.Universe.Benchmark}
	}

	for _, alias := range aliases {
		bars, err := f.client.FetchBars(ctx, alias, from, to)
		if err != nil {
			f.logger.WithFields(map[string]interface{}{
				"alias": alias,
				"error": err.Error(),
			}).Debug("Benchmark alias failed")
			continue
		}

		bars = filterRange(bars, from, to)
		if len(bars) == 0 {
			continue
		}

		if err := f.writeSeries(f.cfg.Universe.Benchmark, bars); err != nil {
			f.logger.WithError(err).Error("Benchmark write failed")
			return
		}
		summary.BenchmarkAlias = alias
		summary.Report = append(summary.Report, reportRow(f.cfg.Universe.Benchmark, bars))

		f.logger.WithFields(map[string]interface{}{
			"alias": alias,
			"bars":  len(bars),
		}).Info("Benchmark fetched")
		return
	}

	f.logger.Warn("Could not fetch benchmark from any alias, continuing with stocks")
}

func (f *Fetcher) writeSeries(symbol string, bars []marketdata.Bar) error {
	s, err := marketdata.NewSeries(symbol, bars)
	if err != nil {
		return fmt.Errorf("build series %s: %w", symbol, err)
	}
	return marketdata.WriteSeriesCSV(filepath.Join(f.dataDir, symbol+".csv"), s)
}

// writeReport writes summary_report.csv next to the downloaded data.
func (f *Fetcher) writeReport(rows []ReportRow) error {
	path := filepath.Join(f.dataDir, "summary_report.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"Symbol", "Total_Bars", "Start_Date", "End_Date", "First_Close", "Last_Close", "Change_%"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Symbol,
			strconv.Itoa(row.Bars),
			marketdata.DateKey(row.Start),
			marketdata.DateKey(row.End),
			strconv.FormatFloat(row.FirstClose, 'f', -1, 64),
			strconv.FormatFloat(row.LastClose, 'f', -1, 64),
			strconv.FormatFloat(row.ChangePct, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// filterRange keeps bars inside [from, to].
func filterRange(bars []marketdata.Bar, from, to time.Time) []marketdata.Bar {
	out := bars[:0:len(bars)]
	for _, b := range bars {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func reportRow(symbol string, bars []marketdata.Bar) ReportRow {
	first := bars[0]
	last := bars[len(bars)-1]

	changePct := 0.0
	if first.Close != 0 {
		changePct = (last.Close - first.Close) / first.Close * 100
	}

	return ReportRow{
		Symbol:     symbol,
		Bars:       len(bars),
		Start:      first.Date,
		End:        last.Date,
		FirstClose: first.Close,
		LastClose:  last.Close,
		ChangePct:  changePct,
	}
}
