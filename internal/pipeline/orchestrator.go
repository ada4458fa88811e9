package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/internal/rank"
	"github.com/rdhawan/nifty-screener/internal/screen"
	"github.com/rdhawan/nifty-screener/internal/strategy"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Orchestrator sequences the four screening stages in fixed order:
// liquidity -> trend-level -> buy-zone -> relative-strength. Every stage
// persists its candidate set before the next stage runs, and every stage
// reads its input back from the persisted file, so a run interrupted after
// any stage resumes from that stage's output rather than recomputing.
type Orchestrator struct {
	cfg       *strategy.Config
	dataDir   string
	outputDir string
	logger    *logger.Logger

	// store is loaded lazily and shared across stages within one process;
	// stages only ever attach derived columns to it.
	store     *marketdata.Store
	benchmark *marketdata.Series
}

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	CompletedStages []string
	MonthEnds       int
	Duration        time.Duration
}

// New creates an orchestrator.
func New(cfg *strategy.Config, dataDir, outputDir string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		dataDir:   dataDir,
		outputDir: outputDir,
		logger:    log,
	}
}

// Run executes the full pipeline.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{}

	hash, err := strategy.Hash(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}
	o.logger.WithFields(map[string]interface{}{
		"strategy":    o.cfg.Meta.StrategyID,
		"config_hash": hash,
		"data_dir":    o.dataDir,
		"output_dir":  o.outputDir,
	}).Info("Starting pipeline run")

	if _, err := o.RunLiquidity(ctx); err != nil {
		return result, fmt.Errorf("liquidity cut failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "liquidity")

	if _, err := o.RunTrendLevel(ctx, o.outputPath(o.cfg.Files.VolumeCut)); err != nil {
		return result, fmt.Errorf("trend cut failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "trend-level")

	if _, err := o.RunBuyZone(ctx, o.outputPath(o.cfg.Files.TrendCut)); err != nil {
		return result, fmt.Errorf("buy zone cut failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "buy-zone")

	rows, err := o.RunRank(ctx, o.outputPath(o.cfg.Files.BuyZoneCut))
	if err != nil {
		return result, fmt.Errorf("relative strength ranking failed: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "relative-strength")
	result.MonthEnds = len(rows)
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"stages":     len(result.CompletedStages),
		"month_ends": result.MonthEnds,
		"duration":   result.Duration.Seconds(),
	}).Info("Pipeline run completed")

	return result, nil
}

// RunLiquidity runs the volume cut against the full symbol universe and
// persists it.
func (o *Orchestrator) RunLiquidity(ctx context.Context) (*screen.CandidateSet, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}

	monthEnds := marketdata.MonthEnds(store)
	universe := o.cfg.Universe.Symbols
	if len(universe) == 0 {
		universe = store.Symbols()
	}

	stage := screen.NewLiquidityStage(o.cfg.Liquidity.VolumeWindow, o.cfg.Liquidity.MinAvgVolume, o.logger)
	out, err := stage.Run(store, monthEnds, screen.Universe(universe, monthEnds))
	if err != nil {
		return nil, err
	}

	if err := screen.WriteCandidates(o.outputPath(o.cfg.Files.VolumeCut), out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunTrendLevel runs the slow-SMA cut over a persisted upstream candidate
// file and persists the result.
func (o *Orchestrator) RunTrendLevel(ctx context.Context, inputPath string) (*screen.CandidateSet, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}
	input, err := screen.ReadCandidates(inputPath)
	if err != nil {
		return nil, err
	}

	stage := screen.NewTrendLevelStage(o.cfg.Trend.SlowWindow, o.cfg.Trend.WarmupFactor, o.logger)
	out, err := stage.Run(store, marketdata.MonthEnds(store), input)
	if err != nil {
		return nil, err
	}

	if err := screen.WriteCandidates(o.outputPath(o.cfg.Files.TrendCut), out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunBuyZone runs the SMA-angle cut over a persisted upstream candidate
// file and persists the result.
func (o *Orchestrator) RunBuyZone(ctx context.Context, inputPath string) (*screen.CandidateSet, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}
	input, err := screen.ReadCandidates(inputPath)
	if err != nil {
		return nil, err
	}

	stage := screen.NewBuyZoneStage(
		o.cfg.Trend.FastWindow,
		o.cfg.Trend.SlowWindow,
		o.cfg.Trend.AngleThresholdDeg,
		o.cfg.Trend.WarmupFactor,
		o.logger,
	)
	out, err := stage.Run(store, marketdata.MonthEnds(store), input)
	if err != nil {
		return nil, err
	}

	if err := screen.WriteCandidates(o.outputPath(o.cfg.Files.BuyZoneCut), out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunRank runs the relative-strength ranking over a persisted upstream
// candidate file and persists the watchlist.
func (o *Orchestrator) RunRank(ctx context.Context, inputPath string) ([]rank.Row, error) {
	store, err := o.loadStore()
	if err != nil {
		return nil, err
	}
	benchmark, err := o.loadBenchmark()
	if err != nil {
		return nil, err
	}
	input, err := screen.ReadCandidates(inputPath)
	if err != nil {
		return nil, err
	}

	ranker := rank.NewRanker(benchmark, o.cfg.Ranking.LookbackMonths, o.cfg.Ranking.TopN, o.logger)
	rows := ranker.Rank(store, input)

	if err := rank.WriteRows(o.outputPath(o.cfg.Files.RelativeRank), rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// loadStore loads every stock series once per process. The benchmark and
// fetch report files share the data directory and are not stocks.
func (o *Orchestrator) loadStore() (*marketdata.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	exclude := []string{o.cfg.Universe.Benchmark, "summary_report", "combined_data"}
	store, err := marketdata.LoadDir(o.dataDir, exclude, o.logger)
	if err != nil {
		return nil, fmt.Errorf("load time-series store: %w", err)
	}

	o.store = store
	return store, nil
}

// loadBenchmark loads the benchmark index series. Missing benchmark data is
// a hard error: the ranking stage cannot run without it.
func (o *Orchestrator) loadBenchmark() (*marketdata.Series, error) {
	if o.benchmark != nil {
		return o.benchmark, nil
	}

	path := filepath.Join(o.dataDir, o.cfg.Universe.Benchmark+".csv")
	benchmark, err := marketdata.ReadSeriesCSV(path, o.cfg.Universe.Benchmark)
	if err != nil {
		return nil, fmt.Errorf("load benchmark series: %w", err)
	}

	o.benchmark = benchmark
	return benchmark, nil
}

func (o *Orchestrator) outputPath(name string) string {
	return filepath.Join(o.outputDir, name)
}
