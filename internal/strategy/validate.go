package strategy

import "fmt"

// ValidationError reports a config constraint violation; the run aborts.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if cfg.Universe.Benchmark == "" {
		return ValidationError{"universe.benchmark", "required"}
	}

	// === Liquidity ===
	if cfg.Liquidity.VolumeWindow <= 0 {
		return ValidationError{"liquidity.volume_window", "must be > 0"}
	}
	if cfg.Liquidity.MinAvgVolume <= 0 {
		return ValidationError{"liquidity.min_avg_volume", "must be > 0"}
	}

	// === Trend ===
	if cfg.Trend.FastWindow <= 0 {
		return ValidationError{"trend.fast_window", "must be > 0"}
	}
	if cfg.Trend.SlowWindow <= 0 {
		return ValidationError{"trend.slow_window", "must be > 0"}
	}
	if cfg.Trend.FastWindow >= cfg.Trend.SlowWindow {
		return ValidationError{"trend.fast_window", "must be < slow_window"}
	}
	if cfg.Trend.WarmupFactor < 1.0 {
		return ValidationError{"trend.warmup_factor", "must be >= 1.0"}
	}

	// === Ranking ===
	if cfg.Ranking.LookbackMonths <= 0 {
		return ValidationError{"ranking.lookback_months", "must be > 0"}
	}
	if cfg.Ranking.TopN <= 0 {
		return ValidationError{"ranking.top_n", "must be > 0"}
	}

	// === Files ===
	if cfg.Files.VolumeCut == "" || cfg.Files.TrendCut == "" ||
		cfg.Files.BuyZoneCut == "" || cfg.Files.RelativeRank == "" {
		return ValidationError{"files", "all stage output file names are required"}
	}

	return nil
}
