package strategy

// Config is the full configuration of one screening strategy: the symbol
// universe, every cut's thresholds and windows, and the file names the
// stages exchange. Loaded from YAML; unknown fields are rejected.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Liquidity Liquidity `yaml:"liquidity" json:"liquidity"`
	Trend     Trend     `yaml:"trend" json:"trend"`
	Ranking   Ranking   `yaml:"ranking" json:"ranking"`
	Files     Files     `yaml:"files" json:"files"`
}

// Meta identifies the strategy.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Universe names the symbols screened and the benchmark they are measured
// against. BenchmarkAliases are provider symbols tried in order when
// fetching the index.
type Universe struct {
	Symbols          []string `yaml:"symbols" json:"symbols"`
	Benchmark        string   `yaml:"benchmark" json:"benchmark"`
	BenchmarkAliases []string `yaml:"benchmark_aliases" json:"benchmark_aliases"`
}

// Liquidity configures the volume cut.
type Liquidity struct {
	VolumeWindow int     `yaml:"volume_window" json:"volume_window"`
	MinAvgVolume float64 `yaml:"min_avg_volume" json:"min_avg_volume"`
}

// Trend configures the moving-average cuts.
type Trend struct {
	FastWindow        int     `yaml:"fast_window" json:"fast_window"`
	SlowWindow        int     `yaml:"slow_window" json:"slow_window"`
	AngleThresholdDeg float64 `yaml:"angle_threshold_deg" json:"angle_threshold_deg"`

	// WarmupFactor approximates trading-day history in calendar days when
	// deciding the first month-end a cut may evaluate.
	WarmupFactor float64 `yaml:"warmup_factor" json:"warmup_factor"`
}

// Ranking configures the relative-strength stage.
type Ranking struct {
	LookbackMonths int `yaml:"lookback_months" json:"lookback_months"`
	TopN           int `yaml:"top_n" json:"top_n"`
}

// Files names the per-stage output files inside the output directory.
type Files struct {
	VolumeCut    string `yaml:"volume_cut" json:"volume_cut"`
	TrendCut     string `yaml:"trend_cut" json:"trend_cut"`
	BuyZoneCut   string `yaml:"buy_zone_cut" json:"buy_zone_cut"`
	RelativeRank string `yaml:"relative_rank" json:"relative_rank"`
}

// Default returns the configuration the source strategy shipped with.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "nifty500_monthly",
			Version:    "1",
		},
		Universe: Universe{
			Benchmark:        "NIFTY500_INDEX",
			BenchmarkAliases: []string{"NIFTY 500", "NIFTY500", "NIFTY_500", "NIFTY"},
		},
		Liquidity: Liquidity{
			VolumeWindow: 20,
			MinAvgVolume: 500_000,
		},
		Trend: Trend{
			FastWindow:        50,
			SlowWindow:        200,
			AngleThresholdDeg: 0.2,
			WarmupFactor:      1.5,
		},
		Ranking: Ranking{
			LookbackMonths: 1,
			TopN:           30,
		},
		Files: Files{
			VolumeCut:    "volume_cut.csv",
			TrendCut:     "sma_cut.csv",
			BuyZoneCut:   "sma_angle_cut.csv",
			RelativeRank: "relative_rank.csv",
		},
	}
}
