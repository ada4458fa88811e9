package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStrategy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("overrides merge over defaults", func(t *testing.T) {
		path := writeStrategy(t, `
liquidity:
  volume_window: 10
  min_avg_volume: 750000
universe:
  symbols: [TCS, INFY]
  benchmark: NIFTY500_INDEX
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Liquidity.VolumeWindow)
		assert.Equal(t, 750000.0, cfg.Liquidity.MinAvgVolume)
		assert.Equal(t, []string{"TCS", "INFY"}, cfg.Universe.Symbols)

		// Untouched sections keep their defaults.
		assert.Equal(t, 200, cfg.Trend.SlowWindow)
		assert.Equal(t, "sma_cut.csv", cfg.Files.TrendCut)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		path := writeStrategy(t, `
liquidity:
  volume_windw: 10
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		path := writeStrategy(t, `
trend:
  fast_window: 200
  slow_window: 50
`)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fast_window")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing strategy id",
			mutate:  func(c *Config) { c.Meta.StrategyID = "" },
			wantErr: "meta.strategy_id",
		},
		{
			name:    "missing benchmark",
			mutate:  func(c *Config) { c.Universe.Benchmark = "" },
			wantErr: "universe.benchmark",
		},
		{
			name:    "zero volume window",
			mutate:  func(c *Config) { c.Liquidity.VolumeWindow = 0 },
			wantErr: "liquidity.volume_window",
		},
		{
			name:    "fast window not below slow",
			mutate:  func(c *Config) { c.Trend.FastWindow = c.Trend.SlowWindow },
			wantErr: "trend.fast_window",
		},
		{
			name:    "warmup factor below one",
			mutate:  func(c *Config) { c.Trend.WarmupFactor = 0.5 },
			wantErr: "trend.warmup_factor",
		},
		{
			name:    "zero lookback",
			mutate:  func(c *Config) { c.Ranking.LookbackMonths = 0 },
			wantErr: "ranking.lookback_months",
		},
		{
			name:    "missing output file name",
			mutate:  func(c *Config) { c.Files.RelativeRank = "" },
			wantErr: "files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHash(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Ranking.TopN = 10
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
