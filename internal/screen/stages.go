package screen

import (
	"fmt"
	"math"

	"github.com/rdhawan/nifty-screener/internal/indicators"
	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Derived column names attached to each series.
func volMeanColumn(window int) string { return fmt.Sprintf("vol_ma%d", window) }
func smaColumn(window int) string     { return fmt.Sprintf("sma%d", window) }

const angleColumn = "angle"

// NewLiquidityStage filters on trailing average volume:
// rolling_mean(volume, window) > minAvgVolume. A missing average (inside the
// warm-up of a young series) fails the symbol silently. The stage itself has
// no warm-up restriction: early month-ends simply come out thin, the same
// way the source produced them.
func NewLiquidityStage(window int, minAvgVolume float64, log *logger.Logger) *Stage {
	col := volMeanColumn(window)

	return &Stage{
		Name: "liquidity",
		Prepare: func(store *marketdata.Store) error {
			return attachVolumeMean(store, window)
		},
		Predicate: func(s *marketdata.Series, pos int) bool {
			avg := s.Value(col, pos)
			return !math.IsNaN(avg) && avg > minAvgVolume
		},
		logger: log,
	}
}

// NewTrendLevelStage keeps symbols trading above their slow moving average:
// close > rolling_mean(close, slowWindow).
func NewTrendLevelStage(slowWindow int, warmupFactor float64, log *logger.Logger) *Stage {
	col := smaColumn(slowWindow)

	return &Stage{
		Name:         "trend-level",
		WarmupWindow: slowWindow,
		WarmupFactor: warmupFactor,
		Prepare: func(store *marketdata.Store) error {
			return attachSMA(store, slowWindow)
		},
		Predicate: func(s *marketdata.Series, pos int) bool {
			sma := s.Value(col, pos)
			return !math.IsNaN(sma) && s.Bar(pos).Close > sma
		},
		logger: log,
	}
}

// NewBuyZoneStage keeps symbols whose slow moving average is rising and whose
// price sits above both moving averages:
//
//	angle > angleThreshold AND close > sma(fast) AND close > sma(slow)
//
// All three values must be defined; any undefined input fails the symbol.
func NewBuyZoneStage(fastWindow, slowWindow int, angleThreshold, warmupFactor float64, log *logger.Logger) *Stage {
	fastCol := smaColumn(fastWindow)
	slowCol := smaColumn(slowWindow)

	return &Stage{
		Name:         "buy-zone",
		WarmupWindow: slowWindow,
		WarmupFactor: warmupFactor,
		Prepare: func(store *marketdata.Store) error {
			if err := attachSMA(store, fastWindow); err != nil {
				return err
			}
			if err := attachSMA(store, slowWindow); err != nil {
				return err
			}
			return attachSlopeAngle(store, slowWindow)
		},
		Predicate: func(s *marketdata.Series, pos int) bool {
			angle := s.Value(angleColumn, pos)
			fast := s.Value(fastCol, pos)
			slow := s.Value(slowCol, pos)
			if math.IsNaN(angle) || math.IsNaN(fast) || math.IsNaN(slow) {
				return false
			}
			close := s.Bar(pos).Close
			return angle > angleThreshold && close > fast && close > slow
		},
		logger: log,
	}
}

func attachVolumeMean(store *marketdata.Store, window int) error {
	col := volMeanColumn(window)
	for _, sym := range store.Symbols() {
		s, _ := store.Get(sym)
		if s.HasColumn(col) {
			continue
		}
		if err := s.SetColumn(col, indicators.RollingMean(s.Volumes(), window)); err != nil {
			return err
		}
	}
	return nil
}

func attachSMA(store *marketdata.Store, window int) error {
	col := smaColumn(window)
	for _, sym := range store.Symbols() {
		s, _ := store.Get(sym)
		if s.HasColumn(col) {
			continue
		}
		if err := s.SetColumn(col, indicators.RollingMean(s.Closes(), window)); err != nil {
			return err
		}
	}
	return nil
}

// attachSlopeAngle derives the angle column from the slow moving average.
func attachSlopeAngle(store *marketdata.Store, slowWindow int) error {
	col := smaColumn(slowWindow)
	for _, sym := range store.Symbols() {
		s, _ := store.Get(sym)
		if s.HasColumn(angleColumn) {
			continue
		}
		if err := attachSMA(store, slowWindow); err != nil {
			return err
		}
		ma := make([]float64, s.Len())
		for i := 0; i < s.Len(); i++ {
			ma[i] = s.Value(col, i)
		}
		if err := s.SetColumn(angleColumn, indicators.SlopeAngle(ma, s.Closes())); err != nil {
			return err
		}
	}
	return nil
}
