package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/internal/screen"
	"github.com/rdhawan/nifty-screener/pkg/config"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

var (
	rankDate     = time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	lookbackDate = time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
)

// twoPoint builds a series with bars only on the lookback date and the rank
// date; exact-date matching needs nothing in between.
func twoPoint(t *testing.T, symbol string, pastClose, currentClose float64) *marketdata.Series {
	t.Helper()
	s, err := marketdata.NewSeries(symbol, []marketdata.Bar{
		{Date: lookbackDate, Close: pastClose, Volume: 1000},
		{Date: rankDate, Close: currentClose, Volume: 1000},
	})
	require.NoError(t, err)
	return s
}

func inputRow(symbols ...string) *screen.CandidateSet {
	cs := screen.NewCandidateSet()
	cs.Append(rankDate, symbols)
	return cs
}

func TestRankerRatios(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "STRONG", 100, 120)) // return 0.20, ratio 2.00
	store.Add(twoPoint(t, "EQUAL", 100, 110))  // return 0.10, ratio 1.00
	store.Add(twoPoint(t, "WEAK", 100, 105))   // return 0.05, ratio 0.50

	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 110) // return 0.10

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow("EQUAL", "STRONG", "WEAK"))

	require.Len(t, rows, 1)
	assert.Equal(t, rankDate, rows[0].Date)
	require.Len(t, rows[0].Entries, 2)

	// WEAK's ratio is below 1 and is dropped; survivors sort by ratio
	// descending.
	assert.Equal(t, "STRONG", rows[0].Entries[0].Symbol)
	assert.InDelta(t, 2.0, rows[0].Entries[0].Ratio, 1e-9)
	assert.Equal(t, "EQUAL", rows[0].Entries[1].Symbol)
	assert.InDelta(t, 1.0, rows[0].Entries[1].Ratio, 1e-9)
}

func TestRankerTopN(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "A", 100, 130))
	store.Add(twoPoint(t, "B", 100, 125))
	store.Add(twoPoint(t, "C", 100, 120))

	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 110)

	r := NewRanker(benchmark, 1, 2, testLogger())
	rows := r.Rank(store, inputRow("A", "B", "C"))

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Entries, 2)
	assert.Equal(t, "A", rows[0].Entries[0].Symbol)
	assert.Equal(t, "B", rows[0].Entries[1].Symbol)
}

func TestRankerTieBreaksBySymbol(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "ZETA", 100, 120))
	store.Add(twoPoint(t, "ALPHA", 100, 120))

	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 110)

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow("ZETA", "ALPHA"))

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Entries, 2)
	assert.Equal(t, "ALPHA", rows[0].Entries[0].Symbol)
	assert.Equal(t, "ZETA", rows[0].Entries[1].Symbol)
}

func TestRankerZeroBenchmarkReturnSkipsDate(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "STRONG", 100, 120))

	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 100)

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow("STRONG"))

	// The row is still emitted, just with no entries.
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Entries)
}

func TestRankerMissingBenchmarkRecordSkipsDate(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "STRONG", 100, 120))

	// The benchmark has no bar on the lookback date.
	benchmark, err := marketdata.NewSeries("NIFTY500_INDEX", []marketdata.Bar{
		{Date: rankDate, Close: 110, Volume: 0},
	})
	require.NoError(t, err)

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow("STRONG"))

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Entries)
}

func TestRankerDropsSymbolWithoutLookbackRecord(t *testing.T) {
	store := marketdata.NewStore()
	store.Add(twoPoint(t, "STRONG", 100, 120))

	gapped, err := marketdata.NewSeries("GAPPED", []marketdata.Bar{
		{Date: rankDate, Close: 120, Volume: 1000},
	})
	require.NoError(t, err)
	store.Add(gapped)

	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 110)

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow("GAPPED", "STRONG"))

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Entries, 1)
	assert.Equal(t, "STRONG", rows[0].Entries[0].Symbol)
}

func TestRankerEmptyInputRow(t *testing.T) {
	store := marketdata.NewStore()
	benchmark := twoPoint(t, "NIFTY500_INDEX", 100, 110)

	r := NewRanker(benchmark, 1, 30, testLogger())
	rows := r.Rank(store, inputRow())

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Entries)
}
