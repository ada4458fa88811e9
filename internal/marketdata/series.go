package marketdata

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Bar is a single daily OHLCV record.
type Bar struct {
	Date   time.Time // trading day, midnight UTC
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series holds the full daily history for one symbol, ordered by date.
// Bars are immutable after construction; derived per-bar columns (rolling
// metrics) may be attached afterwards, aligned by bar position.
type Series struct {
	symbol  string
	bars    []Bar
	byDate  map[string]int
	columns map[string][]float64
}

// DateKey normalizes a timestamp to its calendar-day key.
// Provider timestamps can carry a time component; exact-date matching
// throughout the pipeline is calendar-day equality, so everything keys
// on this.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// NewSeries builds a Series from bars ordered strictly ascending by date.
func NewSeries(symbol string, bars []Bar) (*Series, error) {
	byDate := make(map[string]int, len(bars))
	for i, b := range bars {
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return nil, fmt.Errorf("series %s: bars not strictly increasing at %s", symbol, DateKey(b.Date))
		}
		byDate[DateKey(b.Date)] = i
	}

	return &Series{
		symbol:  symbol,
		bars:    bars,
		byDate:  byDate,
		columns: make(map[string][]float64),
	}, nil
}

// Symbol returns the series' symbol.
func (s *Series) Symbol() string {
	return s.symbol
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at position i.
func (s *Series) Bar(i int) Bar {
	return s.bars[i]
}

// Start returns the first trading date. Zero time for an empty series.
func (s *Series) Start() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[0].Date
}

// End returns the last trading date. Zero time for an empty series.
func (s *Series) End() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[len(s.bars)-1].Date
}

// Pos returns the bar position whose calendar date equals the given date.
func (s *Series) Pos(date time.Time) (int, bool) {
	i, ok := s.byDate[DateKey(date)]
	return i, ok
}

// At returns the bar whose calendar date equals the given date.
func (s *Series) At(date time.Time) (Bar, bool) {
	i, ok := s.Pos(date)
	if !ok {
		return Bar{}, false
	}
	return s.bars[i], true
}

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volume column as floats.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// SetColumn attaches a derived per-bar column. The column must be aligned
// with the bars, one value per bar; undefined positions hold NaN.
func (s *Series) SetColumn(name string, values []float64) error {
	if len(values) != len(s.bars) {
		return fmt.Errorf("series %s: column %s has %d values for %d bars", s.symbol, name, len(values), len(s.bars))
	}
	s.columns[name] = values
	return nil
}

// HasColumn reports whether a derived column is attached.
func (s *Series) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

// Value returns the derived column value at a bar position.
// Missing columns and out-of-range positions read as NaN, so predicates
// evaluating them fail rather than seeing a made-up zero.
func (s *Series) Value(name string, pos int) float64 {
	col, ok := s.columns[name]
	if !ok || pos < 0 || pos >= len(col) {
		return math.NaN()
	}
	return col[pos]
}
