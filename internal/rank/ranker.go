package rank

import (
	"sort"
	"time"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/internal/screen"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Entry is one ranked symbol with its relative-strength ratio.
type Entry struct {
	Symbol string
	Ratio  float64
}

// Row is one month-end's ranked watchlist, highest ratio first.
type Row struct {
	Date    time.Time
	Entries []Entry
}

// Ranker scores the final candidate set against a benchmark index. Unlike
// the filter stages it re-derives a score per symbol and truncates by rank
// rather than applying a fixed predicate.
type Ranker struct {
	benchmark      *marketdata.Series
	lookbackMonths int
	topN           int
	logger         *logger.Logger
}

// NewRanker creates a relative-strength ranker.
func NewRanker(benchmark *marketdata.Series, lookbackMonths, topN int, log *logger.Logger) *Ranker {
	return &Ranker{
		benchmark:      benchmark,
		lookbackMonths: lookbackMonths,
		topN:           topN,
		logger:         log,
	}
}

// Rank produces one output row per input row.
//
// A row comes out empty when the input row is empty, when the benchmark has
// no record on either end of the lookback window, or when the benchmark
// return is exactly zero (the ratio would be degenerate). Individual symbols
// missing a record on either date are dropped silently. Survivors need
// ratio >= 1 and are sorted by ratio descending, symbol ascending on ties,
// truncated to the top N.
func (r *Ranker) Rank(store *marketdata.Store, input *screen.CandidateSet) []Row {
	out := make([]Row, 0, input.Len())
	ranked, skipped := 0, 0

	for _, in := range input.Rows() {
		row := Row{Date: in.Date}

		entries, ok := r.rankDate(store, in)
		if ok {
			row.Entries = entries
			ranked++
		} else {
			skipped++
		}
		out = append(out, row)
	}

	r.logger.WithFields(map[string]interface{}{
		"lookback_months": r.lookbackMonths,
		"top_n":           r.topN,
		"month_ends":      len(out),
		"ranked":          ranked,
		"skipped":         skipped,
	}).Info("Relative strength ranking completed")

	return out
}

// rankDate ranks one month-end. ok is false when the whole date is skipped.
func (r *Ranker) rankDate(store *marketdata.Store, in screen.Row) ([]Entry, bool) {
	if len(in.Symbols) == 0 {
		return nil, false
	}

	lookback := monthsBack(in.Date, r.lookbackMonths)

	benchReturn, ok := seriesReturn(r.benchmark, in.Date, lookback)
	if !ok {
		r.logger.WithFields(map[string]interface{}{
			"date":     marketdata.DateKey(in.Date),
			"lookback": marketdata.DateKey(lookback),
		}).Debug("Benchmark record missing, skipping date")
		return nil, false
	}
	if benchReturn == 0 {
		// Degenerate ratio; the whole date is skipped.
		return nil, false
	}

	entries := make([]Entry, 0, len(in.Symbols))
	for _, sym := range in.Symbols {
		s, ok := store.Get(sym)
		if !ok {
			continue
		}
		stockReturn, ok := seriesReturn(s, in.Date, lookback)
		if !ok {
			continue
		}

		ratio := stockReturn / benchReturn
		if ratio >= 1 {
			entries = append(entries, Entry{Symbol: sym, Ratio: ratio})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ratio != entries[j].Ratio {
			return entries[i].Ratio > entries[j].Ratio
		}
		return entries[i].Symbol < entries[j].Symbol
	})

	if len(entries) > r.topN {
		entries = entries[:r.topN]
	}
	return entries, true
}

// seriesReturn computes the simple return between two exact calendar dates.
// ok is false when either date has no record.
func seriesReturn(s *marketdata.Series, date, lookback time.Time) (float64, bool) {
	current, ok := s.At(date)
	if !ok {
		return 0, false
	}
	past, ok := s.At(lookback)
	if !ok {
		return 0, false
	}
	return (current.Close - past.Close) / past.Close, true
}
