package screen

import (
	"fmt"
	"sort"
	"time"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

// Predicate decides whether a symbol survives a stage at one bar position.
// It sees only present data; the stage machinery has already resolved the
// month-end date to an exact bar. A predicate reading an undefined metric
// (NaN) must return false.
type Predicate func(s *marketdata.Series, pos int) bool

// Stage is one cascading filter pass. It consumes the prior stage's
// candidate set, evaluates its predicate per symbol on each month-end, and
// emits a narrowed candidate set. Output for a date is always a subset of
// the input for that date.
type Stage struct {
	Name string

	// WarmupWindow restricts the stage to month-ends after enough history
	// exists for its longest indicator. Zero disables the restriction.
	// The cutoff is earliest series start + WarmupWindow*WarmupFactor
	// calendar days, a deliberately loose trading-day approximation.
	WarmupWindow int
	WarmupFactor float64

	// Prepare attaches the derived columns the predicate needs.
	Prepare func(store *marketdata.Store) error

	Predicate Predicate

	logger *logger.Logger
}

// DefaultWarmupFactor approximates trading days from calendar days:
// 200 trading days of history is assumed reachable within 300 calendar days.
const DefaultWarmupFactor = 1.5

// Run executes the stage over the month-end calendar.
// Month-ends before the warm-up cutoff are omitted from the output entirely,
// matching how downstream files only begin once the stage's indicators can
// be defined at all.
func (sg *Stage) Run(store *marketdata.Store, monthEnds []time.Time, input *CandidateSet) (*CandidateSet, error) {
	if sg.Prepare != nil {
		if err := sg.Prepare(store); err != nil {
			return nil, fmt.Errorf("stage %s: prepare: %w", sg.Name, err)
		}
	}

	cutoff, err := sg.warmupCutoff(store)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", sg.Name, err)
	}

	out := NewCandidateSet()
	totalIn, totalOut := 0, 0

	for _, date := range monthEnds {
		if sg.WarmupWindow > 0 && date.Before(cutoff) {
			continue
		}

		candidates, ok := input.Lookup(date)
		if !ok || len(candidates) == 0 {
			// Nothing survived upstream; no predicate evaluation.
			out.Append(date, nil)
			continue
		}
		totalIn += len(candidates)

		var passed []string
		for _, sym := range candidates {
			s, ok := store.Get(sym)
			if !ok {
				continue // symbol has no loaded history, soft exclusion
			}
			pos, ok := s.Pos(date)
			if !ok {
				continue // no record on the exact month-end date
			}
			if sg.Predicate(s, pos) {
				passed = append(passed, sym)
			}
		}

		sort.Strings(passed)
		totalOut += len(passed)
		out.Append(date, passed)
	}

	sg.logger.WithFields(map[string]interface{}{
		"stage":       sg.Name,
		"month_ends":  out.Len(),
		"total_input": totalIn,
		"total_pass":  totalOut,
	}).Info("Stage completed")

	return out, nil
}

// warmupCutoff computes the first month-end date this stage may evaluate.
func (sg *Stage) warmupCutoff(store *marketdata.Store) (time.Time, error) {
	if sg.WarmupWindow <= 0 {
		return time.Time{}, nil
	}

	earliest, ok := store.EarliestStart()
	if !ok {
		return time.Time{}, fmt.Errorf("store has no series")
	}

	factor := sg.WarmupFactor
	if factor <= 0 {
		factor = DefaultWarmupFactor
	}

	span := time.Duration(float64(sg.WarmupWindow) * factor * 24 * float64(time.Hour))
	return earliest.Add(span), nil
}
