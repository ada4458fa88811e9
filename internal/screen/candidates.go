package screen

import (
	"sort"
	"time"

	"github.com/rdhawan/nifty-screener/internal/marketdata"
)

// Row is one month-end's surviving symbol list.
type Row struct {
	Date    time.Time
	Symbols []string
}

// Count returns the number of surviving symbols.
func (r Row) Count() int {
	return len(r.Symbols)
}

// CandidateSet maps month-end dates to surviving symbol lists. Rows are
// ordered ascending by date; each stage produces one and hands it to the
// next, write-once.
type CandidateSet struct {
	rows   []Row
	byDate map[string]int
}

// NewCandidateSet creates an empty candidate set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{byDate: make(map[string]int)}
}

// Append adds a row. Dates must arrive in ascending order, which every
// producer in the pipeline guarantees by iterating the month-end calendar.
func (cs *CandidateSet) Append(date time.Time, symbols []string) {
	cs.byDate[marketdata.DateKey(date)] = len(cs.rows)
	cs.rows = append(cs.rows, Row{Date: marketdata.Day(date), Symbols: symbols})
}

// Rows returns all rows in date order.
func (cs *CandidateSet) Rows() []Row {
	return cs.rows
}

// Len returns the number of rows.
func (cs *CandidateSet) Len() int {
	return len(cs.rows)
}

// Lookup returns the symbol list for a date.
func (cs *CandidateSet) Lookup(date time.Time) ([]string, bool) {
	i, ok := cs.byDate[marketdata.DateKey(date)]
	if !ok {
		return nil, false
	}
	return cs.rows[i].Symbols, true
}

// Universe builds the stage-zero candidate set: the full symbol list,
// sorted ascending, attached to every month-end date.
func Universe(symbols []string, monthEnds []time.Time) *CandidateSet {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	cs := NewCandidateSet()
	for _, date := range monthEnds {
		row := make([]string, len(sorted))
		copy(row, sorted)
		cs.Append(date, row)
	}
	return cs
}
