package marketdata

import (
	"sort"
	"time"
)

// Store is the in-memory repository of all loaded symbol histories.
// It is built once at load time and passed by reference into each stage;
// stages never mutate it beyond attaching derived columns.
type Store struct {
	series map[string]*Series
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{series: make(map[string]*Series)}
}

// Add inserts a series, replacing any existing series for the symbol.
func (st *Store) Add(s *Series) {
	st.series[s.Symbol()] = s
}

// Get returns the series for a symbol.
func (st *Store) Get(symbol string) (*Series, bool) {
	s, ok := st.series[symbol]
	return s, ok
}

// Len returns the number of symbols.
func (st *Store) Len() int {
	return len(st.series)
}

// Symbols returns all symbols in ascending order.
func (st *Store) Symbols() []string {
	out := make([]string, 0, len(st.series))
	for sym := range st.series {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// EarliestStart returns the earliest first trading date across all series.
// ok is false when the store is empty.
func (st *Store) EarliestStart() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, s := range st.series {
		if s.Len() == 0 {
			continue
		}
		if !found || s.Start().Before(earliest) {
			earliest = s.Start()
			found = true
		}
	}
	return earliest, found
}
