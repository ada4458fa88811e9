package marketdata

import (
	"sort"
	"time"
)

// MonthEnds derives the canonical month-end trading calendar from the store:
// the union of every symbol's trading dates, grouped by calendar month, with
// the latest observed date kept per month. Months with no trading dates
// anywhere in the universe do not appear. The result is independent of symbol
// iteration order.
func MonthEnds(store *Store) []time.Time {
	type monthKey struct {
		year  int
		month time.Month
	}

	latest := make(map[monthKey]time.Time)
	for _, sym := range store.Symbols() {
		s, _ := store.Get(sym)
		for i := 0; i < s.Len(); i++ {
			d := Day(s.Bar(i).Date)
			k := monthKey{d.Year(), d.Month()}
			if cur, ok := latest[k]; !ok || d.After(cur) {
				latest[k] = d
			}
		}
	}

	out := make([]time.Time, 0, len(latest))
	for _, d := range latest {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
