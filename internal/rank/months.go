package rank

import "time"

// monthsBack subtracts whole calendar months, clamping to the last day of
// the target month: one month back from Mar 31 is Feb 28 (or 29), never an
// overflow into March. time.AddDate normalizes overflow instead, which is
// the wrong behavior for lookback anchored at month-ends.
func monthsBack(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	m := int(month) - months
	for m < 1 {
		m += 12
		year--
	}
	for m > 12 {
		m -= 12
		year++
	}

	if last := daysIn(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in a month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
