package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthEnds(t *testing.T) {
	st := NewStore()

	// A trades through Jan 30; B has the later Jan session and all of Feb.
	a, err := NewSeries("A", testBars(day(2024, 1, 2), day(2024, 1, 30)))
	require.NoError(t, err)
	b, err := NewSeries("B", testBars(day(2024, 1, 31), day(2024, 2, 1), day(2024, 2, 29)))
	require.NoError(t, err)
	st.Add(a)
	st.Add(b)

	ends := MonthEnds(st)
	assert.Equal(t, []time.Time{day(2024, 1, 31), day(2024, 2, 29)}, ends)
}

func TestMonthEndsUnionAcrossSymbols(t *testing.T) {
	st := NewStore()

	// Neither symbol alone covers both months; the calendar is the union.
	a, err := NewSeries("A", testBars(day(2024, 1, 15)))
	require.NoError(t, err)
	b, err := NewSeries("B", testBars(day(2024, 2, 10)))
	require.NoError(t, err)
	st.Add(a)
	st.Add(b)

	ends := MonthEnds(st)
	assert.Equal(t, []time.Time{day(2024, 1, 15), day(2024, 2, 10)}, ends)
}

func TestMonthEndsEmptyStore(t *testing.T) {
	assert.Empty(t, MonthEnds(NewStore()))
}
