package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthsBack(t *testing.T) {
	d := func(y int, m time.Month, dd int) time.Time {
		return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		from   time.Time
		months int
		want   time.Time
	}{
		{
			name:   "mid month",
			from:   d(2024, 5, 15),
			months: 1,
			want:   d(2024, 4, 15),
		},
		{
			name:   "clamps to shorter month",
			from:   d(2023, 3, 31),
			months: 1,
			want:   d(2023, 2, 28),
		},
		{
			name:   "clamps to leap february",
			from:   d(2024, 3, 31),
			months: 1,
			want:   d(2024, 2, 29),
		},
		{
			name:   "may 31 back one month",
			from:   d(2024, 5, 31),
			months: 1,
			want:   d(2024, 4, 30),
		},
		{
			name:   "crosses year boundary",
			from:   d(2024, 1, 31),
			months: 1,
			want:   d(2023, 12, 31),
		},
		{
			name:   "multiple years",
			from:   d(2024, 2, 29),
			months: 24,
			want:   d(2022, 2, 28),
		},
		{
			name:   "twelve months",
			from:   d(2024, 6, 30),
			months: 12,
			want:   d(2023, 6, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monthsBack(tt.from, tt.months))
		})
	}
}
