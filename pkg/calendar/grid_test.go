package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthGrid(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		startDow int
		days     int
		firstKey DayKey
		lastKey  DayKey
	}{
		{
			name:     "leap february",
			year:     2024,
			month:    time.February,
			startDow: 4, // Thursday
			days:     29,
			firstKey: "2024-01-28",
			lastKey:  "2024-03-09",
		},
		{
			name:     "non leap february",
			year:     2023,
			month:    time.February,
			startDow: 3,
			days:     28,
			firstKey: "2023-01-29",
			lastKey:  "2023-03-11",
		},
		{
			name:     "starts on sunday",
			year:     2026,
			month:    time.March,
			startDow: 0,
			days:     31,
			firstKey: "2026-03-01",
			lastKey:  "2026-04-11",
		},
		{
			name:     "thirty one days starting saturday uses all six rows",
			year:     2025,
			month:    time.March,
			startDow: 6,
			days:     31,
			firstKey: "2025-02-23",
			lastKey:  "2025-04-05",
		},
		{
			name:     "january crosses into previous december",
			year:     2026,
			month:    time.January,
			startDow: 4,
			days:     31,
			firstKey: "2025-12-28",
			lastKey:  "2026-02-07",
		},
		{
			name:     "december crosses into next january",
			year:     2025,
			month:    time.December,
			startDow: 1,
			days:     31,
			firstKey: "2025-11-30",
			lastKey:  "2026-01-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := BuildMonthGrid(tt.year, tt.month)
			require.Len(t, cells, GridCells)
			assert.Equal(t, tt.firstKey, cells[0].Key)
			assert.Equal(t, tt.lastKey, cells[GridCells-1].Key)

			for i := 0; i < tt.startDow; i++ {
				assert.True(t, cells[i].Dim, "leading cell %d should be dim", i)
			}

			run := 0
			for i, c := range cells {
				if c.Dim {
					continue
				}
				assert.Equal(t, tt.startDow+run, i, "in-month cells must be contiguous")
				assert.Equal(t, run+1, c.Day)
				run++
			}
			assert.Equal(t, tt.days, run)

			for i := tt.startDow + tt.days; i < GridCells; i++ {
				assert.True(t, cells[i].Dim, "trailing cell %d should be dim", i)
				assert.Equal(t, i-tt.startDow-tt.days+1, cells[i].Day)
			}
		})
	}
}

func TestBuildMonthGridLeadingDaysCountDown(t *testing.T) {
	cells := BuildMonthGrid(2024, time.February)
	// January 2024 has 31 days; February starts on Thursday.
	assert.Equal(t, []int{28, 29, 30, 31}, []int{cells[0].Day, cells[1].Day, cells[2].Day, cells[3].Day})
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 30, DaysIn(2026, time.April))
	assert.Equal(t, 31, DaysIn(2026, time.December))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "March 2026", MonthLabel(2026, time.March))
	assert.Equal(t, "December 2025", MonthKey("2025-12").Label())
}
