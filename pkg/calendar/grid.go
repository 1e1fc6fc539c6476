package calendar

import "time"

// GridCells is the number of cells in a month grid: six weeks of seven days.
const GridCells = 42

// Cell is one square of the month grid.
type Cell struct {
	Key DayKey `json:"key"`
	Day int    `json:"day"`
	// Dim marks days that belong to the previous or the next month.
	Dim bool `json:"dim"`
}

// MonthLabel renders the month as "January 2006".
func MonthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(labelLayout)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartDay returns the weekday of the first of the month.
func StartDay(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// BuildMonthGrid lays the month out Sunday-first over exactly 42 cells. The
// leading cells hold the tail of the previous month and the trailing cells
// the head of the next month, both dimmed.
func BuildMonthGrid(year int, month time.Month) []Cell {
	first := NewMonthKey(year, month)
	prev := first.Shift(-1)
	next := first.Shift(1)

	startDow := int(StartDay(first.Year(), first.Month()))
	daysInMonth := first.DaysIn()
	prevDays := prev.DaysIn()

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		dayNum := i - startDow + 1
		switch {
		case dayNum <= 0:
			d := prevDays + dayNum
			cells = append(cells, Cell{Key: prev.Day(d), Day: d, Dim: true})
		case dayNum > daysInMonth:
			d := dayNum - daysInMonth
			cells = append(cells, Cell{Key: next.Day(d), Day: d, Dim: true})
		default:
			cells = append(cells, Cell{Key: first.Day(dayNum), Day: dayNum})
		}
	}
	return cells
}

// Grid is BuildMonthGrid for a month key.
func (k MonthKey) Grid() []Cell {
	return BuildMonthGrid(k.Year(), k.Month())
}
