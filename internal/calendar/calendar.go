// Package calendar holds the date math behind the task date-range picker:
// inclusive day counting, range highlighting, month grids, and the
// start-then-finish picking chain.
package calendar

import (
	"math"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// DaysTaken returns the inclusive day count between two YYYY-MM-DD dates as
// a decimal string, or "-" when either side is empty, "-", or unparseable.
// The order of the arguments does not matter.
func DaysTaken(start, end string) string {
	d1, ok1 := parseDate(start)
	d2, ok2 := parseDate(end)
	if !ok1 || !ok2 {
		return "-"
	}
	diff := d2.Sub(d1)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours()/24)) + 1
	return strconv.Itoa(days)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" || s == "-" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RangeStatus classifies a grid day relative to the picked pair of dates.
type RangeStatus int

const (
	StatusNone RangeStatus = iota
	StatusSelected
	StatusRelated
	StatusInRange
)

// Classify returns the highlight for a day given the currently selected
// date and the related endpoint (start when picking finish, finish when
// picking start). Days strictly between the two endpoints are in-range.
func Classify(day, selected, related string) RangeStatus {
	if day == selected && selected != "" {
		return StatusSelected
	}
	rel, relOK := parseDate(related)
	if !relOK {
		return StatusNone
	}
	d, ok := parseDate(day)
	if !ok {
		return StatusNone
	}
	if d.Equal(rel) {
		return StatusRelated
	}
	sel, selOK := parseDate(selected)
	if !selOK || sel.Equal(rel) {
		return StatusNone
	}
	lo, hi := sel, rel
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if d.After(lo) && d.Before(hi) {
		return StatusInRange
	}
	return StatusNone
}

// MonthGrid describes one month laid out on a Sunday-first calendar grid.
type MonthGrid struct {
	Year         int
	Month        time.Month
	LeadingBlank int
	Days         int
}

// GridFor computes the grid layout for the given month.
func GridFor(year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthGrid{
		Year:         year,
		Month:        month,
		LeadingBlank: int(first.Weekday()),
		Days:         first.AddDate(0, 1, -1).Day(),
	}
}

// YearWindow returns the 24-year selection window centered twelve years
// back from the displayed year.
func YearWindow(displayed int) []int {
	years := make([]int, 24)
	for i := range years {
		years[i] = displayed - 12 + i
	}
	return years
}
