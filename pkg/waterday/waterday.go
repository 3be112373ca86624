// Package waterday converts calendar dates into day-of-water-year indices.
//
// A water year is a 12-month streamflow accounting period that begins on a
// configurable day of the (non-leap) calendar year rather than January 1.
// The index is 1-based and wraps across the calendar-year boundary.
package waterday

import (
	"errors"
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// DefaultStart is October 1 in a non-leap year, the USGS water year start.
const DefaultStart = 274

// ErrInvalidStart is returned when the configured first day of the water year
// falls outside a non-leap calendar year.
var ErrInvalidStart = errors.New("invalid first day of water year")

// leapDayOfYear is the day-of-year of February 29. Water years that start
// before it shift by one day in leap years.
const leapDayOfYear = 60

// ValidateStart checks that start is a usable day of a non-leap year.
func ValidateStart(start int) error {
	if start > 365 || start < 1 {
		return fmt.Errorf("%w: %d (must be between 1 and 365)", ErrInvalidStart, start)
	}
	return nil
}

// DayOfWaterYear returns the 1-based day of the water year for t, given the
// day of the (non-leap) year on which water years begin.
func DayOfWaterYear(t time.Time, start int) (int, error) {
	if err := ValidateStart(start); err != nil {
		return 0, err
	}
	y, m, d := t.Date()
	return dayOfWaterYear(julian.DayOfYearGregorian(y, int(m), d), julian.LeapYearGregorian(y), start), nil
}

func dayOfWaterYear(doy int, leap bool, start int) int {
	end := 365
	if leap {
		end = 366
	}
	if start < leapDayOfYear && leap {
		start++
	}
	if doy < start {
		return doy + (end - start)
	}
	return doy - (start - 1)
}

// Series maps every date in dates to its day of water year.
func Series(dates []time.Time, start int) ([]int, error) {
	if err := ValidateStart(start); err != nil {
		return nil, err
	}
	out := make([]int, len(dates))
	for i, t := range dates {
		y, m, d := t.Date()
		out[i] = dayOfWaterYear(julian.DayOfYearGregorian(y, int(m), d), julian.LeapYearGregorian(y), start)
	}
	return out, nil
}

// WaterYear returns the label of the water year containing t: the calendar
// year in which that water year ends. A water year starting on January 1
// is labelled with its own calendar year.
func WaterYear(t time.Time, start int) (int, error) {
	if err := ValidateStart(start); err != nil {
		return 0, err
	}
	y, m, d := t.Date()
	leap := julian.LeapYearGregorian(y)
	s := start
	if s < leapDayOfYear && leap {
		s++
	}
	if start == 1 || julian.DayOfYearGregorian(y, int(m), d) < s {
		return y, nil
	}
	return y + 1, nil
}
