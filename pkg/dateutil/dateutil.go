package dateutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CalendarDate is a month/day pair within an implied year. The zero value
// means "before the year began" and is what day 0 resolves to.
type CalendarDate struct {
	Month time.Month `yaml:"month" json:"month"`
	Day   int        `yaml:"day" json:"day"`
}

// IsBeforeYear reports whether the date is the day-0 sentinel.
func (cd CalendarDate) IsBeforeYear() bool {
	return cd.Month == 0 && cd.Day == 0
}

// In returns the date as a time.Time in the given year (UTC).
// The day-0 sentinel maps to December 31 of the previous year.
func (cd CalendarDate) In(year int) time.Time {
	if cd.IsBeforeYear() {
		return time.Date(year, 1, 0, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, cd.Month, cd.Day, 0, 0, 0, 0, time.UTC)
}

func (cd CalendarDate) String() string {
	if cd.IsBeforeYear() {
		return "before-year"
	}
	return fmt.Sprintf("%02d-%02d", int(cd.Month), cd.Day)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// ValidateDate checks that month/day is a real calendar date in year.
func ValidateDate(month time.Month, day, year int) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("invalid month %d", int(month))
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Month() != month {
		return fmt.Errorf("invalid day %d for %s %d", day, month, year)
	}
	return nil
}

// DayOfYear returns the 1-based ordinal of month/day in year (Jan 1 = 1).
func DayOfYear(month time.Month, day, year int) int {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).YearDay()
}

// PortionOfYear converts a calendar date to a fraction of the year.
// Jan 1 is 1/DaysInYear and Dec 31 is exactly 1.
func PortionOfYear(month time.Month, day, year int) decimal.Decimal {
	doy := decimal.NewFromInt(int64(DayOfYear(month, day, year)))
	return doy.Div(decimal.NewFromInt(int64(DaysInYear(year))))
}

// DayFromPortion converts a fraction of the year back to a day ordinal,
// rounding to the nearest day. A portion of 0 yields day 0; any positive
// portion yields at least day 1.
func DayFromPortion(portion decimal.Decimal, year int) int {
	if portion.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	days := int(portion.Mul(decimal.NewFromInt(int64(DaysInYear(year)))).Round(0).IntPart())
	if days < 1 {
		return 1
	}
	if last := DaysInYear(year); days > last {
		return last
	}
	return days
}

// DateFromDayOfYear converts a day ordinal to a calendar date.
// Day 0 (or below) is the before-year sentinel; days past the end clamp to Dec 31.
func DateFromDayOfYear(day, year int) CalendarDate {
	if day <= 0 {
		return CalendarDate{}
	}
	if last := DaysInYear(year); day > last {
		day = last
	}
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	return CalendarDate{Month: t.Month(), Day: t.Day()}
}

// DateFromPortion is DateFromDayOfYear(DayFromPortion(portion, year), year).
// Round trips with PortionOfYear for every valid date; portions that are
// not produced by PortionOfYear may land one day either side after rounding.
func DateFromPortion(portion decimal.Decimal, year int) CalendarDate {
	return DateFromDayOfYear(DayFromPortion(portion, year), year)
}

// BeginningOfYear returns January 1 of year (UTC)
func BeginningOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns December 31 of year (UTC)
func EndOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole days from a to b (negative if b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
