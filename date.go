package weekview

import (
	"fmt"
	"time"
)

// Date is a civil calendar date without a wall clock or time zone. It is the
// unit of horizontal navigation: all day arithmetic happens in whole days so
// scrolling across DST transitions cannot drift.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in ISO 8601 form ("2006-01-02").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// epochDays returns the number of days since the Unix epoch. Using UTC keeps
// the conversion a pure function of the civil date.
func (d Date) epochDays() int {
	return int(d.Time(time.UTC).Unix() / 86400)
}

func dateFromEpochDays(days int) Date {
	return DateOf(time.Unix(int64(days)*86400, 0).UTC())
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return dateFromEpochDays(d.epochDays() + n)
}

// DaysUntil returns the number of days from d to other. Negative if other is
// before d.
func (d Date) DaysUntil(other Date) int {
	return other.epochDays() - d.epochDays()
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is after other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func minDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

func maxDateOf(a, b Date) Date {
	if a.Before(b) {
		return b
	}
	return a
}
