package weekview

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Errors returned by configuration and navigation entry points. Rejected
// calls leave the prior state untouched.
var (
	ErrInvalidDateRange = errors.New("weekview: min date is after max date")
	ErrInvalidHourRange = errors.New("weekview: min hour is not before max hour")
	ErrHourOutOfRange   = errors.New("weekview: hour is outside the visible hour window")
)

// CalendarEvent is a caller-supplied event. Events are immutable once
// submitted; to change one, resubmit the full event set.
type CalendarEvent struct {
	// ID identifies the event across submissions. Events with an empty ID
	// are rejected through the diagnostics channel.
	ID string

	// Start and End are instants in the caller's local time. For all-day
	// events only their civil dates are used.
	Start time.Time
	End   time.Time

	Title  string
	AllDay bool

	// Payload is an opaque value handed back in interaction callbacks.
	Payload any

	// Style optionally overrides the theme's chip style for this event.
	Style *ChipStyle
}

// ChipStyle is the per-event rendering override.
type ChipStyle struct {
	Background tcell.Color
	Text       tcell.Color
}

// sameSchedule reports whether two events produce the same segments, i.e.
// whether a resubmission of b for a leaves layout untouched.
func (e CalendarEvent) sameSchedule(o CalendarEvent) bool {
	return e.ID == o.ID &&
		e.Start.Equal(o.Start) &&
		e.End.Equal(o.End) &&
		e.AllDay == o.AllDay &&
		e.Title == o.Title
}

// EventSource is the pull interface: it returns events overlapping the
// given date range (inclusive). It may be invoked while scrolling, so it
// should be fast; slow backends should instead listen on the load-more
// callback and push via Submit.
type EventSource func(start, end Date) []CalendarEvent

// LoadMoreFunc is notified when the reconciler needs events for a range it
// has not seen. The callee pushes data back through Submit.
type LoadMoreFunc func(start, end Date)

// EventClickFunc receives the clicked event and the rectangle (in screen
// cells) its chip occupied when clicked.
type EventClickFunc func(event CalendarEvent, x, y, width, height int)

// GridClickFunc receives a click on empty grid space resolved to the date
// and hour under the pointer.
type GridClickFunc func(date Date, hour float64)

// RangeChangeFunc is notified when the visible date range changes.
type RangeChangeFunc func(first, last Date)

// DiagnosticFunc receives non-fatal data problems, such as malformed events
// dropped from layout. It must not call back into the widget.
type DiagnosticFunc func(err error)
