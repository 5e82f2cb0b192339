package weekview

import (
	"fmt"
	"time"
)

// DaySegment is one day's worth of a (possibly multi-day) event. Start and
// End are fractions in [0,1] relative to the visible hour window; all-day
// segments carry no fractions and are laid out in the all-day strip.
type DaySegment struct {
	Date    Date
	Start   float64
	End     float64
	EventID string
	AllDay  bool

	// seq is the event's submission order, the deterministic tie-break for
	// layout.
	seq int

	// spanStart and spanDays describe the full event span, used to order
	// all-day rows.
	spanStart Date
	spanDays  int
}

// normalizeEvent converts one event into per-day segments, clipping timed
// segments to the [minHour, maxHour) window and splitting multi-day spans at
// local midnight. It is a pure function of its inputs; a malformed event
// yields an error and no segments.
func normalizeEvent(ev CalendarEvent, minHour, maxHour float64, seq int) ([]DaySegment, error) {
	if ev.ID == "" {
		return nil, fmt.Errorf("event with empty id (%q)", ev.Title)
	}
	if ev.End.Before(ev.Start) {
		return nil, fmt.Errorf("event %q ends before it starts", ev.ID)
	}

	startDate := DateOf(ev.Start)
	endDate := DateOf(ev.End)

	if ev.AllDay {
		// An end at exact midnight after a non-zero span is exclusive, the
		// common convention for date-valued ranges.
		if endDate.After(startDate) && hourOfDay(ev.End) == 0 {
			endDate = endDate.AddDays(-1)
		}
		span := startDate.DaysUntil(endDate) + 1
		segments := make([]DaySegment, 0, span)
		for d := startDate; !d.After(endDate); d = d.AddDays(1) {
			segments = append(segments, DaySegment{
				Date:      d,
				EventID:   ev.ID,
				AllDay:    true,
				seq:       seq,
				spanStart: startDate,
				spanDays:  span,
			})
		}
		return segments, nil
	}

	window := maxHour - minHour
	span := startDate.DaysUntil(endDate) + 1
	segments := make([]DaySegment, 0, span)
	for d := startDate; !d.After(endDate); d = d.AddDays(1) {
		// Split at midnight: the first day runs to the end of the window,
		// the last day starts at the beginning of it, intermediate days
		// span it fully.
		from, to := minHour, maxHour
		if d == startDate {
			from = hourOfDay(ev.Start)
		}
		if d == endDate {
			to = hourOfDay(ev.End)
		}

		from = max(from, minHour)
		to = min(to, maxHour)
		if from > to {
			// Entirely outside the visible hour window; not an error.
			continue
		}
		if from == to {
			// A zero-length interval survives only for a genuinely instant
			// event inside the window, so layout can floor it to a visible
			// chip. Spans clipped empty at a window or midnight boundary
			// drop.
			if !ev.Start.Equal(ev.End) || from < minHour || from >= maxHour {
				continue
			}
		}

		segments = append(segments, DaySegment{
			Date:      d,
			Start:     (from - minHour) / window,
			End:       (to - minHour) / window,
			EventID:   ev.ID,
			seq:       seq,
			spanStart: startDate,
			spanDays:  span,
		})
	}
	return segments, nil
}

func hourOfDay(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h) + float64(m)/60 + float64(s)/3600
}
