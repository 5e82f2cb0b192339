package weekview

import "sort"

// LayoutSlot is a segment's resolved column assignment for one date. Two
// slots whose [Start, End) fractions overlap never share a column, and all
// slots in the same transitive overlap group agree on ColumnCount.
type LayoutSlot struct {
	Segment DaySegment

	// Column is the slot's column index within its group.
	Column int

	// ColumnCount is the number of columns in the slot's group: the maximum
	// number of mutually overlapping segments in it.
	ColumnCount int

	// Group identifies the connected overlap component, numbered from zero
	// in start order within the day.
	Group int
}

// layoutDay partitions one day's timed segments into non-overlapping
// columns. Touching boundaries (one segment ending exactly where the next
// starts) do not count as overlap. minDuration is the visual floor, in
// window fractions, applied to instant events so they stay visible and
// clickable. layoutDay never fails; out-of-range fractions are clamped.
func layoutDay(segments []DaySegment, minDuration float64) []LayoutSlot {
	timed := make([]DaySegment, 0, len(segments))
	for _, seg := range segments {
		if seg.AllDay {
			continue
		}
		seg.Start = clampFraction(seg.Start)
		seg.End = clampFraction(seg.End)
		if seg.End-seg.Start < minDuration {
			seg.End = seg.Start + minDuration
			if seg.End > 1 {
				seg.Start, seg.End = 1-minDuration, 1
			}
		}
		timed = append(timed, seg)
	}
	if len(timed) == 0 {
		return nil
	}

	// Deterministic order: start ascending, then submission order. Stable
	// so re-layouts of unchanged data reproduce the same slots.
	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].Start != timed[j].Start {
			return timed[i].Start < timed[j].Start
		}
		return timed[i].seq < timed[j].seq
	})

	slots := make([]LayoutSlot, 0, len(timed))

	var (
		group      = -1
		groupFirst = 0       // index of the group's first slot
		groupEnd   = 0.0     // furthest end seen in the group
		columns    []float64 // end fraction of the last segment per column
	)
	closeGroup := func(upTo int) {
		for i := groupFirst; i < upTo; i++ {
			slots[i].ColumnCount = len(columns)
		}
	}

	for _, seg := range timed {
		// A segment starting at or after everything seen so far opens a new
		// connected component.
		if group < 0 || seg.Start >= groupEnd {
			closeGroup(len(slots))
			group++
			groupFirst = len(slots)
			columns = columns[:0]
		}

		// Lowest column whose previous occupant ends at or before this
		// segment's start (half-open intervals).
		column := -1
		for c, end := range columns {
			if end <= seg.Start {
				column = c
				break
			}
		}
		if column < 0 {
			column = len(columns)
			columns = append(columns, 0)
		}
		columns[column] = seg.End
		groupEnd = max(groupEnd, seg.End)

		slots = append(slots, LayoutSlot{Segment: seg, Column: column, Group: group})
	}
	closeGroup(len(slots))

	return slots
}

// allDayRows orders one day's all-day segments into strip rows, one row per
// source event. Longer spans come first so multi-day banners keep a stable
// row across adjacent days; ties break on span start, then submission
// order. The returned index is the row.
func allDayRows(segments []DaySegment) []DaySegment {
	rows := make([]DaySegment, 0, len(segments))
	seen := make(map[string]bool, len(segments))
	for _, seg := range segments {
		if !seg.AllDay || seen[seg.EventID] {
			continue
		}
		seen[seg.EventID] = true
		rows = append(rows, seg)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].spanDays != rows[j].spanDays {
			return rows[i].spanDays > rows[j].spanDays
		}
		if rows[i].spanStart != rows[j].spanStart {
			return rows[i].spanStart.Before(rows[j].spanStart)
		}
		return rows[i].seq < rows[j].seq
	})
	return rows
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
