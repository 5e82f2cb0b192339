package weekview

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Viewport owns the mapping between calendar time and cell geometry: scroll
// origins, day width and hour height, date/hour bounds, and zoom. All
// lengths are in terminal cells, held as float64 so continuous gestures do
// not accumulate rounding drift; values are rounded only when drawn.
//
// The sign convention for both origins is: more negative = further into the
// future (horizontally) or further down the day (vertically).
type Viewport struct {
	// anchor is the date whose column sits at x == 0 when originX == 0.
	// It never changes after construction; all horizontal positions are
	// relative to it.
	anchor Date

	originX float64
	originY float64

	width  float64 // grid area size, excluding gutter and headers
	height float64

	dayWidth      float64
	hourHeight    float64
	minHourHeight float64
	maxHourHeight float64

	minHour float64
	maxHour float64

	minDate, maxDate       Date
	hasMinDate, hasMaxDate bool

	visibleDays             int
	firstDayOfWeek          time.Weekday
	showFirstDayOfWeekFirst bool

	// completeDay derives hourHeight from the viewport height so the whole
	// hour window fits; manual zoom is ignored while set.
	completeDay bool

	// sized is false until the first layout pass. Navigation requests that
	// arrive earlier are deferred to avoid computing against stale
	// dimensions.
	sized       bool
	pendingDate *Date
	pendingHour *float64
}

func newViewport(anchor Date) *Viewport {
	return &Viewport{
		anchor:         anchor,
		minHour:        0,
		maxHour:        24,
		hourHeight:     2,
		minHourHeight:  1,
		maxHourHeight:  6,
		visibleDays:    7,
		firstDayOfWeek: time.Monday,
	}
}

// setSize installs the grid area dimensions, recomputes derived lengths and
// applies any deferred navigation.
func (v *Viewport) setSize(width, height float64) {
	v.width, v.height = width, height
	if v.visibleDays > 0 {
		v.dayWidth = width / float64(v.visibleDays)
	}
	if v.completeDay {
		v.applyCompleteDay()
	}
	v.sized = true
	if v.pendingDate != nil {
		d := *v.pendingDate
		v.pendingDate = nil
		v.goToDate(d)
	}
	if v.pendingHour != nil {
		h := *v.pendingHour
		v.pendingHour = nil
		v.goToHour(h)
	}
	v.originX = v.clampOriginX(v.originX)
	v.originY = v.clampOriginY(v.originY)
}

func (v *Viewport) applyCompleteDay() {
	if window := v.maxHour - v.minHour; window > 0 && v.height > 0 {
		v.hourHeight = v.height / window
		v.originY = 0
	}
}

// DateToX returns the x position of the left edge of the date's column,
// relative to the grid origin.
func (v *Viewport) DateToX(d Date) float64 {
	return v.originX + float64(v.anchor.DaysUntil(d))*v.dayWidth
}

// XToDate returns the date whose column contains the x position. It is the
// exact inverse of DateToX modulo rounding down to whole days.
func (v *Viewport) XToDate(x float64) Date {
	if v.dayWidth <= 0 {
		return v.anchor
	}
	return v.anchor.AddDays(int(math.Floor((x-v.originX)/v.dayWidth + 1e-9)))
}

// HourToY returns the y position of the given hour of day.
func (v *Viewport) HourToY(hour float64) float64 {
	return v.originY + (hour-v.minHour)*v.hourHeight
}

// YToHour returns the hour of day at the y position.
func (v *Viewport) YToHour(y float64) float64 {
	if v.hourHeight <= 0 {
		return v.minHour
	}
	return (y-v.originY)/v.hourHeight + v.minHour
}

// FirstVisibleDate derives the first (possibly partially) visible date from
// the horizontal origin. The derivation is a pure function of the origin,
// so repeated calls without an intervening scroll agree exactly.
func (v *Viewport) FirstVisibleDate() Date {
	if v.dayWidth <= 0 {
		return v.anchor
	}
	// The epsilon absorbs float noise so a column aligned at x == 0 is not
	// pushed to the previous day by a representation error.
	return v.anchor.AddDays(int(math.Floor(-v.originX/v.dayWidth + 1e-9)))
}

// LastVisibleDate returns the last visible date.
func (v *Viewport) LastVisibleDate() Date {
	return v.FirstVisibleDate().AddDays(v.visibleDays - 1)
}

// clampDate resolves a navigation target against the date bounds: dates
// before minDate land on minDate; dates after maxDate land so the last
// visible day equals maxDate. With a full week or more visible and the
// first-day-of-week preference on, the result additionally snaps backward
// to that weekday.
func (v *Viewport) clampDate(d Date) Date {
	if v.hasMinDate && d.Before(v.minDate) {
		d = v.minDate
	}
	if v.hasMaxDate {
		lastStart := v.maxDate.AddDays(-(v.visibleDays - 1))
		if v.hasMinDate {
			lastStart = maxDateOf(lastStart, v.minDate)
		}
		if d.After(lastStart) {
			d = lastStart
		}
	}
	if v.showFirstDayOfWeekFirst && v.visibleDays >= 7 {
		for d.Weekday() != v.firstDayOfWeek {
			d = d.AddDays(-1)
		}
		if v.hasMinDate && d.Before(v.minDate) {
			d = v.minDate
		}
	}
	return d
}

// goToDate scrolls so the given date (after range clamping) is the first
// visible day. Before the first layout pass the request is deferred.
func (v *Viewport) goToDate(d Date) {
	d = v.clampDate(d)
	if !v.sized {
		v.pendingDate = &d
		return
	}
	v.originX = v.clampOriginX(-float64(v.anchor.DaysUntil(d)) * v.dayWidth)
}

// goToHour scrolls vertically so the given hour is at the top of the grid.
// The hour must lie within the visible hour window.
func (v *Viewport) goToHour(hour float64) error {
	if hour < v.minHour || hour > v.maxHour {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrHourOutOfRange, hour, v.minHour, v.maxHour)
	}
	if !v.sized {
		v.pendingHour = &hour
		return nil
	}
	v.originY = v.clampOriginY(-(hour - v.minHour) * v.hourHeight)
	return nil
}

// setHourHeight applies a zoom level, clamped to the configured bounds. In
// complete-day mode the height is derived and manual zoom is ignored.
func (v *Viewport) setHourHeight(h float64) {
	if v.completeDay {
		return
	}
	v.hourHeight = math.Min(math.Max(h, v.minHourHeight), v.maxHourHeight)
	v.originY = v.clampOriginY(v.originY)
}

// zoomAbout scales the hour height by factor, keeping the hour under the
// given y position stationary.
func (v *Viewport) zoomAbout(y, factor float64) {
	if v.completeDay {
		return
	}
	hour := v.YToHour(y)
	v.setHourHeight(v.hourHeight * factor)
	v.originY = v.clampOriginY(y - (hour-v.minHour)*v.hourHeight)
}

func (v *Viewport) setDateRange(minD, maxD Date, hasMin, hasMax bool) error {
	if hasMin && hasMax && maxD.Before(minD) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, minD, maxD)
	}
	v.minDate, v.maxDate = minD, maxD
	v.hasMinDate, v.hasMaxDate = hasMin, hasMax
	if v.sized {
		v.originX = v.clampOriginX(v.originX)
	}
	return nil
}

func (v *Viewport) setHourRange(minHour, maxHour float64) error {
	if minHour < 0 || maxHour > 24 || minHour >= maxHour {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidHourRange, minHour, maxHour)
	}
	v.minHour, v.maxHour = minHour, maxHour
	if v.completeDay {
		v.applyCompleteDay()
	}
	v.originY = v.clampOriginY(v.originY)
	return nil
}

// scrollBy moves both origins by the given deltas, clamped to the date and
// hour bounds.
func (v *Viewport) scrollBy(dx, dy float64) {
	v.originX = v.clampOriginX(v.originX + dx)
	v.originY = v.clampOriginY(v.originY + dy)
}

// clampOriginX keeps the first visible date within [minDate, maxDate] per
// the clamping rules of clampDate.
func (v *Viewport) clampOriginX(x float64) float64 {
	var (
		lo = math.Inf(-1)
		hi = math.Inf(1)
	)
	if v.hasMinDate {
		hi = -float64(v.anchor.DaysUntil(v.minDate)) * v.dayWidth
	}
	if v.hasMaxDate {
		lastStart := v.maxDate.AddDays(-(v.visibleDays - 1))
		lo = -float64(v.anchor.DaysUntil(lastStart)) * v.dayWidth
	}
	if lo > hi {
		// Date range narrower than the visible window: pin to minDate.
		lo = hi
	}
	return math.Min(math.Max(x, lo), hi)
}

// clampOriginY keeps the hour window filling the grid: no overscroll above
// minHour or below maxHour.
func (v *Viewport) clampOriginY(y float64) float64 {
	content := (v.maxHour - v.minHour) * v.hourHeight
	lo := math.Min(0, -(content - v.height))
	return math.Min(math.Max(y, lo), 0)
}

// snapTargetX returns the nearest horizontal origin at which exactly whole
// days are visible.
func (v *Viewport) snapTargetX() float64 {
	if v.dayWidth <= 0 {
		return v.originX
	}
	return v.clampOriginX(math.Round(v.originX/v.dayWidth) * v.dayWidth)
}

// ViewportSnapshot is the minimal viewport configuration that survives a
// destroy/recreate cycle of the hosting surface.
type ViewportSnapshot struct {
	VisibleDays      int    `yaml:"visible_days"`
	FirstDayOfWeek   int    `yaml:"first_day_of_week"`
	FirstVisibleDate string `yaml:"first_visible_date"`
}

// snapshot serializes the restorable viewport subset.
func (v *Viewport) snapshot() ([]byte, error) {
	return yaml.Marshal(ViewportSnapshot{
		VisibleDays:      v.visibleDays,
		FirstDayOfWeek:   int(v.firstDayOfWeek),
		FirstVisibleDate: v.FirstVisibleDate().String(),
	})
}

// restore applies a serialized snapshot. The scroll target goes through the
// deferred navigation path, so restoring before the first layout pass is
// safe.
func (v *Viewport) restore(data []byte) error {
	var snap ViewportSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("restore viewport: %w", err)
	}
	first, err := ParseDate(snap.FirstVisibleDate)
	if err != nil {
		return fmt.Errorf("restore viewport: %w", err)
	}
	if snap.VisibleDays > 0 {
		v.visibleDays = snap.VisibleDays
		if v.width > 0 {
			v.dayWidth = v.width / float64(v.visibleDays)
		}
	}
	if snap.FirstDayOfWeek >= int(time.Sunday) && snap.FirstDayOfWeek <= int(time.Saturday) {
		v.firstDayOfWeek = time.Weekday(snap.FirstDayOfWeek)
	}
	v.goToDate(first)
	return nil
}
