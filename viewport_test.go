package weekview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewport() *Viewport {
	vp := newViewport(Date{2026, time.March, 10})
	vp.setSize(70, 24) // dayWidth 10 with 7 visible days
	return vp
}

func TestViewportRoundTrip(t *testing.T) {
	vp := testViewport()
	vp.scrollBy(-23, -7.5)

	for offset := -400; offset <= 400; offset += 13 {
		d := vp.anchor.AddDays(offset)
		assert.Equal(t, d, vp.XToDate(vp.DateToX(d)), "offset %d", offset)
	}

	for h := 0.0; h <= 24; h += 0.25 {
		assert.InDelta(t, h, vp.YToHour(vp.HourToY(h)), 1e-9)
	}
}

func TestViewportFirstVisibleDateIdempotent(t *testing.T) {
	vp := testViewport()
	vp.scrollBy(-34.7, 0)

	first := vp.FirstVisibleDate()
	assert.Equal(t, first, vp.FirstVisibleDate(), "derivation must not drift")
	assert.Equal(t, first.AddDays(6), vp.LastVisibleDate())
}

func TestViewportGoToDateClampsToMinDate(t *testing.T) {
	vp := testViewport()
	d := Date{2026, time.March, 15}
	require.NoError(t, vp.setDateRange(d, d.AddDays(60), true, true))

	vp.goToDate(d.AddDays(-5))
	assert.Equal(t, d, vp.FirstVisibleDate())
}

func TestViewportGoToDateClampsToMaxDate(t *testing.T) {
	vp := testViewport()
	minD := Date{2026, time.March, 1}
	maxD := Date{2026, time.March, 31}
	require.NoError(t, vp.setDateRange(minD, maxD, true, true))

	vp.goToDate(maxD.AddDays(10))
	// The last visible day lands exactly on maxDate.
	assert.Equal(t, maxD, vp.LastVisibleDate())
	assert.Equal(t, maxD.AddDays(-6), vp.FirstVisibleDate())
}

func TestViewportRejectsInvertedDateRange(t *testing.T) {
	vp := testViewport()
	err := vp.setDateRange(Date{2026, time.March, 20}, Date{2026, time.March, 10}, true, true)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.False(t, vp.hasMinDate, "rejected call must leave state untouched")
}

func TestViewportFirstDayOfWeekSnap(t *testing.T) {
	vp := testViewport()
	vp.showFirstDayOfWeekFirst = true
	vp.firstDayOfWeek = time.Monday

	// 2026-03-12 is a Thursday; a 7-day view snaps back to Monday the 9th.
	vp.goToDate(Date{2026, time.March, 12})
	assert.Equal(t, Date{2026, time.March, 9}, vp.FirstVisibleDate())

	// Fewer than seven visible days: no snap.
	vp.visibleDays = 3
	vp.goToDate(Date{2026, time.March, 12})
	assert.Equal(t, Date{2026, time.March, 12}, vp.FirstVisibleDate())
}

func TestViewportDeferredNavigation(t *testing.T) {
	vp := newViewport(Date{2026, time.March, 10})
	target := Date{2026, time.April, 1}

	// Before the first layout pass the request must be deferred, not
	// computed against zero dimensions.
	vp.goToDate(target)
	require.NoError(t, vp.goToHour(9))
	assert.Equal(t, 0.0, vp.originX)

	vp.setSize(70, 24)
	assert.Equal(t, target, vp.FirstVisibleDate())
	assert.InDelta(t, 9.0, vp.YToHour(0), 1e-9)
}

func TestViewportHourHeightClamps(t *testing.T) {
	vp := testViewport()
	vp.setHourHeight(100)
	assert.Equal(t, vp.maxHourHeight, vp.hourHeight)
	vp.setHourHeight(0.01)
	assert.Equal(t, vp.minHourHeight, vp.hourHeight)
}

func TestViewportCompleteDayOverridesZoom(t *testing.T) {
	vp := testViewport()
	vp.completeDay = true
	vp.applyCompleteDay()
	assert.InDelta(t, 1.0, vp.hourHeight, 1e-9) // 24 rows over 24 hours

	vp.setHourHeight(4)
	assert.InDelta(t, 1.0, vp.hourHeight, 1e-9, "manual zoom is ignored")
}

func TestViewportGoToHourRejectsOutOfRange(t *testing.T) {
	vp := testViewport()
	require.NoError(t, vp.setHourRange(8, 18))

	err := vp.goToHour(20)
	assert.ErrorIs(t, err, ErrHourOutOfRange)
}

func TestViewportVerticalClamp(t *testing.T) {
	vp := testViewport()
	vp.scrollBy(0, -1000)
	content := (vp.maxHour - vp.minHour) * vp.hourHeight
	assert.InDelta(t, -(content - vp.height), vp.originY, 1e-9)

	vp.scrollBy(0, 5000)
	assert.Equal(t, 0.0, vp.originY)
}

func TestViewportSnapshotRoundTrip(t *testing.T) {
	vp := testViewport()
	vp.visibleDays = 5
	vp.dayWidth = vp.width / 5
	vp.firstDayOfWeek = time.Sunday
	vp.goToDate(Date{2026, time.May, 4})

	data, err := vp.snapshot()
	require.NoError(t, err)

	// Restore into a fresh, not-yet-sized viewport: the scroll target must
	// survive the deferred navigation path.
	restored := newViewport(Date{2026, time.March, 10})
	require.NoError(t, restored.restore(data))
	restored.setSize(70, 24)

	assert.Equal(t, 5, restored.visibleDays)
	assert.Equal(t, time.Sunday, restored.firstDayOfWeek)
	assert.Equal(t, Date{2026, time.May, 4}, restored.FirstVisibleDate())
}

func TestViewportSnapTarget(t *testing.T) {
	vp := testViewport()
	vp.scrollBy(-23, 0)
	assert.InDelta(t, -20, vp.snapTargetX(), 1e-9)

	vp.scrollBy(-3, 0) // now at -26
	assert.InDelta(t, -30, vp.snapTargetX(), 1e-9)
}
