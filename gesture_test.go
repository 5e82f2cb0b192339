package weekview

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGesture() (*gestureController, *Viewport) {
	vp := testViewport()
	return newGestureController(vp), vp
}

var gestureEpoch = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func ms(offset int) time.Time {
	return gestureEpoch.Add(time.Duration(offset) * time.Millisecond)
}

// drag presses at (x, y) and moves left by step cells every 16ms.
func drag(g *gestureController, x, y, step float64, moves int) time.Time {
	g.pointerDown(0, x, y, ms(0))
	at := ms(0)
	for i := 1; i <= moves; i++ {
		at = ms(16 * i)
		g.pointerMove(0, x-step*float64(i), y, at)
	}
	return at
}

// runAnimation steps frames until the animation settles.
func runAnimation(t *testing.T, g *gestureController, from time.Time) {
	t.Helper()
	for i := 1; i <= 1000; i++ {
		if !g.step(from.Add(time.Duration(i) * framePause)) {
			return
		}
	}
	t.Fatal("animation did not settle")
}

func TestGestureSlop(t *testing.T) {
	g, vp := testGesture()

	g.pointerDown(0, 30, 10, ms(0))
	g.pointerMove(0, 30.5, 10, ms(16))
	assert.Equal(t, 0.0, vp.originX, "movement inside the slop must not scroll")
	assert.Equal(t, gestureIdle, g.phase)

	g.pointerMove(0, 27, 10, ms(32))
	assert.Equal(t, gestureDragging, g.phase)
	assert.InDelta(t, -3.5, vp.originX, 1e-9, "the pre-slop movement is not lost")
}

func TestGestureDragFollowsPointer(t *testing.T) {
	g, vp := testGesture()

	// A slow drag: 2 cells every 200ms stays far below the fling threshold.
	g.pointerDown(0, 50, 10, ms(0))
	for i := 1; i <= 4; i++ {
		g.pointerMove(0, 50-2*float64(i), 10, ms(200*i))
	}
	assert.InDelta(t, -8, vp.originX, 1e-9)

	g.pointerUp(0, ms(800))
	runAnimation(t, g, ms(800))
	assert.InDelta(t, -10, vp.originX, 1e-9, "release settles on a day boundary")
}

func TestGestureFlingDecaysToDaySnap(t *testing.T) {
	g, vp := testGesture()

	// 2 cells per 16ms is 125 cells/s, well above the fling threshold.
	last := drag(g, 60, 10, 2, 6)
	g.pointerUp(0, last)
	require.Equal(t, gestureFlinging, g.phase)
	assert.Less(t, g.flingVX, 0.0)

	runAnimation(t, g, last)
	assert.Equal(t, gestureIdle, g.phase)
	assert.InDelta(t, 0, math.Remainder(vp.originX, vp.dayWidth), 1e-9,
		"fling must come to rest on a whole-day origin, got %g", vp.originX)
	assert.Less(t, vp.originX, -12.0, "the fling carries past the drag distance")
}

func TestGesturePointerDownCancelsFling(t *testing.T) {
	g, vp := testGesture()

	last := drag(g, 60, 10, 2, 6)
	g.pointerUp(0, last)
	require.Equal(t, gestureFlinging, g.phase)
	g.step(last.Add(framePause))
	at := vp.originX

	// A new press stops the animation in place, no snap, no jump.
	g.pointerDown(0, 40, 10, last.Add(2*framePause))
	assert.Equal(t, gestureIdle, g.phase)
	assert.Equal(t, at, vp.originX)
	assert.False(t, g.animating())
}

func TestGestureFlingDisabledSnapsInstead(t *testing.T) {
	g, vp := testGesture()
	g.flingEnabled = false

	last := drag(g, 60, 10, 2, 6)
	g.pointerUp(0, last)
	assert.Equal(t, gestureSnapping, g.phase)

	runAnimation(t, g, last)
	assert.InDelta(t, -10, vp.originX, 1e-9)
}

func TestGestureSlowReleaseSnapsNotFlings(t *testing.T) {
	g, _ := testGesture()

	// 0.1 cells per 16ms is about 6 cells/s, under the fling threshold.
	last := drag(g, 60, 10, 0.1, 20)
	g.pointerUp(0, last)
	assert.NotEqual(t, gestureFlinging, g.phase)
}

func TestGestureRestBeforeLiftKillsVelocity(t *testing.T) {
	g, _ := testGesture()

	last := drag(g, 60, 10, 2, 6)
	// The pointer rests past the velocity window before lifting.
	assert.Equal(t, 0.0, g.releaseVelocity(last.Add(500*time.Millisecond)))
}

func TestGesturePinchZoom(t *testing.T) {
	g, vp := testGesture()
	start := vp.hourHeight

	g.pointerDown(0, 30, 8, ms(0))
	g.pointerDown(1, 30, 12, ms(10))
	require.Equal(t, gestureZooming, g.phase)

	// Spreading the pointers apart doubles the pinch distance.
	g.pointerMove(1, 30, 16, ms(30))
	assert.InDelta(t, start*2, vp.hourHeight, 1e-9)

	g.pointerUp(1, ms(50))
	assert.Equal(t, gestureIdle, g.phase)
}

func TestGesturePinchClampsAtMinHourHeight(t *testing.T) {
	g, vp := testGesture()

	g.pointerDown(0, 30, 0, ms(0))
	g.pointerDown(1, 30, 20, ms(10))
	for i := 1; i <= 8; i++ {
		// Each move halves the distance; zoom out far past the lower bound.
		g.pointerMove(1, 30, 20/math.Pow(2, float64(i)), ms(10+16*i))
	}
	assert.Equal(t, vp.minHourHeight, vp.hourHeight)
}

func TestGestureZoomDisabled(t *testing.T) {
	g, vp := testGesture()
	g.zoomEnabled = false
	start := vp.hourHeight

	g.pointerDown(0, 30, 8, ms(0))
	g.pointerDown(1, 30, 12, ms(10))
	g.pointerMove(1, 30, 16, ms(30))
	assert.Equal(t, start, vp.hourHeight)
}

func TestGestureScrollStep(t *testing.T) {
	g, vp := testGesture()

	g.scrollStep(1, 0, ms(0))
	runAnimation(t, g, ms(0))
	assert.InDelta(t, -vp.dayWidth, vp.originX, 1e-9)

	g.scrollStep(0, -3, ms(100))
	assert.InDelta(t, -3, vp.originY, 1e-9)
}

func TestGestureHorizontalDisabled(t *testing.T) {
	g, vp := testGesture()
	g.horizontalEnabled = false

	last := drag(g, 60, 20, 2, 6)
	assert.Equal(t, 0.0, vp.originX)
	g.pointerUp(0, last)
	assert.False(t, g.animating())

	g.scrollStep(2, 0, ms(500))
	assert.Equal(t, 0.0, vp.originX)
}
