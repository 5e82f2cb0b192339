package weekview

import (
	"math"
	"time"
)

// gesturePhase is the state of the pointer gesture machine.
type gesturePhase int

const (
	gestureIdle gesturePhase = iota
	gestureDragging
	gestureFlinging
	gestureSnapping
	gestureZooming
)

// Tuning constants, in cells and seconds. Terminal cells are coarse, so the
// thresholds are small compared to pixel UIs.
const (
	gestureSlop       = 1.0  // movement before a press becomes a drag
	flingMinVelocity  = 8.0  // cells/s required to start a fling
	flingStopVelocity = 2.0  // fling decays to a snap below this
	flingFriction     = 4.0  // 1/s exponential decay
	snapRate          = 14.0 // 1/s easing toward the snap target
	snapDoneDistance  = 0.05 // close enough to land exactly on target
	velocityWindow    = 120 * time.Millisecond
)

type pointerState struct {
	x, y float64
}

type velocitySample struct {
	at time.Time
	x  float64
}

// gestureController interprets continuous pointer input into viewport
// mutations: horizontal day-snapped scrolling, vertical free scrolling,
// pinch zoom of the hour height, and fling with deceleration. It owns no
// geometry itself; every position change goes through the Viewport.
type gestureController struct {
	vp *Viewport

	horizontalEnabled bool
	verticalEnabled   bool
	flingEnabled      bool
	zoomEnabled       bool

	phase    gesturePhase
	pointers map[int]pointerState

	downX, downY float64
	lastX, lastY float64

	samples []velocitySample

	pinchDist float64
	pinchMidY float64

	flingVX    float64
	snapTarget float64
	lastFrame  time.Time
}

func newGestureController(vp *Viewport) *gestureController {
	return &gestureController{
		vp:                vp,
		horizontalEnabled: true,
		verticalEnabled:   true,
		flingEnabled:      true,
		zoomEnabled:       true,
		pointers:          make(map[int]pointerState),
	}
}

// pointerDown begins a gesture. Any in-flight fling or snap is cancelled
// immediately, preserving the current origin so there is no jump.
func (g *gestureController) pointerDown(id int, x, y float64, at time.Time) {
	if g.phase == gestureFlinging || g.phase == gestureSnapping {
		g.phase = gestureIdle
	}

	g.pointers[id] = pointerState{x: x, y: y}
	switch len(g.pointers) {
	case 1:
		g.downX, g.downY = x, y
		g.lastX, g.lastY = x, y
		g.samples = g.samples[:0]
		g.recordSample(x, at)
	case 2:
		g.phase = gestureZooming
		g.pinchDist, g.pinchMidY = g.pinchGeometry()
	}
}

// pointerMove feeds movement into the current phase. Dragging starts once
// the pointer travels past the slop threshold.
func (g *gestureController) pointerMove(id int, x, y float64, at time.Time) {
	prev, ok := g.pointers[id]
	if !ok {
		return
	}
	g.pointers[id] = pointerState{x: x, y: y}

	if g.phase == gestureZooming {
		dist, midY := g.pinchGeometry()
		if g.zoomEnabled && g.pinchDist > 0 && dist > 0 {
			g.vp.zoomAbout(midY, dist/g.pinchDist)
		}
		g.pinchDist, g.pinchMidY = dist, midY
		return
	}

	if g.phase == gestureIdle {
		if math.Hypot(x-g.downX, y-g.downY) < gestureSlop {
			return
		}
		g.phase = gestureDragging
		g.lastX, g.lastY = prev.x, prev.y
	}
	if g.phase != gestureDragging {
		return
	}

	dx, dy := x-g.lastX, y-g.lastY
	g.lastX, g.lastY = x, y
	if !g.horizontalEnabled {
		dx = 0
	}
	if !g.verticalEnabled {
		dy = 0
	}
	g.vp.scrollBy(dx, dy)
	g.recordSample(x, at)
}

// pointerUp ends a pointer's participation. Lifting out of a drag seeds a
// fling when the release velocity is high enough, otherwise the view snaps
// to the nearest day boundary. Dropping out of a pinch returns to idle.
func (g *gestureController) pointerUp(id int, at time.Time) {
	delete(g.pointers, id)

	if g.phase == gestureZooming {
		if len(g.pointers) < 2 {
			g.phase = gestureIdle
		}
		return
	}
	if len(g.pointers) > 0 {
		return
	}

	wasDragging := g.phase == gestureDragging
	g.phase = gestureIdle
	if !wasDragging || !g.horizontalEnabled {
		return
	}

	vx := g.releaseVelocity(at)
	if g.flingEnabled && math.Abs(vx) >= flingMinVelocity {
		g.phase = gestureFlinging
		g.flingVX = vx
		g.lastFrame = at
		return
	}
	g.startSnap(at)
}

// startSnap eases the horizontal origin to the nearest whole-day boundary.
func (g *gestureController) startSnap(at time.Time) {
	g.snapTarget = g.vp.snapTargetX()
	if math.Abs(g.snapTarget-g.vp.originX) <= snapDoneDistance {
		g.vp.originX = g.snapTarget
		g.phase = gestureIdle
		return
	}
	g.phase = gestureSnapping
	g.lastFrame = at
}

// animating reports whether a frame-driven animation is in progress.
func (g *gestureController) animating() bool {
	return g.phase == gestureFlinging || g.phase == gestureSnapping
}

// step advances the fling or snap animation to now and reports whether the
// animation is still running.
func (g *gestureController) step(now time.Time) bool {
	dt := now.Sub(g.lastFrame).Seconds()
	g.lastFrame = now
	if dt <= 0 {
		return g.animating()
	}

	switch g.phase {
	case gestureFlinging:
		before := g.vp.originX
		g.vp.scrollBy(g.flingVX*dt, 0)
		hitBoundary := g.vp.originX == before && g.flingVX != 0
		g.flingVX *= math.Exp(-flingFriction * dt)
		if hitBoundary || math.Abs(g.flingVX) < flingStopVelocity {
			g.startSnap(now)
		}
	case gestureSnapping:
		delta := g.snapTarget - g.vp.originX
		moved := delta * math.Min(1, snapRate*dt)
		g.vp.originX += moved
		if math.Abs(g.snapTarget-g.vp.originX) <= snapDoneDistance {
			g.vp.originX = g.snapTarget
			g.phase = gestureIdle
		}
	}
	return g.animating()
}

// scrollStep applies a discrete scroll (wheel, keys). Horizontal steps land
// directly on the snapped position.
func (g *gestureController) scrollStep(days int, dy float64, at time.Time) {
	if days != 0 && g.horizontalEnabled {
		g.vp.scrollBy(-float64(days)*g.vp.dayWidth, 0)
		g.startSnap(at)
	}
	if dy != 0 && g.verticalEnabled {
		g.vp.scrollBy(0, dy)
	}
}

func (g *gestureController) recordSample(x float64, at time.Time) {
	g.samples = append(g.samples, velocitySample{at: at, x: x})
	cutoff := at.Add(-velocityWindow)
	for len(g.samples) > 1 && g.samples[0].at.Before(cutoff) {
		g.samples = g.samples[1:]
	}
}

// releaseVelocity estimates the horizontal velocity at release from the
// samples inside the velocity window.
func (g *gestureController) releaseVelocity(at time.Time) float64 {
	if len(g.samples) < 2 {
		return 0
	}
	first, last := g.samples[0], g.samples[len(g.samples)-1]
	if at.Sub(first.at) > velocityWindow+velocityWindow/2 {
		// Stale samples: the pointer rested before lifting.
		return 0
	}
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.x - first.x) / dt
}

func (g *gestureController) pinchGeometry() (dist, midY float64) {
	pts := make([]pointerState, 0, 2)
	for _, p := range g.pointers {
		pts = append(pts, p)
		if len(pts) == 2 {
			break
		}
	}
	if len(pts) < 2 {
		return 0, 0
	}
	return math.Hypot(pts[1].x-pts[0].x, pts[1].y-pts[0].y), (pts[0].y + pts[1].y) / 2
}
