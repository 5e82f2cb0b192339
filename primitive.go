package weekview

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Primitive is the interface for everything the application can draw and
// route input to.
type Primitive interface {
	// Draw draws this primitive onto the screen. Implementers can call the
	// screen's ShowCursor() function but should only do so when they have
	// focus.
	Draw(screen tcell.Screen)

	// GetRect returns the current position of the primitive, x, y, width,
	// and height.
	GetRect() (int, int, int, int)

	// SetRect sets a new position of the primitive.
	SetRect(x, y, width, height int)

	// InputHandler returns a handler which receives key events when this
	// primitive has focus.
	InputHandler() func(event *tcell.EventKey, setFocus func(p Primitive))

	// MouseHandler returns a handler which receives mouse events. The
	// returned capture primitive (if non-nil) receives follow-up mouse
	// events until the capture is released.
	MouseHandler() func(action MouseAction, event *tcell.EventMouse, setFocus func(p Primitive)) (consumed bool, capture Primitive)

	// Focus is called by the application when the primitive receives
	// focus. Implementers may call delegate() to pass the focus on to
	// another primitive.
	Focus(delegate func(p Primitive))

	// Blur is called by the application when the primitive loses focus.
	Blur()

	// HasFocus determines if the primitive has focus.
	HasFocus() bool
}

// Animated is implemented by primitives which run frame-driven animations,
// such as a fling or a day snap. While Animating returns true the
// application steps frames: it calls Animate once per frame and redraws
// when it reports a change.
type Animated interface {
	Animating() bool
	Animate(now time.Time) bool
}
