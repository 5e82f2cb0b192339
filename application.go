package weekview

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// The size of the queued updates channel.
	updatesQueueSize = 100

	// framePause is the interval between animation frames while a fling or
	// snap animation is running.
	framePause = 33 * time.Millisecond
)

// DoubleClickInterval specifies the maximum time between clicks to register
// a double click rather than a click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction indicates one of the actions the mouse is logically doing.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseMiddleDown
	MouseMiddleUp
	MouseMiddleClick
	MouseRightDown
	MouseRightUp
	MouseRightClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

// queuedUpdate represents the execution of f queued by
// Application.QueueUpdate(). If "done" is not nil, it receives exactly one
// element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application owns the screen, the event loop, and the frame clock. All
// primitive mutation happens on its loop; goroutines hand work in through
// QueueUpdate. While the root primitive reports an active animation, the
// loop additionally ticks frames so flings and snaps progress without
// input.
type Application struct {
	sync.RWMutex

	// The application's screen. Apart from Run(), this variable should
	// never be set directly.
	screen tcell.Screen

	// The primitive which currently has the keyboard focus.
	focus Primitive

	// The root primitive to be seen on the screen.
	root Primitive

	// Functions queued from goroutines, used to serialize updates to
	// primitives.
	updates chan queuedUpdate

	quit chan struct{}

	mouseCapturingPrimitive Primitive        // A Primitive returned by a MouseHandler which will capture future mouse events.
	lastMouseX, lastMouseY  int              // The last position of the mouse.
	mouseDownX, mouseDownY  int              // The position of the mouse when its button was last pressed.
	lastMouseClick          time.Time        // The time when a mouse button was last clicked.
	lastMouseButtons        tcell.ButtonMask // The last mouse button state.
}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updatesQueueSize),
		quit:    make(chan struct{}),
	}
}

// SetScreen sets the application's screen, mostly useful for testing with a
// simulation screen.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
	}
	return a
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
func (a *Application) Run() error {
	a.Lock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}
	screen := a.screen
	a.Unlock()

	screen.EnableMouse()
	screen.EnablePaste()

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	events := make(chan tcell.Event, 16)
	go screen.ChannelEvents(events, a.quit)

	a.draw()

	var (
		frames   *time.Ticker
		frameC   <-chan time.Time
		appErr   error
		animated Animated
	)
	stopFrames := func() {
		if frames != nil {
			frames.Stop()
			frames, frameC = nil, nil
		}
	}
	// ensureFrames keeps the frame ticker running exactly while the root
	// has an animation in flight.
	ensureFrames := func() {
		a.RLock()
		animated, _ = a.root.(Animated)
		a.RUnlock()
		if animated != nil && animated.Animating() {
			if frames == nil {
				frames = time.NewTicker(framePause)
				frameC = frames.C
			}
		} else {
			stopFrames()
		}
	}
	defer stopFrames()

EventLoop:
	for {
		select {
		case event, ok := <-events:
			if !ok {
				break EventLoop
			}
			switch event := event.(type) {
			case *tcell.EventKey:
				a.RLock()
				root := a.root
				a.RUnlock()
				if root != nil && root.HasFocus() {
					root.InputHandler()(event, func(p Primitive) {
						a.SetFocus(p)
					})
					a.draw()
				}
			case *tcell.EventResize:
				screen.Sync()
				a.draw()
			case *tcell.EventMouse:
				isMouseDownAction := a.fireMouseActions(event)
				a.lastMouseButtons = event.Buttons()
				if isMouseDownAction {
					a.mouseDownX, a.mouseDownY = event.Position()
				}
				a.draw()
			case *tcell.EventError:
				appErr = event
				a.Stop()
			}
			ensureFrames()

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
			ensureFrames()

		case now := <-frameC:
			if animated != nil && animated.Animate(now) {
				a.draw()
			}
			ensureFrames()

		case <-a.quit:
			break EventLoop
		}
	}

	return appErr
}

// fireMouseActions analyzes the provided mouse event, derives mouse actions
// from it and forwards them to the corresponding primitives.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (isMouseDownAction bool) {
	// We want to relay follow-up events to the same target primitive.
	var targetPrimitive Primitive

	fire := func(action MouseAction) {
		switch action {
		case MouseLeftDown, MouseMiddleDown, MouseRightDown:
			isMouseDownAction = true
		}

		var primitive, capturingPrimitive Primitive
		if a.mouseCapturingPrimitive != nil {
			primitive = a.mouseCapturingPrimitive
			targetPrimitive = a.mouseCapturingPrimitive
		} else if targetPrimitive != nil {
			primitive = targetPrimitive
		} else {
			primitive = a.root
		}
		if primitive != nil {
			_, capturingPrimitive = primitive.MouseHandler()(action, event, func(p Primitive) {
				a.SetFocus(p)
			})
		}
		a.mouseCapturingPrimitive = capturingPrimitive
	}

	x, y := event.Position()
	buttons := event.Buttons()
	clickMoved := x != a.mouseDownX || y != a.mouseDownY
	buttonChanges := buttons ^ a.lastMouseButtons

	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX = x
		a.lastMouseY = y
	}

	for _, buttonEvent := range []struct {
		button                  tcell.ButtonMask
		down, up, click, dclick MouseAction
	}{
		{tcell.ButtonPrimary, MouseLeftDown, MouseLeftUp, MouseLeftClick, MouseLeftDoubleClick},
		{tcell.ButtonMiddle, MouseMiddleDown, MouseMiddleUp, MouseMiddleClick, MouseMiddleClick},
		{tcell.ButtonSecondary, MouseRightDown, MouseRightUp, MouseRightClick, MouseRightClick},
	} {
		if buttonChanges&buttonEvent.button != 0 {
			if buttons&buttonEvent.button != 0 {
				fire(buttonEvent.down)
			} else {
				fire(buttonEvent.up)
				if !clickMoved {
					if a.lastMouseClick.Add(DoubleClickInterval).Before(time.Now()) {
						fire(buttonEvent.click)
						a.lastMouseClick = time.Now()
					} else {
						fire(buttonEvent.dclick)
						a.lastMouseClick = time.Time{} // reset
					}
				}
			}
		}
	}

	for _, wheelEvent := range []struct {
		button tcell.ButtonMask
		action MouseAction
	}{
		{tcell.WheelUp, MouseScrollUp},
		{tcell.WheelDown, MouseScrollDown},
		{tcell.WheelLeft, MouseScrollLeft},
		{tcell.WheelRight, MouseScrollRight}} {
		if buttons&wheelEvent.button != 0 {
			fire(wheelEvent.action)
		}
	}

	return isMouseDownAction
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		return
	}
	a.screen.Fini()
	a.screen = nil
	close(a.quit)
}

// draw refreshes the screen: it sizes the root to the screen, asks it to
// draw and shows the result.
func (a *Application) draw() {
	a.Lock()
	screen := a.screen
	root := a.root
	a.Unlock()

	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	root.Draw(screen)
	screen.Show()
}

// Draw refreshes the screen from a goroutine during the next update cycle.
func (a *Application) Draw() *Application {
	a.QueueUpdate(func() {
		a.draw()
	})
	return a
}

// SetRoot sets the root primitive for this application and focuses it. This
// function must be called at least once or nothing will be displayed when
// the application starts.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	a.Unlock()
	a.SetFocus(root)
	return a
}

// SetFocus sets the focus to a new primitive. Blur() will be called on the
// previously focused primitive, Focus() on the new one.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	a.Unlock()
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// GetFocus returns the primitive which has the current focus. If none has
// it, nil is returned.
func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate is used to synchronize access to primitives from non-main
// goroutines. The provided function will be executed as part of the event
// loop and thus will not cause race conditions with other such update
// functions or the draw cycle. This function returns after f has executed.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: ch}
	<-ch
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it refreshes the screen
// immediately after executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
	return a
}
