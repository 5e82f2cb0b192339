package weekview

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// hourGutterWidth is the width of the hour label column.
	hourGutterWidth = 6

	// maxAllDayRows caps the all-day strip height.
	maxAllDayRows = 3

	// scrollIndicatorSubcells is the fractional resolution of the vertical
	// scroll indicator thumb, using the eighth-block glyphs.
	scrollIndicatorSubcells = 8
)

var scrollThumbGlyphs = [scrollIndicatorSubcells]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// chipRect remembers where a chip was drawn so clicks can be resolved back
// to its event.
type chipRect struct {
	x, y, width, height int
	eventID             string
}

// WeekView is a scrollable calendar grid. It renders a configurable number
// of day columns with a left hour gutter, a day header row and an all-day
// strip, places event chips without overlap, and supports horizontal
// day-snapped scrolling, vertical scrolling, fling and zoom.
//
// All methods must be called from the application's event loop; use
// [Application.QueueUpdate] from other goroutines.
type WeekView struct {
	*Box

	vp      *Viewport
	gesture *gestureController
	cache   *eventCache

	style Style
	now   func() time.Time

	logger *slog.Logger

	// Interaction callbacks.
	eventClicked     EventClickFunc
	eventLongClicked EventClickFunc
	emptyClicked     GridClickFunc
	emptyLongClicked GridClickFunc
	rangeChanged     RangeChangeFunc

	// The grid area of the last draw, in screen coordinates.
	gridX, gridY, gridWidth, gridHeight int

	// Chip rectangles of the last draw, for click resolution.
	chips []chipRect

	// The last range reported through rangeChanged.
	reportedFirst, reportedLast Date
	rangeReported               bool
}

// NewWeekView returns a new week view showing seven days starting today.
func NewWeekView() *WeekView {
	vp := newViewport(DateOf(time.Now()))
	w := &WeekView{
		Box:     NewBox(),
		vp:      vp,
		gesture: newGestureController(vp),
		cache:   newEventCache(vp.minHour, vp.maxHour),
		style:   DefaultStyle(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	w.cache.diagnose = func(err error) {
		w.logger.Warn("weekview: dropping event", "err", err)
	}
	return w
}

// SetLogger sets the logger used for non-fatal diagnostics. The default is
// slog.Default().
func (w *WeekView) SetLogger(logger *slog.Logger) *WeekView {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// SetDiagnosticFunc replaces the diagnostics channel for malformed event
// data. Set to nil to restore logging through the widget's logger.
func (w *WeekView) SetDiagnosticFunc(fn DiagnosticFunc) *WeekView {
	if fn == nil {
		fn = func(err error) {
			w.logger.Warn("weekview: dropping event", "err", err)
		}
	}
	w.cache.diagnose = fn
	return w
}

// SetStyle replaces the complete rendering configuration.
func (w *WeekView) SetStyle(style Style) *WeekView {
	w.style = style
	w.MarkDirty()
	return w
}

// GetStyle returns the current rendering configuration.
func (w *WeekView) GetStyle() Style {
	return w.style
}

// Submit replaces the event set. Only dates whose events actually changed
// are re-laid out.
func (w *WeekView) Submit(events []CalendarEvent) *WeekView {
	w.cache.submit(events)
	w.MarkDirty()
	return w
}

// SetEventSource installs a synchronous pull source, invoked when the
// visible window expands into un-fetched territory.
func (w *WeekView) SetEventSource(source EventSource) *WeekView {
	w.cache.source = source
	return w
}

// SetLoadMoreFunc installs the load-more notification. The callee delivers
// data back through [WeekView.DeliverEvents] or [WeekView.Submit].
func (w *WeekView) SetLoadMoreFunc(fn LoadMoreFunc) *WeekView {
	w.cache.loadMore = fn
	return w
}

// DeliverEvents resolves an outstanding load-more request. A delivery whose
// range does not match the currently pending request is stale and is
// discarded rather than merged.
func (w *WeekView) DeliverEvents(start, end Date, events []CalendarEvent) *WeekView {
	if p := w.cache.pending; p != nil && p.start == start && p.end == end {
		w.cache.resolve(p.gen, events)
		w.MarkDirty()
	}
	return w
}

// Refresh discards fetch coverage and marks all cached days stale, so the
// next draw re-fetches and re-lays out the visible window.
func (w *WeekView) Refresh() *WeekView {
	w.cache.refresh()
	w.MarkDirty()
	return w
}

// SetEventClickedFunc sets the handler for clicks on an event chip.
func (w *WeekView) SetEventClickedFunc(fn EventClickFunc) *WeekView {
	w.eventClicked = fn
	return w
}

// SetEventLongClickedFunc sets the handler for long clicks (right clicks)
// on an event chip.
func (w *WeekView) SetEventLongClickedFunc(fn EventClickFunc) *WeekView {
	w.eventLongClicked = fn
	return w
}

// SetEmptyClickedFunc sets the handler for clicks on empty grid space,
// resolved to the date and hour under the pointer.
func (w *WeekView) SetEmptyClickedFunc(fn GridClickFunc) *WeekView {
	w.emptyClicked = fn
	return w
}

// SetEmptyLongClickedFunc sets the handler for long clicks (right clicks)
// on empty grid space.
func (w *WeekView) SetEmptyLongClickedFunc(fn GridClickFunc) *WeekView {
	w.emptyLongClicked = fn
	return w
}

// SetRangeChangedFunc sets the handler notified when the visible date range
// changes.
func (w *WeekView) SetRangeChangedFunc(fn RangeChangeFunc) *WeekView {
	w.rangeChanged = fn
	return w
}

// SetVisibleDays sets the number of day columns.
func (w *WeekView) SetVisibleDays(n int) error {
	if n < 1 {
		return fmt.Errorf("weekview: visible days must be positive, got %d", n)
	}
	w.vp.visibleDays = n
	if w.vp.width > 0 {
		w.vp.dayWidth = w.vp.width / float64(n)
	}
	w.MarkDirty()
	return nil
}

// SetDateRange bounds horizontal navigation. The call is rejected, leaving
// the prior bounds untouched, when min is after max.
func (w *WeekView) SetDateRange(min, max Date) error {
	if err := w.vp.setDateRange(min, max, true, true); err != nil {
		return err
	}
	w.MarkDirty()
	return nil
}

// ClearDateRange removes the date bounds.
func (w *WeekView) ClearDateRange() *WeekView {
	_ = w.vp.setDateRange(Date{}, Date{}, false, false)
	w.MarkDirty()
	return w
}

// SetHourRange sets the visible hour window [min, max). Since segment
// fractions are relative to the window, all cached layout is recomputed.
// The call is rejected when the window is empty or outside [0, 24].
func (w *WeekView) SetHourRange(min, max float64) error {
	if err := w.vp.setHourRange(min, max); err != nil {
		return err
	}
	w.cache.invalidateAll(min, max)
	w.MarkDirty()
	return nil
}

// SetHourHeight sets the zoom level in cells per hour, clamped to the hour
// height bounds. Ignored while complete-day mode is active.
func (w *WeekView) SetHourHeight(h float64) *WeekView {
	w.vp.setHourHeight(h)
	w.MarkDirty()
	return w
}

// SetHourHeightBounds sets the zoom clamp range.
func (w *WeekView) SetHourHeightBounds(min, max float64) error {
	if min <= 0 || max < min {
		return fmt.Errorf("weekview: invalid hour height bounds [%g, %g]", min, max)
	}
	w.vp.minHourHeight, w.vp.maxHourHeight = min, max
	w.vp.setHourHeight(w.vp.hourHeight)
	w.MarkDirty()
	return nil
}

// SetShowCompleteDay derives the hour height from the grid height so the
// whole hour window is visible, overriding manual zoom.
func (w *WeekView) SetShowCompleteDay(show bool) *WeekView {
	w.vp.completeDay = show
	if show && w.vp.sized {
		w.vp.applyCompleteDay()
	}
	w.MarkDirty()
	return w
}

// SetFirstDayOfWeek sets the weekday used by the first-day-of-week snap.
func (w *WeekView) SetFirstDayOfWeek(day time.Weekday) *WeekView {
	w.vp.firstDayOfWeek = day
	return w
}

// SetShowFirstDayOfWeekFirst enables snapping navigation targets backward
// to the first day of the week when a full week or more is visible.
func (w *WeekView) SetShowFirstDayOfWeekFirst(show bool) *WeekView {
	w.vp.showFirstDayOfWeekFirst = show
	return w
}

// SetHorizontalScrollEnabled toggles horizontal scrolling.
func (w *WeekView) SetHorizontalScrollEnabled(enabled bool) *WeekView {
	w.gesture.horizontalEnabled = enabled
	return w
}

// SetHorizontalFlingEnabled toggles fling. With fling disabled a drag still
// snaps to the nearest day boundary.
func (w *WeekView) SetHorizontalFlingEnabled(enabled bool) *WeekView {
	w.gesture.flingEnabled = enabled
	return w
}

// SetVerticalScrollEnabled toggles vertical scrolling.
func (w *WeekView) SetVerticalScrollEnabled(enabled bool) *WeekView {
	w.gesture.verticalEnabled = enabled
	return w
}

// SetZoomEnabled toggles pinch and keyboard zoom.
func (w *WeekView) SetZoomEnabled(enabled bool) *WeekView {
	w.gesture.zoomEnabled = enabled
	return w
}

// GoToDate scrolls so the given date (clamped to the date bounds) is the
// first visible day. Before the first layout pass the request is deferred
// and applied with correct dimensions.
func (w *WeekView) GoToDate(d Date) *WeekView {
	w.vp.goToDate(d)
	w.MarkDirty()
	return w
}

// GoToToday scrolls to the current date.
func (w *WeekView) GoToToday() *WeekView {
	return w.GoToDate(DateOf(w.now()))
}

// GoToHour scrolls vertically so the given hour is at the top of the grid.
// Hours outside the visible hour window are rejected.
func (w *WeekView) GoToHour(hour float64) error {
	if err := w.vp.goToHour(hour); err != nil {
		return err
	}
	w.MarkDirty()
	return nil
}

// FirstVisibleDate returns the first visible date.
func (w *WeekView) FirstVisibleDate() Date {
	return w.vp.FirstVisibleDate()
}

// LastVisibleDate returns the last visible date.
func (w *WeekView) LastVisibleDate() Date {
	return w.vp.LastVisibleDate()
}

// SlotsForDate exposes the resolved layout for one date: the rendering
// boundary for custom drawing pipelines. The slots are ordered
// deterministically; use the coordinate transforms to place them.
func (w *WeekView) SlotsForDate(d Date) []LayoutSlot {
	return w.cache.day(d).slots
}

// AllDayEventsForDate returns the date's all-day segments in strip row
// order.
func (w *WeekView) AllDayEventsForDate(d Date) []DaySegment {
	return w.cache.day(d).allDay
}

// Event returns a submitted event by ID.
func (w *WeekView) Event(id string) (CalendarEvent, bool) {
	ev, ok := w.cache.events[id]
	return ev, ok
}

// DateToX returns the grid-relative x position of a date's column.
func (w *WeekView) DateToX(d Date) float64 { return w.vp.DateToX(d) }

// XToDate returns the date at a grid-relative x position.
func (w *WeekView) XToDate(x float64) Date { return w.vp.XToDate(x) }

// HourToY returns the grid-relative y position of an hour of day.
func (w *WeekView) HourToY(hour float64) float64 { return w.vp.HourToY(hour) }

// YToHour returns the hour of day at a grid-relative y position.
func (w *WeekView) YToHour(y float64) float64 { return w.vp.YToHour(y) }

// SaveState serializes the minimal viewport configuration which should
// survive a destroy/recreate cycle of the hosting surface.
func (w *WeekView) SaveState() ([]byte, error) {
	return w.vp.snapshot()
}

// RestoreState applies a previously saved state. Safe to call before the
// first layout pass; the scroll target is deferred until dimensions are
// known.
func (w *WeekView) RestoreState(data []byte) error {
	if err := w.vp.restore(data); err != nil {
		return err
	}
	w.MarkDirty()
	return nil
}

// Animating reports whether a fling or snap animation is in flight.
func (w *WeekView) Animating() bool {
	return w.gesture.animating()
}

// Animate advances the animation one frame and reports whether the view
// changed.
func (w *WeekView) Animate(now time.Time) bool {
	if !w.gesture.animating() {
		return false
	}
	w.gesture.step(now)
	w.MarkDirty()
	return true
}

// layoutGrid computes the grid area from the inner rect and sizes the
// viewport, completing any deferred navigation on the first pass.
func (w *WeekView) layoutGrid() {
	x, y, width, height := w.GetInnerRect()

	allDayRows := w.visibleAllDayRowCount()
	headerRows := 1 + allDayRows

	w.gridX = x + hourGutterWidth
	w.gridY = y + headerRows
	w.gridWidth = max(width-hourGutterWidth-1, 0) // one column for the scroll indicator
	w.gridHeight = max(height-headerRows, 0)

	if float64(w.gridWidth) != w.vp.width || float64(w.gridHeight) != w.vp.height || !w.vp.sized {
		w.vp.setSize(float64(w.gridWidth), float64(w.gridHeight))
	}
}

// visibleAllDayRowCount returns the all-day strip height for the currently
// visible dates.
func (w *WeekView) visibleAllDayRowCount() int {
	if !w.vp.sized {
		return 0
	}
	rows := 0
	first := w.vp.FirstVisibleDate()
	for i := 0; i < w.vp.visibleDays+1; i++ {
		d := first.AddDays(i)
		if !w.dateRetained(d) {
			continue
		}
		rows = max(rows, len(w.cache.day(d).allDay))
	}
	return min(rows, maxAllDayRows)
}

func (w *WeekView) dateRetained(d Date) bool {
	if !w.cache.hasWindow {
		return false
	}
	return !d.Before(w.cache.retainedFirst) && !d.After(w.cache.retainedLast)
}

// reconcile moves the cache window to the visible range and reports range
// changes.
func (w *WeekView) reconcile() {
	first, last := w.vp.FirstVisibleDate(), w.vp.LastVisibleDate()
	w.cache.setWindow(first, last)
	if !w.rangeReported || first != w.reportedFirst || last != w.reportedLast {
		w.reportedFirst, w.reportedLast = first, last
		w.rangeReported = true
		if w.rangeChanged != nil {
			w.rangeChanged(first, last)
		}
	}
}

// Draw draws this primitive onto the screen.
func (w *WeekView) Draw(screen tcell.Screen) {
	w.DrawForSubclass(screen, w)
	w.chips = w.chips[:0]

	w.layoutGrid()
	if w.gridWidth <= 0 || w.gridHeight <= 0 {
		w.MarkClean()
		return
	}
	w.reconcile()
	// Reconciling may have pulled events that change the all-day strip
	// height; size the grid again so this frame already draws with the
	// final geometry.
	w.layoutGrid()

	w.drawHourGrid(screen)
	w.drawDays(screen)
	w.drawAllDayStrip(screen)
	w.drawScrollIndicator(screen)
	w.MarkClean()
}

// drawHourGrid draws the hour gutter labels and horizontal grid lines.
func (w *WeekView) drawHourGrid(screen tcell.Screen) {
	x, _, _, _ := w.GetInnerRect()
	for hour := int(math.Ceil(w.vp.minHour)); float64(hour) <= w.vp.maxHour; hour++ {
		row := int(math.Round(w.vp.HourToY(float64(hour))))
		if row < 0 || row >= w.gridHeight {
			continue
		}
		label := fmt.Sprintf("%02d:00", hour%24)
		printText(screen, label, x, w.gridY+row, hourGutterWidth-1, w.style.HourLabel)
		for col := 0; col < w.gridWidth; col++ {
			screen.SetContent(w.gridX+col, w.gridY+row, tcell.RuneHLine, nil, w.style.GridLine)
		}
	}
}

// drawDays draws, per visible day column, its separator line, header and
// event chips.
func (w *WeekView) drawDays(screen tcell.Screen) {
	_, y, _, _ := w.GetInnerRect()
	today := DateOf(w.now())
	first := w.vp.FirstVisibleDate()

	for i := 0; i <= w.vp.visibleDays; i++ {
		d := first.AddDays(i)
		dayX := w.vp.DateToX(d)
		col := int(math.Round(dayX))
		if col >= w.gridWidth {
			break
		}

		// Column separator.
		if col >= 0 {
			for row := 0; row < w.gridHeight; row++ {
				screen.SetContent(w.gridX+col, w.gridY+row, tcell.RuneVLine, nil, w.style.GridLine)
			}
		}

		// Header.
		headerStyle := w.style.Header
		if d == today {
			headerStyle = w.style.Today
		}
		header := fmt.Sprintf("%s %02d", d.Weekday().String()[:3], d.Day)
		headerX := w.gridX + max(col, 0) + 1
		headerWidth := min(int(w.vp.dayWidth)-1, w.gridWidth-max(col, 0)-1)
		printText(screen, header, headerX, y, headerWidth, headerStyle)

		if w.dateRetained(d) {
			w.drawDayChips(screen, d, dayX)
		}
	}
}

// drawDayChips draws the timed event chips of one day.
func (w *WeekView) drawDayChips(screen tcell.Screen, d Date, dayX float64) {
	entry := w.cache.day(d)
	window := w.vp.maxHour - w.vp.minHour
	gap := float64(w.style.ColumnGap)

	for _, slot := range entry.slots {
		count := float64(slot.ColumnCount)
		colWidth := (w.vp.dayWidth - 1 - gap*(count-1)) / count
		left := dayX + 1 + float64(slot.Column)*(colWidth+gap)
		right := left + colWidth

		// A lone event gets an inset; overlapping groups get the
		// inter-column gap instead.
		if slot.ColumnCount == 1 {
			inset := float64(w.style.SingleEventInset)
			if right-left > 2*inset+1 {
				left += inset
				right -= inset
			}
		}

		top := w.vp.HourToY(w.vp.minHour + slot.Segment.Start*window)
		bottom := w.vp.HourToY(w.vp.minHour + slot.Segment.End*window)

		x0 := int(math.Round(left))
		x1 := int(math.Round(right))
		y0 := int(math.Round(top))
		y1 := max(int(math.Round(bottom)), y0+1)

		// Clip to the grid area.
		x0, x1 = max(x0, 0), min(x1, w.gridWidth)
		y0, y1 = max(y0, 0), min(y1, w.gridHeight)
		if x1 <= x0 || y1 <= y0 {
			continue
		}

		style := w.chipStyle(slot.Segment.EventID, w.style.Chip)
		fillRect(screen, w.gridX+x0, w.gridY+y0, x1-x0, y1-y0, ' ', style)
		if ev, ok := w.cache.events[slot.Segment.EventID]; ok {
			printText(screen, ev.Title, w.gridX+x0, w.gridY+y0, x1-x0, style)
		}
		w.chips = append(w.chips, chipRect{
			x:       w.gridX + x0,
			y:       w.gridY + y0,
			width:   x1 - x0,
			height:  y1 - y0,
			eventID: slot.Segment.EventID,
		})
	}
}

// drawAllDayStrip draws the fixed-height strip of all-day chips between the
// header and the grid.
func (w *WeekView) drawAllDayStrip(screen tcell.Screen) {
	_, y, _, _ := w.GetInnerRect()
	rows := w.visibleAllDayRowCount()
	if rows == 0 {
		return
	}
	first := w.vp.FirstVisibleDate()

	for i := 0; i <= w.vp.visibleDays; i++ {
		d := first.AddDays(i)
		if !w.dateRetained(d) {
			continue
		}
		dayX := w.vp.DateToX(d)
		x0 := max(int(math.Round(dayX))+1, 0)
		x1 := min(int(math.Round(dayX+w.vp.dayWidth)), w.gridWidth)
		if x1 <= x0 {
			continue
		}
		for row, seg := range w.cache.day(d).allDay {
			if row >= rows {
				break
			}
			style := w.chipStyle(seg.EventID, w.style.AllDay)
			fillRect(screen, w.gridX+x0, y+1+row, x1-x0, 1, ' ', style)
			if ev, ok := w.cache.events[seg.EventID]; ok {
				printText(screen, ev.Title, w.gridX+x0, y+1+row, x1-x0, style)
			}
			w.chips = append(w.chips, chipRect{
				x:       w.gridX + x0,
				y:       y + 1 + row,
				width:   x1 - x0,
				height:  1,
				eventID: seg.EventID,
			})
		}
	}
}

// drawScrollIndicator draws the fractional vertical scroll thumb in the
// rightmost column, in 1/8-cell steps.
func (w *WeekView) drawScrollIndicator(screen tcell.Screen) {
	content := (w.vp.maxHour - w.vp.minHour) * w.vp.hourHeight
	if content <= float64(w.gridHeight) || w.gridHeight <= 0 {
		return
	}

	trackLen := w.gridHeight * scrollIndicatorSubcells
	thumbLen := max(int(float64(trackLen)*float64(w.gridHeight)/content), scrollIndicatorSubcells)
	maxOffset := content - float64(w.gridHeight)
	thumbStart := int(float64(trackLen-thumbLen) * (-w.vp.originY / maxOffset))

	x := w.gridX + w.gridWidth
	thumbStyle := tcell.StyleDefault.Background(w.GetBackgroundColor()).Foreground(Styles.ScrollIndicatorColor)
	for cell := 0; cell < w.gridHeight; cell++ {
		cellStart := cell * scrollIndicatorSubcells
		from := max(thumbStart, cellStart)
		to := min(thumbStart+thumbLen, cellStart+scrollIndicatorSubcells)
		fill := to - from
		if fill <= 0 {
			screen.SetContent(x, w.gridY+cell, ' ', nil, thumbStyle)
			continue
		}
		screen.SetContent(x, w.gridY+cell, scrollThumbGlyphs[min(fill, scrollIndicatorSubcells)-1], nil, thumbStyle)
	}
}

func (w *WeekView) chipStyle(eventID string, fallback ChipStyle) tcell.Style {
	chip := fallback
	if ev, ok := w.cache.events[eventID]; ok && ev.Style != nil {
		chip = *ev.Style
	}
	return tcell.StyleDefault.Background(chip.Background).Foreground(chip.Text)
}

// inGrid reports whether a screen coordinate is inside the grid area.
func (w *WeekView) inGrid(x, y int) bool {
	return x >= w.gridX && x < w.gridX+w.gridWidth && y >= w.gridY && y < w.gridY+w.gridHeight
}

// chipAt returns the chip under a screen coordinate.
func (w *WeekView) chipAt(x, y int) (chipRect, bool) {
	// Later chips draw over earlier ones, so scan backwards.
	for i := len(w.chips) - 1; i >= 0; i-- {
		c := w.chips[i]
		if x >= c.x && x < c.x+c.width && y >= c.y && y < c.y+c.height {
			return c, true
		}
	}
	return chipRect{}, false
}

// resolveClick dispatches a click or long click at a screen coordinate to
// the chip or empty-grid callbacks.
func (w *WeekView) resolveClick(x, y int, long bool) {
	if c, ok := w.chipAt(x, y); ok {
		ev, found := w.cache.events[c.eventID]
		if !found {
			return
		}
		fn := w.eventClicked
		if long {
			fn = w.eventLongClicked
		}
		if fn != nil {
			fn(ev, c.x, c.y, c.width, c.height)
		}
		return
	}
	if !w.inGrid(x, y) {
		return
	}
	fn := w.emptyClicked
	if long {
		fn = w.emptyLongClicked
	}
	if fn != nil {
		fn(w.vp.XToDate(float64(x-w.gridX)), w.vp.YToHour(float64(y-w.gridY)))
	}
}

// InputHandler returns the handler for this primitive.
func (w *WeekView) InputHandler() func(event *tcell.EventKey, setFocus func(p Primitive)) {
	return w.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p Primitive)) {
		now := w.now()
		switch event.Key() {
		case tcell.KeyUp:
			w.gesture.scrollStep(0, 1, now)
		case tcell.KeyDown:
			w.gesture.scrollStep(0, -1, now)
		case tcell.KeyLeft:
			w.gesture.scrollStep(-1, 0, now)
		case tcell.KeyRight:
			w.gesture.scrollStep(1, 0, now)
		case tcell.KeyPgUp:
			w.gesture.scrollStep(-w.vp.visibleDays, 0, now)
		case tcell.KeyPgDn:
			w.gesture.scrollStep(w.vp.visibleDays, 0, now)
		case tcell.KeyHome:
			w.GoToToday()
		case tcell.KeyRune:
			switch event.Rune() {
			case '+':
				if w.gesture.zoomEnabled {
					w.vp.setHourHeight(w.vp.hourHeight + 1)
				}
			case '-':
				if w.gesture.zoomEnabled {
					w.vp.setHourHeight(w.vp.hourHeight - 1)
				}
			case 't':
				w.GoToToday()
			default:
				return
			}
		default:
			return
		}
		w.MarkDirty()
	})
}

// MouseHandler returns the mouse handler for this primitive.
func (w *WeekView) MouseHandler() func(action MouseAction, event *tcell.EventMouse, setFocus func(p Primitive)) (consumed bool, capture Primitive) {
	return w.WrapMouseHandler(func(action MouseAction, event *tcell.EventMouse, setFocus func(p Primitive)) (consumed bool, capture Primitive) {
		x, y := event.Position()
		dragging := w.gesture.phase == gestureDragging || len(w.gesture.pointers) > 0
		if !w.InRect(x, y) && !dragging {
			return false, nil
		}
		now := event.When()

		switch action {
		case MouseLeftDown:
			setFocus(w)
			w.gesture.pointerDown(0, float64(x), float64(y), now)
			w.MarkDirty()
			return true, w
		case MouseMove:
			if len(w.gesture.pointers) == 0 {
				return false, nil
			}
			w.gesture.pointerMove(0, float64(x), float64(y), now)
			w.MarkDirty()
			return true, w
		case MouseLeftUp:
			w.gesture.pointerUp(0, now)
			w.MarkDirty()
			return true, nil
		case MouseLeftClick:
			w.resolveClick(x, y, false)
			return true, nil
		case MouseRightClick:
			w.resolveClick(x, y, true)
			return true, nil
		case MouseScrollUp:
			w.gesture.scrollStep(0, 2, now)
			w.MarkDirty()
			return true, nil
		case MouseScrollDown:
			w.gesture.scrollStep(0, -2, now)
			w.MarkDirty()
			return true, nil
		case MouseScrollLeft:
			w.gesture.scrollStep(-1, 0, now)
			w.MarkDirty()
			return true, nil
		case MouseScrollRight:
			w.gesture.scrollStep(1, 0, now)
			w.MarkDirty()
			return true, nil
		}
		return false, nil
	})
}

var (
	_ Primitive = (*WeekView)(nil)
	_ Animated  = (*WeekView)(nil)
)
