package weekview

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWeekView(t *testing.T) (*WeekView, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(80, 30)

	w := NewWeekView()
	w.now = func() time.Time { return at(10, 12, 0) } // Tuesday 2026-03-10
	w.SetRect(0, 0, 80, 30)
	return w, sim
}

func findChip(w *WeekView, id string) (chipRect, bool) {
	for _, c := range w.chips {
		if c.eventID == id {
			return c, true
		}
	}
	return chipRect{}, false
}

func TestWeekViewDrawsChips(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.Submit([]CalendarEvent{
		{ID: "standup", Start: at(10, 9, 0), End: at(10, 10, 30), Title: "Standup"},
	})
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	assert.Equal(t, Date{2026, time.March, 9}, w.FirstVisibleDate())
	chip, ok := findChip(w, "standup")
	require.True(t, ok, "the chip must be recorded for click resolution")
	assert.Greater(t, chip.width, 0)
	assert.Greater(t, chip.height, 1, "a 90 minute event spans several rows at 2 cells/hour")

	primary, _, _, _ := sim.GetContent(chip.x, chip.y)
	assert.Equal(t, 'S', primary, "the title renders at the chip origin")
}

func TestWeekViewChipClick(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.Submit([]CalendarEvent{
		{ID: "standup", Start: at(10, 9, 0), End: at(10, 10, 0), Title: "Standup"},
	})
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	var clicked CalendarEvent
	var clickedRect [4]int
	w.SetEventClickedFunc(func(ev CalendarEvent, x, y, width, height int) {
		clicked = ev
		clickedRect = [4]int{x, y, width, height}
	})

	chip, ok := findChip(w, "standup")
	require.True(t, ok)
	handler := w.MouseHandler()
	consumed, _ := handler(MouseLeftClick, tcell.NewEventMouse(chip.x, chip.y, tcell.ButtonNone, 0), func(p Primitive) {})

	assert.True(t, consumed)
	assert.Equal(t, "standup", clicked.ID)
	assert.Equal(t, [4]int{chip.x, chip.y, chip.width, chip.height}, clickedRect)
}

func TestWeekViewLongClick(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.Submit([]CalendarEvent{
		{ID: "standup", Start: at(10, 9, 0), End: at(10, 10, 0), Title: "Standup"},
	})
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	var long string
	w.SetEventLongClickedFunc(func(ev CalendarEvent, x, y, width, height int) { long = ev.ID })

	chip, ok := findChip(w, "standup")
	require.True(t, ok)
	w.MouseHandler()(MouseRightClick, tcell.NewEventMouse(chip.x, chip.y, tcell.ButtonNone, 0), func(p Primitive) {})
	assert.Equal(t, "standup", long)
}

func TestWeekViewDiagnosticFunc(t *testing.T) {
	w, _ := newTestWeekView(t)
	var got []error
	w.SetDiagnosticFunc(func(err error) { got = append(got, err) })

	w.Submit([]CalendarEvent{{ID: "bad", Start: at(10, 10, 0), End: at(10, 9, 0)}})
	require.Len(t, got, 1)
	_, ok := w.Event("bad")
	assert.False(t, ok)
}

func TestWeekViewEmptyClickResolvesDateAndHour(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	var gotDate Date
	var gotHour float64
	w.SetEmptyClickedFunc(func(d Date, hour float64) {
		gotDate, gotHour = d, hour
	})

	handler := w.MouseHandler()
	handler(MouseLeftClick, tcell.NewEventMouse(w.gridX, w.gridY+4, tcell.ButtonNone, 0), func(p Primitive) {})

	assert.Equal(t, Date{2026, time.March, 9}, gotDate)
	assert.InDelta(t, 2.0, gotHour, 1e-9, "row 4 at 2 cells/hour is 02:00")
}

func TestWeekViewRangeChangedOncePerRange(t *testing.T) {
	w, sim := newTestWeekView(t)
	var ranges [][2]Date
	w.SetRangeChangedFunc(func(first, last Date) {
		ranges = append(ranges, [2]Date{first, last})
	})
	w.GoToDate(Date{2026, time.March, 9})

	w.Draw(sim)
	w.Draw(sim)
	require.Len(t, ranges, 1, "an unchanged range is not re-reported")
	assert.Equal(t, [2]Date{{2026, time.March, 9}, {2026, time.March, 15}}, ranges[0])

	w.GoToDate(Date{2026, time.March, 16})
	w.Draw(sim)
	require.Len(t, ranges, 2)
	assert.Equal(t, Date{2026, time.March, 16}, ranges[1][0])
}

func TestWeekViewLoadMoreAndDeliver(t *testing.T) {
	w, sim := newTestWeekView(t)
	var reqStart, reqEnd Date
	w.SetLoadMoreFunc(func(start, end Date) { reqStart, reqEnd = start, end })
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	// The requested range is the visible week plus the prefetch margin.
	assert.Equal(t, Date{2026, time.March, 2}, reqStart)
	assert.Equal(t, Date{2026, time.March, 22}, reqEnd)

	fetched := []CalendarEvent{{ID: "fetched", Start: at(11, 9, 0), End: at(11, 10, 0), Title: "Fetched"}}

	// A delivery for a range nobody asked for is dropped.
	w.DeliverEvents(reqStart.AddDays(1), reqEnd, fetched)
	_, ok := w.Event("fetched")
	assert.False(t, ok)

	w.DeliverEvents(reqStart, reqEnd, fetched)
	_, ok = w.Event("fetched")
	assert.True(t, ok)
	w.Draw(sim)
	_, ok = findChip(w, "fetched")
	assert.True(t, ok)
}

func TestWeekViewSaveRestoreState(t *testing.T) {
	w, sim := newTestWeekView(t)
	require.NoError(t, w.SetVisibleDays(5))
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	data, err := w.SaveState()
	require.NoError(t, err)

	// Restore into a fresh widget before its first draw.
	restored, sim2 := newTestWeekView(t)
	require.NoError(t, restored.RestoreState(data))
	restored.Draw(sim2)

	assert.Equal(t, Date{2026, time.March, 9}, restored.FirstVisibleDate())
	assert.Equal(t, Date{2026, time.March, 13}, restored.LastVisibleDate())
}

func TestWeekViewKeyboardNavigation(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	handler := w.InputHandler()
	handler(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), func(p Primitive) {})
	assert.Equal(t, Date{2026, time.March, 10}, w.FirstVisibleDate())

	handler(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), func(p Primitive) {})
	assert.Equal(t, Date{2026, time.March, 17}, w.FirstVisibleDate())

	handler(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), func(p Primitive) {})
	assert.Equal(t, Date{2026, time.March, 10}, w.FirstVisibleDate(), "'t' returns to today")
}

func TestWeekViewScrollWheel(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	handler := w.MouseHandler()
	handler(MouseScrollDown, tcell.NewEventMouse(w.gridX+2, w.gridY+2, tcell.ButtonNone, 0), func(p Primitive) {})
	assert.InDelta(t, 1.0, w.YToHour(0), 1e-9, "one wheel notch scrolls an hour")

	handler(MouseScrollRight, tcell.NewEventMouse(w.gridX+2, w.gridY+2, tcell.ButtonNone, 0), func(p Primitive) {})
	assert.Equal(t, Date{2026, time.March, 10}, w.FirstVisibleDate())
}

func TestWeekViewAllDayStrip(t *testing.T) {
	w, sim := newTestWeekView(t)
	w.Submit([]CalendarEvent{
		{ID: "conf", Start: at(10, 0, 0), End: at(12, 0, 0), AllDay: true, Title: "Conf"},
	})
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)

	segs := w.AllDayEventsForDate(Date{2026, time.March, 10})
	require.Len(t, segs, 1)
	assert.Equal(t, 2, segs[0].spanDays)

	chip, ok := findChip(w, "conf")
	require.True(t, ok)
	assert.Equal(t, 1, chip.height, "all-day chips occupy one strip row")

	// The very first frame already reserves the strip row: the grid starts
	// below the header plus one strip row, and the chip sits between them.
	assert.Equal(t, 2, w.gridY)
	assert.Equal(t, 1, chip.y)
}

func TestWeekViewVisibleDaysValidation(t *testing.T) {
	w, sim := newTestWeekView(t)
	assert.Error(t, w.SetVisibleDays(0))

	require.NoError(t, w.SetVisibleDays(3))
	w.GoToDate(Date{2026, time.March, 9})
	w.Draw(sim)
	assert.Equal(t, Date{2026, time.March, 11}, w.LastVisibleDate())
}
