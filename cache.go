package weekview

import (
	"fmt"
	"sort"
)

// prefetchDays is the margin, on each side of the visible range, of dates
// kept laid out so scrolling into them is seamless.
const prefetchDays = 7

// instantFloorHours is the minimum visual duration for zero-length events.
const instantFloorHours = 0.25

type dayEntry struct {
	slots  []LayoutSlot
	allDay []DaySegment
	valid  bool
}

type fetchRequest struct {
	start, end Date
	gen        uint64
}

// eventCache holds the materialized events for the retained date window and
// decides which dates need re-layout when the event set or the window
// changes. Layout results are computed lazily per date and kept until the
// date leaves the retained window or one of its events changes.
type eventCache struct {
	minHour, maxHour float64

	events       map[string]CalendarEvent
	seq          map[string]int
	segmentsByID map[string][]DaySegment
	index        map[Date]map[string]struct{}
	byDate       map[Date]*dayEntry

	nextSeq int

	retainedFirst, retainedLast Date
	hasWindow                   bool

	coveredFirst, coveredLast Date
	hasCovered                bool

	pending  *fetchRequest
	fetchGen uint64

	source   EventSource
	loadMore LoadMoreFunc
	diagnose DiagnosticFunc

	// layoutCount counts day re-layouts, so tests can observe that
	// unchanged submissions trigger no recomputation.
	layoutCount int
}

func newEventCache(minHour, maxHour float64) *eventCache {
	return &eventCache{
		minHour:      minHour,
		maxHour:      maxHour,
		events:       make(map[string]CalendarEvent),
		seq:          make(map[string]int),
		segmentsByID: make(map[string][]DaySegment),
		index:        make(map[Date]map[string]struct{}),
		byDate:       make(map[Date]*dayEntry),
	}
}

// submit replaces the event set wholesale and invalidates exactly the dates
// whose segment set changed. Events whose schedule is unchanged keep their
// submission order so re-layouts of untouched days stay byte-identical.
func (c *eventCache) submit(events []CalendarEvent) {
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if _, dup := seen[ev.ID]; dup && ev.ID != "" {
			c.report(fmt.Errorf("duplicate event id %q, keeping the first", ev.ID))
			continue
		}
		seen[ev.ID] = struct{}{}

		old, exists := c.events[ev.ID]
		if exists && old.sameSchedule(ev) {
			// Style or payload may still differ; refresh the stored event
			// without touching layout.
			c.events[ev.ID] = ev
			continue
		}
		c.upsert(ev)
	}

	for id := range c.events {
		if _, ok := seen[id]; !ok {
			c.remove(id)
		}
	}
}

// merge adds fetched events without removing ones outside the fetched
// range.
func (c *eventCache) merge(events []CalendarEvent) {
	for _, ev := range events {
		if old, ok := c.events[ev.ID]; ok && old.sameSchedule(ev) {
			c.events[ev.ID] = ev
			continue
		}
		c.upsert(ev)
	}
}

func (c *eventCache) upsert(ev CalendarEvent) {
	s, ok := c.seq[ev.ID]
	if !ok {
		s = c.nextSeq
		c.nextSeq++
	}
	segments, err := normalizeEvent(ev, c.minHour, c.maxHour, s)
	if err != nil {
		c.report(err)
		if _, existed := c.events[ev.ID]; existed {
			c.remove(ev.ID)
		}
		return
	}

	c.unindex(ev.ID)
	c.events[ev.ID] = ev
	c.seq[ev.ID] = s
	c.segmentsByID[ev.ID] = segments
	for _, seg := range segments {
		ids := c.index[seg.Date]
		if ids == nil {
			ids = make(map[string]struct{})
			c.index[seg.Date] = ids
		}
		ids[ev.ID] = struct{}{}
		c.invalidate(seg.Date)
	}
}

func (c *eventCache) remove(id string) {
	c.unindex(id)
	delete(c.events, id)
	delete(c.seq, id)
	delete(c.segmentsByID, id)
}

// unindex drops an event's date index entries and invalidates the dates it
// used to touch.
func (c *eventCache) unindex(id string) {
	for _, seg := range c.segmentsByID[id] {
		if ids := c.index[seg.Date]; ids != nil {
			delete(ids, id)
			if len(ids) == 0 {
				delete(c.index, seg.Date)
			}
		}
		c.invalidate(seg.Date)
	}
}

func (c *eventCache) invalidate(d Date) {
	if entry := c.byDate[d]; entry != nil {
		entry.valid = false
	}
}

// invalidateAll forces re-normalization and re-layout of every event, used
// when the hour window changes.
func (c *eventCache) invalidateAll(minHour, maxHour float64) {
	c.minHour, c.maxHour = minHour, maxHour
	events := c.events
	c.events = make(map[string]CalendarEvent, len(events))
	c.segmentsByID = make(map[string][]DaySegment, len(events))
	c.index = make(map[Date]map[string]struct{})
	c.byDate = make(map[Date]*dayEntry)
	for _, ev := range events {
		c.upsert(ev)
	}
}

// day returns the laid-out entry for a date, recomputing it only when its
// valid bit is unset.
func (c *eventCache) day(d Date) *dayEntry {
	entry := c.byDate[d]
	if entry == nil {
		entry = &dayEntry{}
		c.byDate[d] = entry
	}
	if entry.valid {
		return entry
	}

	ids := make([]string, 0, len(c.index[d]))
	for id := range c.index[d] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return c.seq[ids[i]] < c.seq[ids[j]] })

	segments := make([]DaySegment, 0, len(ids))
	for _, id := range ids {
		for _, seg := range c.segmentsByID[id] {
			if seg.Date == d {
				segments = append(segments, seg)
			}
		}
	}

	window := c.maxHour - c.minHour
	minDuration := 0.0
	if window > 0 {
		minDuration = instantFloorHours / window
	}
	entry.slots = layoutDay(segments, minDuration)
	entry.allDay = allDayRows(segments)
	entry.valid = true
	c.layoutCount++
	return entry
}

// setWindow moves the retained window (visible range plus prefetch margin),
// evicts dates that left it, and requests a fetch when the window reaches
// uncovered territory.
func (c *eventCache) setWindow(first, last Date) {
	first = first.AddDays(-prefetchDays)
	last = last.AddDays(prefetchDays)
	if c.hasWindow && first == c.retainedFirst && last == c.retainedLast {
		return
	}
	c.retainedFirst, c.retainedLast = first, last
	c.hasWindow = true

	for d := range c.byDate {
		if d.Before(first) || d.After(last) {
			delete(c.byDate, d)
		}
	}

	if !c.hasCovered || first.Before(c.coveredFirst) || last.After(c.coveredLast) {
		c.request(first, last)
	}
}

// request triggers at most one external fetch per distinct range. A newer
// request for a different range supersedes the pending one; the superseded
// request's eventual result is discarded.
func (c *eventCache) request(start, end Date) {
	if c.pending != nil && c.pending.start == start && c.pending.end == end {
		return
	}
	c.fetchGen++
	c.pending = &fetchRequest{start: start, end: end, gen: c.fetchGen}

	if c.loadMore != nil {
		c.loadMore(start, end)
	}
	if c.source != nil {
		// Synchronous pull source resolves immediately.
		c.resolve(c.fetchGen, c.source(start, end))
	}
}

// resolve delivers the result of a fetch. Results for superseded or unknown
// generations are dropped, not merged.
func (c *eventCache) resolve(gen uint64, events []CalendarEvent) {
	if c.pending == nil || gen != c.pending.gen {
		return
	}
	req := *c.pending
	c.pending = nil
	c.merge(events)
	if !c.hasCovered {
		c.coveredFirst, c.coveredLast = req.start, req.end
		c.hasCovered = true
		return
	}
	c.coveredFirst = minDate(c.coveredFirst, req.start)
	c.coveredLast = maxDateOf(c.coveredLast, req.end)
}

// refresh drops the pending fetch and all coverage so the next window
// change fetches again, used after a failed or stale external load.
func (c *eventCache) refresh() {
	c.pending = nil
	c.hasCovered = false
	for _, entry := range c.byDate {
		entry.valid = false
	}
}

func (c *eventCache) report(err error) {
	if c.diagnose != nil {
		c.diagnose(err)
	}
}
