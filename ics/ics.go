// Package ics turns iCalendar feeds into weekview events. It parses ICS
// payloads and fetches subscription URLs with conditional requests, so a
// feed polled on a schedule is only re-downloaded when it changed.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ayn2op/weekview"
)

// Details carries the VEVENT fields that have no direct slot on a calendar
// event. It is stored in the event's Payload.
type Details struct {
	Description string
	Location    string
}

// Parse converts one ICS payload into events. Malformed VEVENTs are logged
// and skipped; the rest of the feed still parses. An error is returned only
// when the payload as a whole is unreadable.
func Parse(body []byte, logger *slog.Logger) ([]weekview.CalendarEvent, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(body) == 0 {
		return nil, errors.New("ics: empty payload")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse calendar: %w", err)
	}

	events := make([]weekview.CalendarEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			logger.Warn("ics: skipping event", "err", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (weekview.CalendarEvent, error) {
	var out weekview.CalendarEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.ID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}

	var details Details
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		details.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		details.Location = p.Value
	}
	if details != (Details{}) {
		out.Payload = details
	}

	out.AllDay = isAllDay(ve.GetProperty(ical.ComponentPropertyDtStart))

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %s: DTSTART: %w", out.ID, err)
	}
	out.Start = start

	end, err := ve.GetEndAt()
	switch {
	case err == nil:
		out.End = end
	case out.AllDay:
		// DATE events without DTEND cover exactly one day; the exclusive
		// midnight end matches the feed convention.
		out.End = start.AddDate(0, 0, 1)
	default:
		out.End = start.Add(time.Hour)
	}

	if out.End.Before(out.Start) {
		return out, fmt.Errorf("event %s: DTEND before DTSTART", out.ID)
	}
	return out, nil
}

// isAllDay detects DATE-valued starts, either via VALUE=DATE or a value
// without a time component.
func isAllDay(dtStart *ical.IANAProperty) bool {
	if dtStart == nil {
		return false
	}
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(dtStart.Value, "T")
}

// feedState is the conditional-request state of one URL.
type feedState struct {
	etag         string
	lastModified string
	events       []weekview.CalendarEvent
}

// Client fetches ICS subscription URLs. It remembers ETag and Last-Modified
// per URL and answers 304 responses from its in-memory copy, so periodic
// refreshes of an unchanged feed cost one header exchange.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	feeds map[string]*feedState
}

// NewClient returns a Client with a 15 second request timeout.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		feeds:      make(map[string]*feedState),
	}
}

// SetHTTPClient replaces the underlying HTTP client, mostly for tests.
func (c *Client) SetHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// Fetch downloads and parses one feed. On a 304 or a network error with a
// previous copy available, the previous copy is returned.
func (c *Client) Fetch(ctx context.Context, url string) ([]weekview.CalendarEvent, error) {
	if url == "" {
		return nil, errors.New("ics: empty feed URL")
	}

	// Snapshot the per-feed state under the lock; cron triggers overlapping
	// a slow refresh make concurrent fetches of the same URL possible.
	c.mu.Lock()
	state := c.feeds[url]
	if state == nil {
		state = &feedState{}
		c.feeds[url] = state
	}
	etag, lastModified, previous := state.etag, state.lastModified, state.events
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ics: %w", err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if previous != nil {
			c.logger.Warn("ics: fetch failed, serving previous copy", "url", redactURL(url), "err", err)
			return previous, nil
		}
		return nil, fmt.Errorf("ics: fetch %s: %w", redactURL(url), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ics: read %s: %w", redactURL(url), err)
		}
		events, err := Parse(body, c.logger)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		state.etag = resp.Header.Get("ETag")
		state.lastModified = resp.Header.Get("Last-Modified")
		state.events = events
		c.mu.Unlock()
		c.logger.Info("ics: feed fetched", "url", redactURL(url), "events", len(events))
		return events, nil

	case http.StatusNotModified:
		if previous == nil {
			return nil, fmt.Errorf("ics: %s: 304 without a previous copy", redactURL(url))
		}
		return previous, nil

	default:
		if previous != nil {
			c.logger.Warn("ics: fetch failed, serving previous copy", "url", redactURL(url), "status", resp.StatusCode)
			return previous, nil
		}
		return nil, fmt.Errorf("ics: fetch %s: %s", redactURL(url), resp.Status)
	}
}

// redactURL strips the path and query from a feed URL for logging. Private
// feed URLs commonly embed access tokens.
func redactURL(u string) string {
	rest := u
	scheme := ""
	if i := strings.Index(u, "://"); i >= 0 {
		scheme, rest = u[:i+3], u[i+3:]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	return scheme + rest + "/..."
}
