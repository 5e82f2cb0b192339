// Command weekview is a terminal calendar fed by ICS subscriptions. It shows
// the feeds in a scrollable week grid and refreshes them on a cron schedule.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ayn2op/weekview"
	"github.com/ayn2op/weekview/ics"
)

var (
	flagConfig string
	flagDays   int
	flagFeeds  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "weekview",
		Short:        "Terminal week calendar for ICS feeds",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to the YAML config file")
	rootCmd.Flags().IntVarP(&flagDays, "days", "d", 0, "number of visible day columns")
	rootCmd.Flags().StringArrayVarP(&flagFeeds, "feed", "f", nil, "ICS feed URL, repeatable")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// calendarUI adds application-level keys on top of the week view: q and
// Ctrl-C quit.
type calendarUI struct {
	*weekview.WeekView
	app *weekview.Application
}

func (c *calendarUI) InputHandler() func(event *tcell.EventKey, setFocus func(p weekview.Primitive)) {
	inner := c.WeekView.InputHandler()
	return func(event *tcell.EventKey, setFocus func(p weekview.Primitive)) {
		if event.Key() == tcell.KeyCtrlC || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			c.app.Stop()
			return
		}
		inner(event, setFocus)
	}
}

func run() error {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagDays > 0 {
		cfg.VisibleDays = flagDays
	}
	cfg.Feeds = append(cfg.Feeds, flagFeeds...)

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	app := weekview.NewApplication()
	view := weekview.NewWeekView().SetLogger(logger)
	if err := view.SetVisibleDays(cfg.VisibleDays); err != nil {
		return err
	}
	if err := view.SetHourRange(cfg.MinHour, cfg.MaxHour); err != nil {
		return err
	}
	view.SetFirstDayOfWeek(cfg.weekStart()).
		SetShowFirstDayOfWeekFirst(true).
		SetTitle(" weekview ")
	view.SetBorder(true)
	view.SetEventClickedFunc(func(ev weekview.CalendarEvent, x, y, width, height int) {
		view.SetTitle(fmt.Sprintf(" %s ", ev.Title))
	})
	view.SetRangeChangedFunc(func(first, last weekview.Date) {
		logger.Debug("visible range changed", "first", first.String(), "last", last.String())
	})

	if cfg.StateFile != "" {
		if data, err := os.ReadFile(cfg.StateFile); err == nil {
			if err := view.RestoreState(data); err != nil {
				logger.Warn("state restore failed", "err", err)
			}
		}
	}
	_ = view.GoToHour(8)

	client := ics.NewClient(logger)
	refresh := func(submit func([]weekview.CalendarEvent)) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		var all []weekview.CalendarEvent
		for _, url := range cfg.Feeds {
			events, err := client.Fetch(ctx, url)
			if err != nil {
				logger.Error("feed refresh failed", "err", err)
				continue
			}
			all = append(all, events...)
		}
		submit(all)
	}

	// First load before the screen comes up.
	if len(cfg.Feeds) > 0 {
		refresh(func(events []weekview.CalendarEvent) { view.Submit(events) })
	}

	scheduler := cron.New()
	if len(cfg.Feeds) > 0 {
		if _, err := scheduler.AddFunc(cfg.RefreshCron, func() {
			refresh(func(events []weekview.CalendarEvent) {
				app.QueueUpdateDraw(func() { view.Submit(events) })
			})
		}); err != nil {
			return fmt.Errorf("refresh schedule %q: %w", cfg.RefreshCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ui := &calendarUI{WeekView: view, app: app}
	if err := app.SetRoot(ui).Run(); err != nil {
		return err
	}

	if cfg.StateFile != "" {
		data, err := view.SaveState()
		if err == nil {
			err = os.WriteFile(cfg.StateFile, data, 0o600)
		}
		if err != nil {
			logger.Warn("state save failed", "err", err)
		}
	}
	return nil
}

// newLogger opens the log sink. The terminal owns stderr while the UI runs,
// so diagnostics go to a file or nowhere.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
