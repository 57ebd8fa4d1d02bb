package collectorimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/fetcher"
	"github.com/orgball2608/squirrel-collector/internal/session"
)

const listScrolls = 2

// Schedule registers the URL polling job and the daily retention job.
// Both stop when ctx is done.
func (c *CollectorImpl) Schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := c.Config.Session.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			c.poll(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule url polling: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, skipping retention job")
				return
			}
			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()
			c.enforceRetention(cleanupCtx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}

	scheduler.Start()
	c.Logger.Info("Collector jobs scheduled", "poll_interval", interval.String())

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping collector scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down collector scheduler", "error", err)
		}
	}()

	return nil
}

// poll checks every attached session for a URL change. Polling is the
// accepted way to notice client-side routing; the per-session debounce keeps
// rapid back-and-forth navigation from stacking detail captures.
func (c *CollectorImpl) poll(ctx context.Context) {
	on, err := c.Store.Continuous(ctx)
	if err != nil {
		c.Logger.Error("Failed to read continuous mode", "error", err)
		return
	}

	now := c.now()
	for _, sc := range c.attached() {
		url, changed := sc.Observe(now, c.Config.Session.Debounce)
		if !changed || !on {
			continue
		}
		c.follow(ctx, sc, url)
	}
}

// follow captures whatever a session navigated to: the post itself on a
// detail page, sightings on a list page. Failures are background noise and
// only logged.
func (c *CollectorImpl) follow(ctx context.Context, sc *session.Context, url string) {
	ext, err := c.Registry.ForURL(url)
	if err != nil {
		c.Logger.Debug("Ignoring navigation to unsupported page", "session_id", sc.ID, "url", url)
		return
	}

	if ext.IsDetailURL(url) {
		if _, err := c.CaptureURL(ctx, url); err != nil {
			c.Logger.Warn("Background capture failed", "session_id", sc.ID, "url", url, "error", err)
		}
		return
	}

	page, err := c.Fetcher.Fetch(ctx, url, fetcher.Options{WaitSelector: ext.PostSelector(), Scrolls: listScrolls})
	if err != nil {
		c.Logger.Warn("Background fetch failed", "session_id", sc.ID, "url", url, "error", err)
		return
	}
	_, err = c.SightPage(ctx, collector.Page{URL: page.URL, HTML: page.HTML, Platform: ext.Platform(), SessionID: sc.ID})
	if err != nil && !errors.Is(err, collector.ErrContinuousOff) {
		c.Logger.Warn("Background sighting failed", "session_id", sc.ID, "url", url, "error", err)
	}
}

func (c *CollectorImpl) enforceRetention(ctx context.Context) {
	c.Logger.Info("Starting scheduled retention job")

	if retention := c.Config.Collector.Retention; retention > 0 {
		deleted, err := c.PostRepo.DeleteOlderThan(ctx, c.now().Add(-retention))
		if err != nil {
			c.Logger.Error("Failed to delete expired posts", "error", err)
		} else {
			c.Logger.Info("Expired posts deleted", "rows_deleted", deleted)
		}
	}

	if max := c.Config.Collector.MaxPosts; max > 0 {
		deleted, err := c.PostRepo.TrimToLimit(ctx, max)
		if err != nil {
			c.Logger.Error("Failed to trim stored posts", "error", err)
			return
		}
		c.Logger.Info("Stored posts trimmed", "rows_deleted", deleted)
	}
}
