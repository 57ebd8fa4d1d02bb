package collectorimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/internal/capture"
	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

func (c *CollectorImpl) SightPage(ctx context.Context, page collector.Page) (collector.SightReport, error) {
	on, err := c.Store.Continuous(ctx)
	if err != nil {
		return collector.SightReport{}, fmt.Errorf("read continuous mode: %w", err)
	}
	if !on {
		return collector.SightReport{}, collector.ErrContinuousOff
	}

	ext, err := c.Registry.Resolve(page.Platform, page.URL)
	if err != nil {
		return collector.SightReport{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return collector.SightReport{}, fmt.Errorf("parse page html: %w", err)
	}

	now := c.now()
	var items []domain.Sighting
	for _, raw := range ext.ExtractSightings(doc, page.URL) {
		if s, ok := c.Normalizer.Sighting(raw, now); ok {
			items = append(items, s)
		}
	}

	report, err := c.upsertSightings(ctx, items)
	if err != nil {
		return collector.SightReport{}, err
	}
	c.Logger.Debug("Sightings recorded", "url", page.URL, "inserted", report.Inserted, "merged", report.Merged, "skipped", report.Skipped)
	return report, nil
}

// upsertSightings folds items into the stored collection in order and
// writes it back.
func (c *CollectorImpl) upsertSightings(ctx context.Context, items []domain.Sighting) (collector.SightReport, error) {
	c.sightMu.Lock()
	defer c.sightMu.Unlock()

	existing, err := c.Store.Sightings(ctx)
	if err != nil {
		return collector.SightReport{}, fmt.Errorf("load sightings: %w", err)
	}

	coll := capture.NewCollection(c.sightingCapacity())
	coll.Restore(existing)

	var report collector.SightReport
	for _, item := range items {
		outcome := coll.Upsert(item)
		report.Add(outcome)
		if c.Metrics != nil {
			c.Metrics.Sightings.WithLabelValues(outcome.String()).Inc()
		}
	}
	report.Total = coll.Len()

	if report.Inserted == 0 && report.Merged == 0 {
		return report, nil
	}
	if err := c.Store.SaveSightings(ctx, coll.Items()); err != nil {
		return collector.SightReport{}, fmt.Errorf("save sightings: %w", err)
	}
	return report, nil
}

func (c *CollectorImpl) Continuous(ctx context.Context) (bool, error) {
	return c.Store.Continuous(ctx)
}

func (c *CollectorImpl) SetContinuous(ctx context.Context, on bool) error {
	if err := c.Store.SetContinuous(ctx, on); err != nil {
		return fmt.Errorf("set continuous mode: %w", err)
	}
	c.Logger.Info("Continuous mode changed", "on", on)
	return nil
}

func (c *CollectorImpl) Sightings(ctx context.Context) ([]domain.Sighting, error) {
	return c.Store.Sightings(ctx)
}

func (c *CollectorImpl) ClearSightings(ctx context.Context) error {
	c.sightMu.Lock()
	defer c.sightMu.Unlock()
	return c.Store.SaveSightings(ctx, nil)
}
