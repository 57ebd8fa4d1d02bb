package collectorimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/enrichment"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	"github.com/orgball2608/squirrel-collector/internal/fetcher"
	"github.com/orgball2608/squirrel-collector/internal/normalizer"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
)

func (c *CollectorImpl) CaptureURL(ctx context.Context, url string) (domain.CapturedPost, error) {
	ext, err := c.Registry.ForURL(url)
	if err != nil {
		return domain.CapturedPost{}, err
	}

	if timeout := c.Config.Collector.CaptureTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	page, err := c.Fetcher.Fetch(ctx, url, fetcher.Options{WaitSelector: ext.PostSelector()})
	if err != nil {
		return domain.CapturedPost{}, fmt.Errorf("fetch %s: %w", url, err)
	}

	return c.CapturePage(ctx, collector.Page{
		URL:      page.URL,
		HTML:     page.HTML,
		Platform: ext.Platform(),
	})
}

func (c *CollectorImpl) CapturePage(ctx context.Context, page collector.Page) (domain.CapturedPost, error) {
	ext, err := c.Registry.Resolve(page.Platform, page.URL)
	if err != nil {
		return domain.CapturedPost{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.CapturedPost{}, fmt.Errorf("parse page html: %w", err)
	}

	var sc = c.session(page.SessionID)
	focus := page.FocusSelector
	if focus == "" && sc != nil {
		focus = sc.Focused()
	}

	main := c.mainPost(doc, ext, page.URL, focus)
	if main == nil {
		c.reject(ext.Platform())
		return domain.CapturedPost{}, apperrors.WrapWithCode(collector.ErrNoPost, apperrors.CodeExtractionMiss, "find main post")
	}

	raw := ext.Extract(main, page.URL)

	current, err := c.SettingsRepo.Get(ctx)
	if err != nil {
		return domain.CapturedPost{}, fmt.Errorf("load settings: %w", err)
	}

	var thread comments.Result
	if current.EnableCommentCollection {
		thread = comments.Aggregate(doc.Selection, main, comments.Author{Handle: raw.AuthorHandle, Name: raw.Author}, ext.CommentRules())
	}

	now := c.now()
	captured, err := c.Normalizer.Normalize(raw, ext, page.URL, thread, now)
	if err != nil {
		c.reject(ext.Platform())
		return domain.CapturedPost{}, err
	}

	stored, err := c.PostRepo.Save(ctx, captured)
	if err != nil {
		return domain.CapturedPost{}, fmt.Errorf("save captured post: %w", err)
	}
	if c.Metrics != nil {
		c.Metrics.Captures.WithLabelValues(string(stored.Platform)).Inc()
	}
	c.Logger.Info("Post captured", "post_id", stored.ID, "platform", stored.Platform, "url", stored.CanonicalURL)

	if max := c.Config.Collector.MaxPosts; max > 0 {
		if n, err := c.PostRepo.TrimToLimit(ctx, max); err != nil {
			c.Logger.Error("Failed to trim stored posts", "error", err)
		} else if n > 0 {
			c.Logger.Info("Trimmed oldest posts", "deleted", n)
		}
	}

	if ext.IsDetailURL(page.URL) {
		if sc != nil {
			sc.MarkDetail(now)
		}
		c.recordDetail(ctx, stored)
	}

	if stored.Enrichment == nil && current.APIKey != "" {
		if err := c.Enricher.Submit(stored, current); err != nil {
			if errors.Is(err, enrichment.ErrInFlight) || errors.Is(err, enrichment.ErrAlreadyEnriched) {
				c.Logger.Debug("Enrichment not scheduled", "post_id", stored.ID, "reason", err)
			} else {
				c.Logger.Error("Failed to schedule enrichment", "post_id", stored.ID, "error", err)
			}
		}
	}

	return stored, nil
}

// mainPost picks the focused post when a selector is given, falling back to
// the extractor's own choice for the page.
func (c *CollectorImpl) mainPost(doc *goquery.Document, ext extractor.Extractor, pageURL, focus string) *goquery.Selection {
	if focus != "" {
		sel := doc.Find(focus).First()
		if sel.Length() > 0 {
			if !sel.Is(ext.PostSelector()) {
				if closest := sel.Closest(ext.PostSelector()); closest.Length() > 0 {
					sel = closest
				}
			}
			return sel
		}
		c.Logger.Debug("Focused element not found, using main post", "selector", focus)
	}

	main := ext.MainPost(doc, pageURL)
	if main == nil || main.Length() == 0 {
		return nil
	}
	return main
}

// recordDetail upserts the detail sighting when continuous mode is on. It
// only logs; a failed sighting never fails the capture.
func (c *CollectorImpl) recordDetail(ctx context.Context, stored domain.CapturedPost) {
	on, err := c.Store.Continuous(ctx)
	if err != nil {
		c.Logger.Error("Failed to read continuous mode", "error", err)
		return
	}
	if !on {
		return
	}
	if _, err := c.upsertSightings(ctx, []domain.Sighting{normalizer.DetailSighting(stored)}); err != nil {
		c.Logger.Error("Failed to record detail sighting", "url", stored.CanonicalURL, "error", err)
	}
}

func (c *CollectorImpl) reject(p domain.Platform) {
	if c.Metrics != nil {
		c.Metrics.Rejections.WithLabelValues(string(p)).Inc()
	}
}
