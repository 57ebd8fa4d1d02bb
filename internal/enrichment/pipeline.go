// Package enrichment runs image recognition and summarization over stored
// posts and patches the results back in.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	"github.com/orgball2608/squirrel-collector/internal/llm"
	"github.com/orgball2608/squirrel-collector/internal/metrics"
	"github.com/orgball2608/squirrel-collector/internal/repositories/post"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const defaultImageLimit = 3

var (
	ErrInFlight        = errors.New("post is already being enriched")
	ErrAlreadyEnriched = errors.New("post is already enriched")
)

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	LLM      llm.Client
	Posts    post.Repository
	Feishu   feishu.Client
	Registry *extractor.Registry
	Metrics  *metrics.Metrics `optional:"true"`
}

type Pipeline struct {
	llm      llm.Client
	posts    post.Repository
	feishu   feishu.Client
	registry *extractor.Registry
	logger   logger.Logger
	metrics  *metrics.Metrics

	pool       *ants.Pool
	wg         sync.WaitGroup
	runTimeout time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New(opts Opts) (*Pipeline, error) {
	workers := opts.Config.Enrichment.Workers
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create enrichment pool: %w", err)
	}

	return &Pipeline{
		llm:        opts.LLM,
		posts:      opts.Posts,
		feishu:     opts.Feishu,
		registry:   opts.Registry,
		logger:     opts.Logger.WithComponent("Enrichment"),
		metrics:    opts.Metrics,
		pool:       pool,
		runTimeout: opts.Config.Enrichment.RunTimeout,
		inFlight:   make(map[string]struct{}),
	}, nil
}

func (p *Pipeline) acquire(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[url]; busy {
		return false
	}
	p.inFlight[url] = struct{}{}
	return true
}

func (p *Pipeline) release(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, url)
}

// Submit schedules an enrichment run on the worker pool. Once started a run
// cannot be cancelled by the caller; it is bounded by the run timeout only.
func (p *Pipeline) Submit(target domain.CapturedPost, settings domain.Settings) error {
	if target.Enrichment != nil {
		return ErrAlreadyEnriched
	}
	if !p.acquire(target.CanonicalURL) {
		return ErrInFlight
	}

	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		defer p.release(target.CanonicalURL)

		ctx := context.Background()
		if p.runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
			defer cancel()
		}
		if _, err := p.run(ctx, target, settings); err != nil && !errors.Is(err, ErrAlreadyEnriched) {
			p.logger.Warn("Enrichment failed", "post_id", target.ID, "url", target.CanonicalURL, "error", err)
		}
	})
	if err != nil {
		p.wg.Done()
		p.release(target.CanonicalURL)
		return fmt.Errorf("submit enrichment: %w", err)
	}
	return nil
}

// Run enriches synchronously, guarded the same way as Submit.
func (p *Pipeline) Run(ctx context.Context, target domain.CapturedPost, settings domain.Settings) (domain.EnrichmentResult, error) {
	if !p.acquire(target.CanonicalURL) {
		return domain.EnrichmentResult{}, ErrInFlight
	}
	defer p.release(target.CanonicalURL)
	return p.run(ctx, target, settings)
}

func (p *Pipeline) run(ctx context.Context, target domain.CapturedPost, settings domain.Settings) (result domain.EnrichmentResult, err error) {
	start := time.Now()
	if p.metrics != nil {
		p.metrics.ActiveEnrichers.Inc()
		defer func() {
			p.metrics.ActiveEnrichers.Dec()
			p.metrics.EnrichmentTime.Observe(time.Since(start).Seconds())
			label := "ok"
			if err != nil {
				label = "error"
			}
			p.metrics.Enrichments.WithLabelValues(label).Inc()
		}()
	}

	if settings.APIKey == "" {
		return domain.EnrichmentResult{}, apperrors.WrapWithCode(llm.ErrNotConfigured, apperrors.CodeEnrichmentFailed, "enrich post")
	}

	var imageText string
	if settings.EnableImageRecognition && len(target.MediaURLs) > 0 {
		imageText = p.recognize(ctx, target, settings)
	}

	input := Assemble(target, imageText)
	result, err = p.llm.Summarize(ctx, settings, input)
	if err != nil {
		return domain.EnrichmentResult{}, apperrors.WrapWithCode(err, apperrors.CodeEnrichmentFailed, "summarize post")
	}

	if err := p.posts.SetEnrichment(ctx, target.ID, result); err != nil {
		if errors.Is(err, post.ErrAlreadyEnriched) {
			// another run got there first; its result stands and was synced by it
			p.logger.Info("Post enriched concurrently, dropping result", "post_id", target.ID)
			return domain.EnrichmentResult{}, ErrAlreadyEnriched
		}
		return domain.EnrichmentResult{}, apperrors.WrapWithCode(err, apperrors.CodeEnrichmentFailed, "store enrichment")
	}
	p.logger.Info("Post enriched", "post_id", target.ID, "category", result.Category, "sentiment", result.Sentiment)

	// exporting waits for the summary; a bare capture is never synced
	if settings.AutoSyncReady() {
		target.Enrichment = &result
		if err := p.feishu.Sync(ctx, *settings.Feishu, []domain.CapturedPost{target}); err != nil {
			p.logger.Error("Auto sync failed", "post_id", target.ID, "error", err)
		}
	}
	return result, nil
}

func (p *Pipeline) imageLimit(platform domain.Platform) int {
	if p.registry != nil {
		if e, err := p.registry.Get(platform); err == nil {
			return e.ImageLimit()
		}
	}
	return defaultImageLimit
}

// recognize runs one recognition per image concurrently. A failed image
// contributes nothing; the batch always completes.
func (p *Pipeline) recognize(ctx context.Context, target domain.CapturedPost, settings domain.Settings) string {
	images := target.MediaURLs
	if limit := p.imageLimit(target.Platform); len(images) > limit {
		images = images[:limit]
	}

	texts := make([]string, len(images))
	var g errgroup.Group
	for i, url := range images {
		g.Go(func() error {
			text, err := p.llm.RecognizeImage(ctx, settings, url)
			if err != nil {
				p.logger.Warn("Image recognition failed", "post_id", target.ID, "index", i, "error", err)
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	_ = g.Wait()

	return JoinImageText(texts)
}

// Close waits for running enrichments and releases the pool.
func (p *Pipeline) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("Abandoning in-flight enrichments on shutdown")
	}
	p.pool.Release()
	return nil
}

var Module = fx.Module("enrichment",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, p *Pipeline) {
		lc.Append(fx.Hook{OnStop: p.Close})
	}),
)
