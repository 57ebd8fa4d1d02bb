package collectorimpl

import (
	"sync"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/capture"
	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/enrichment"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	"github.com/orgball2608/squirrel-collector/internal/fetcher"
	"github.com/orgball2608/squirrel-collector/internal/metrics"
	"github.com/orgball2608/squirrel-collector/internal/normalizer"
	"github.com/orgball2608/squirrel-collector/internal/repositories/post"
	"github.com/orgball2608/squirrel-collector/internal/repositories/settings"
	"github.com/orgball2608/squirrel-collector/internal/session"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

// Enricher is the part of the enrichment pipeline capture needs.
type Enricher interface {
	Submit(target domain.CapturedPost, settings domain.Settings) error
}

var _ Enricher = (*enrichment.Pipeline)(nil)

type Opts struct {
	fx.In

	Config       *config.Config
	Logger       logger.Logger
	Registry     *extractor.Registry
	Fetcher      fetcher.Fetcher
	PostRepo     post.Repository
	SettingsRepo settings.Repository
	Store        session.Store
	Enricher     Enricher
	Metrics      *metrics.Metrics `optional:"true"`
}

type CollectorImpl struct {
	Config       *config.Config
	Logger       logger.Logger
	Registry     *extractor.Registry
	Fetcher      fetcher.Fetcher
	PostRepo     post.Repository
	SettingsRepo settings.Repository
	Store        session.Store
	Enricher     Enricher
	Metrics      *metrics.Metrics
	Normalizer   *normalizer.Normalizer

	now func() time.Time

	// sightMu serializes read-modify-write of the stored sighting collection
	// so concurrent list and detail captures cannot lose each other's writes.
	sightMu sync.Mutex

	sessionsMu sync.RWMutex
	sessions   map[string]*session.Context
}

var _ collector.Client = (*CollectorImpl)(nil)

func New(opts Opts) *CollectorImpl {
	return &CollectorImpl{
		Config:       opts.Config,
		Logger:       opts.Logger.WithComponent("Collector"),
		Registry:     opts.Registry,
		Fetcher:      opts.Fetcher,
		PostRepo:     opts.PostRepo,
		SettingsRepo: opts.SettingsRepo,
		Store:        opts.Store,
		Enricher:     opts.Enricher,
		Metrics:      opts.Metrics,
		Normalizer:   normalizer.New(),
		now:          time.Now,
		sessions:     make(map[string]*session.Context),
	}
}

func (c *CollectorImpl) sightingCapacity() int {
	if n := c.Config.Collector.SightingCapacity; n > 0 {
		return n
	}
	return capture.DefaultCapacity
}
