package collectorimpl

import (
	"context"

	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/enrichment"
	"go.uber.org/fx"
)

var Module = fx.Module("collector",
	fx.Provide(
		func(p *enrichment.Pipeline) Enricher { return p },
		fx.Annotate(New, fx.As(new(collector.Client))),
	),
	fx.Invoke(func(lc fx.Lifecycle, c collector.Client) {
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return c.Schedule(ctx) },
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
