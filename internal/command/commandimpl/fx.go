package commandimpl

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/command"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

const restartDelay = 5 * time.Second

// run keeps the update loop alive until ctx is cancelled.
func run(ctx context.Context, c command.Client, log logger.Logger) {
	for {
		err := c.HandleCommand(ctx)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		log.Error("Command handler stopped, restarting", "error", err, "delay", restartDelay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelay):
		}
	}
}

var Module = fx.Module("command",
	fx.Provide(fx.Annotate(New, fx.As(new(command.Client)))),
	fx.Invoke(func(lc fx.Lifecycle, c command.Client, log logger.Logger) {
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go run(ctx, c, log)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
