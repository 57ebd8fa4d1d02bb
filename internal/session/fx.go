package session

import (
	"context"
	"fmt"

	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

// NewStore picks the configured backend and wipes it on start, the same
// way a browser drops session storage on restart.
func NewStore(opts Opts) (Store, error) {
	var (
		store   Store
		closeFn func() error
	)

	switch opts.Config.Session.Store {
	case StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Config.Redis.Addr,
			Password: opts.Config.Redis.Password,
			DB:       opts.Config.Redis.DB,
		})
		store, closeFn = NewRedis(client), client.Close
	case StoreMemory, "":
		store = NewMemory()
	default:
		return nil, fmt.Errorf("unknown session store %q", opts.Config.Session.Store)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			opts.Logger.Info("Session state cleared", "store", opts.Config.Session.Store)
			return nil
		},
		OnStop: func(context.Context) error {
			if closeFn != nil {
				return closeFn()
			}
			return nil
		},
	})
	return store, nil
}

var Module = fx.Module("session", fx.Provide(NewStore))
