package commandimpl

import (
	"time"

	"github.com/orgball2608/squirrel-collector/internal/command"
	"github.com/orgball2608/squirrel-collector/internal/message"
	"github.com/orgball2608/squirrel-collector/internal/ratelimit"
	"github.com/orgball2608/squirrel-collector/internal/telegram"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram   telegram.Client
	Dispatcher *message.Dispatcher
	Logger     logger.Logger
	Config     *config.Config
}

type CommandImpl struct {
	Telegram   telegram.Client
	Dispatcher *message.Dispatcher
	Logger     logger.Logger
	Config     *config.Config
	Limiter    ratelimit.Limiter[int64]
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:   opts.Telegram,
		Dispatcher: opts.Dispatcher,
		Logger:     opts.Logger.WithComponent("Command"),
		Config:     opts.Config,
		Limiter:    ratelimit.NewKeyed[int64](1, 5*time.Second, 3),
	}
}

var _ command.Client = (*CommandImpl)(nil)
