package app

import (
	"github.com/orgball2608/squirrel-collector/internal/collector/collectorimpl"
	"github.com/orgball2608/squirrel-collector/internal/command/commandimpl"
	"github.com/orgball2608/squirrel-collector/internal/db"
	"github.com/orgball2608/squirrel-collector/internal/enrichment"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	"github.com/orgball2608/squirrel-collector/internal/feishu/feishuimpl"
	"github.com/orgball2608/squirrel-collector/internal/fetcher/fetcherimpl"
	"github.com/orgball2608/squirrel-collector/internal/httpapi"
	"github.com/orgball2608/squirrel-collector/internal/llm"
	"github.com/orgball2608/squirrel-collector/internal/llm/llmimpl"
	"github.com/orgball2608/squirrel-collector/internal/message"
	"github.com/orgball2608/squirrel-collector/internal/metrics"
	repositories "github.com/orgball2608/squirrel-collector/internal/repositories/fx"
	"github.com/orgball2608/squirrel-collector/internal/session"
	"github.com/orgball2608/squirrel-collector/internal/telegram/telegramimpl"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/orgball2608/squirrel-collector/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		extractor.DefaultRegistry,
	),
	fx.Provide(
		fx.Annotate(
			llmimpl.New,
			fx.As(new(llm.Client)),
		),
		fx.Annotate(
			feishuimpl.New,
			fx.As(new(feishu.Client)),
		),
	),
	fx.Invoke(db.New),
	metrics.Module,
	repositories.Module,
	session.Module,
	fetcherimpl.Module,
	enrichment.Module,
	collectorimpl.Module,
	message.Module,
	httpapi.Module,
)

// Telegram wires the bot only when it is enabled, so the service runs
// without a token.
func Telegram(cfg *config.Config) fx.Option {
	if cfg == nil || !cfg.Telegram.Enabled {
		return fx.Options()
	}
	return fx.Options(
		telegramimpl.Module,
		commandimpl.Module,
	)
}
