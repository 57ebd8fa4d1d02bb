package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/squirrel-collector/internal/app"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Opts{Env: cfg.App.Env, SentryDSN: cfg.App.SentryUrl})
	defer logger.Flush()

	app := fx.New(
		fx.Logger(log),
		app.Module,
		app.Telegram(cfg),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := app.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
