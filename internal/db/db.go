package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/orgball2608/squirrel-collector/internal/migrations"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// Migrator applies the Go migrations before anything touches the pool.
type Migrator struct {
	dsn    string
	logger logger.Logger
}

func New(opts Opts) *Migrator {
	m := &Migrator{dsn: opts.Config.GetDSN(), logger: opts.Logger.WithComponent("Migrator")}
	opts.LC.Append(fx.Hook{OnStart: m.Up})
	return m
}

func (m *Migrator) Up(ctx context.Context) error {
	conn, err := sql.Open("postgres", m.dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	m.logger.Info("Schema is up to date", "version", version)
	return nil
}
