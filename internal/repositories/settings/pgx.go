package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/repositories"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
)

const (
	table = "settings"
	// the whole settings object lives in one row
	singletonID = 1
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("SettingsRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Get(ctx context.Context) (domain.Settings, error) {
	query, args, err := repositories.SqBuilder.
		Select("data").
		From(table).
		Where(sq.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return domain.Settings{}, repositories.ErrBadQuery
	}

	var raw []byte
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return decode(raw)
}

func decode(raw []byte) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func saveQuery(s domain.Settings, now time.Time) (string, []any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", nil, err
	}
	return repositories.SqBuilder.
		Insert(table).
		Columns("id", "data", "updated_at").
		Values(singletonID, raw, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
}

func (p *Pgx) Save(ctx context.Context, s domain.Settings) error {
	query, args, err := saveQuery(s, time.Now())
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	p.logger.Info("Settings saved", "provider", s.Provider, "feishu", s.Feishu.Complete())
	return nil
}
