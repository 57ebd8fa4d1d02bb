package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "squirrel:session:"

var (
	continuousKey = keyPrefix + "continuous"
	sightingsKey  = keyPrefix + "sightings"
)

// Redis shares session state between several collector processes.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var _ Store = (*Redis)(nil)

func (r *Redis) Continuous(ctx context.Context) (bool, error) {
	v, err := r.client.Get(ctx, continuousKey).Bool()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get continuous flag: %w", err)
	}
	return v, nil
}

func (r *Redis) SetContinuous(ctx context.Context, on bool) error {
	if err := r.client.Set(ctx, continuousKey, on, 0).Err(); err != nil {
		return fmt.Errorf("set continuous flag: %w", err)
	}
	return nil
}

func (r *Redis) Sightings(ctx context.Context) ([]domain.Sighting, error) {
	raw, err := r.client.Get(ctx, sightingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sightings: %w", err)
	}

	var items []domain.Sighting
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode sightings: %w", err)
	}
	return items, nil
}

func (r *Redis) SaveSightings(ctx context.Context, items []domain.Sighting) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode sightings: %w", err)
	}
	if err := r.client.Set(ctx, sightingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save sightings: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, continuousKey, sightingsKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
