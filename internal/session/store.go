package session

import (
	"context"
	"sync"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Store keeps session-scoped state. It is cleared when the process starts.
type Store interface {
	Continuous(ctx context.Context) (bool, error)
	SetContinuous(ctx context.Context, on bool) error
	Sightings(ctx context.Context) ([]domain.Sighting, error)
	SaveSightings(ctx context.Context, items []domain.Sighting) error
	Clear(ctx context.Context) error
}

type Memory struct {
	mu         sync.RWMutex
	continuous bool
	sightings  []domain.Sighting
}

func NewMemory() *Memory {
	return &Memory{}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Continuous(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.continuous, nil
}

func (m *Memory) SetContinuous(_ context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.continuous = on
	return nil
}

func (m *Memory) Sightings(context.Context) ([]domain.Sighting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Sighting(nil), m.sightings...), nil
}

func (m *Memory) SaveSightings(_ context.Context, items []domain.Sighting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sightings = append([]domain.Sighting(nil), items...)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.continuous = false
	m.sightings = nil
	return nil
}
