package settings

import (
	"context"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=settings.go -destination=mocks/mock.go
type Repository interface {
	// Get returns the stored settings, or domain.DefaultSettings when none
	// have been saved yet.
	Get(ctx context.Context) (domain.Settings, error)

	Save(ctx context.Context, s domain.Settings) error
}
