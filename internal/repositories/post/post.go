package post

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var (
	ErrNotFound        = errors.New("captured post not found")
	ErrAlreadyEnriched = errors.New("captured post already has an enrichment")
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// Save stores a capture. A post whose canonical URL is already stored
	// refreshes that row and keeps its id and enrichment; the stored
	// version is returned.
	Save(ctx context.Context, post domain.CapturedPost) (domain.CapturedPost, error)

	Get(ctx context.Context, id string) (domain.CapturedPost, error)

	// List returns posts newest first. limit 0 means all.
	List(ctx context.Context, limit uint64) ([]domain.CapturedPost, error)

	ListByIDs(ctx context.Context, ids []string) ([]domain.CapturedPost, error)

	// SetEnrichment patches the enrichment of a stored post. It applies
	// once: a post that already has one returns ErrAlreadyEnriched.
	SetEnrichment(ctx context.Context, id string, result domain.EnrichmentResult) error

	Delete(ctx context.Context, id string) error

	// TrimToLimit keeps the newest max posts and deletes the rest.
	TrimToLimit(ctx context.Context, max int) (int64, error)

	// DeleteOlderThan removes posts captured before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
