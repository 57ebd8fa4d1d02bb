package llm

import (
	"context"
	"errors"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var ErrNotConfigured = errors.New("AI provider is not configured")

//go:generate go run go.uber.org/mock/mockgen -source=llm.go -destination=mocks/mock.go
type Client interface {
	// RecognizeImage returns the text visible in the image.
	RecognizeImage(ctx context.Context, settings domain.Settings, imageURL string) (string, error)

	// Summarize asks for a structured summary. A reply that is not valid
	// structured output degrades to a trivial result instead of failing.
	Summarize(ctx context.Context, settings domain.Settings, content string) (domain.EnrichmentResult, error)

	// GeneratePosts drafts up to three posts from a topic and reference posts.
	GeneratePosts(ctx context.Context, settings domain.Settings, req domain.CreationRequest, refs []domain.CapturedPost) ([]string, error)
}
