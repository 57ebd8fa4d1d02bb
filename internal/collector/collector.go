// Package collector ties page snapshots to the capture pipeline: extraction,
// normalization, persistence and the continuous-mode sighting collection.
package collector

//go:generate go run go.uber.org/mock/mockgen -source=collector.go -destination=mocks/mock.go

import (
	"context"
	"errors"

	"github.com/orgball2608/squirrel-collector/internal/capture"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var (
	ErrNoPost          = errors.New("no post found on page")
	ErrContinuousOff   = errors.New("continuous capture is off")
	ErrSessionNotFound = errors.New("session not found")
)

// Page is a rendered page handed in by a client or produced by the fetcher.
type Page struct {
	URL      string          `json:"url"`
	HTML     string          `json:"html"`
	Platform domain.Platform `json:"platform,omitempty"`
	// FocusSelector points at the post the user picked. Without it the
	// page's main post is used.
	FocusSelector string `json:"focusSelector,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
}

type SightReport struct {
	Inserted int `json:"inserted"`
	Merged   int `json:"merged"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

func (r *SightReport) Add(o capture.Outcome) {
	switch o {
	case capture.Inserted:
		r.Inserted++
	case capture.Merged:
		r.Merged++
	default:
		r.Skipped++
	}
}

type Client interface {
	// CaptureURL renders url in the headless browser and captures its main post.
	CaptureURL(ctx context.Context, url string) (domain.CapturedPost, error)
	CapturePage(ctx context.Context, page Page) (domain.CapturedPost, error)
	// SightPage records lightweight sightings from a list view. It requires
	// continuous mode.
	SightPage(ctx context.Context, page Page) (SightReport, error)

	Continuous(ctx context.Context) (bool, error)
	SetContinuous(ctx context.Context, on bool) error
	Sightings(ctx context.Context) ([]domain.Sighting, error)
	ClearSightings(ctx context.Context) error

	Attach(pageURL string) string
	Navigate(sessionID, url string) error
	Focus(sessionID, selector string) error
	Detach(sessionID string)

	// Schedule starts URL polling and retention jobs until ctx is done.
	Schedule(ctx context.Context) error
}
