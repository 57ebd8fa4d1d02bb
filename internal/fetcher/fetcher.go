// Package fetcher renders pages in a headless browser and hands back their HTML.
package fetcher

//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock.go

import (
	"context"
	"errors"
)

var ErrNavigation = errors.New("page navigation failed")

// Page is a rendered snapshot. URL is where the browser ended up, which can
// differ from the requested one after redirects or short links.
type Page struct {
	URL  string
	HTML string
}

type Options struct {
	// WaitSelector, when set, is awaited before the snapshot is taken.
	WaitSelector string
	// Scrolls is how many times to scroll to the bottom to load more items.
	Scrolls int
}

type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (Page, error)
}
