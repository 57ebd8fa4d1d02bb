// Package extractor pulls post fields out of rendered social-media pages.
// Every field is best effort: a selector miss leaves the field empty.
package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// RawPost is the extractor output before normalization.
type RawPost struct {
	Platform         domain.Platform
	Author           string
	AuthorHandle     string
	AuthorAvatarURL  string
	AuthorProfileURL string
	Text             string
	MediaURLs        []string
	Engagement       domain.EngagementCounts
	// Permalink is the in-page link to the post, absolute, possibly with query.
	Permalink string
}

// Empty reports the capture-rejection condition: no text and no media.
func (r RawPost) Empty() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.MediaURLs) == 0
}

// RawSighting is a list-view item: title and summary only.
type RawSighting struct {
	Platform         domain.Platform
	Author           string
	AuthorHandle     string
	AuthorAvatarURL  string
	AuthorProfileURL string
	Title            string
	Summary          string
	Permalink        string
	Thumbnail        string
}

type Extractor interface {
	Platform() domain.Platform
	// Hosts are the hostnames (without "www.") this extractor understands.
	Hosts() []string
	// PostSelector matches every element that represents one post.
	PostSelector() string
	// MainPost picks the post a detail page is about.
	MainPost(doc *goquery.Document, pageURL string) *goquery.Selection
	Extract(post *goquery.Selection, pageURL string) RawPost
	ExtractSightings(doc *goquery.Document, pageURL string) []RawSighting
	CommentRules() comments.Rules
	// SourceID parses the platform-native post id from a URL.
	SourceID(rawURL string) (string, bool)
	// IsDetailURL reports whether the URL is a single-post page.
	IsDetailURL(rawURL string) bool
	// ImageLimit bounds how many images are sent to recognition.
	ImageLimit() int
}

type Registry struct {
	byPlatform map[domain.Platform]Extractor
	byHost     map[string]Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{
		byPlatform: make(map[domain.Platform]Extractor),
		byHost:     make(map[string]Extractor),
	}
	for _, e := range extractors {
		r.byPlatform[e.Platform()] = e
		for _, h := range e.Hosts() {
			r.byHost[h] = e
		}
	}
	return r
}

// DefaultRegistry knows every built-in platform.
func DefaultRegistry() *Registry {
	return NewRegistry(NewTwitter(), NewXiaohongshu())
}

func (r *Registry) Get(p domain.Platform) (Extractor, error) {
	e, ok := r.byPlatform[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
	return e, nil
}

func (r *Registry) ForURL(rawURL string) (Extractor, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if e, ok := r.byHost[host]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, host)
}

// Resolve picks an extractor by explicit platform tag, falling back to the host.
func (r *Registry) Resolve(p domain.Platform, pageURL string) (Extractor, error) {
	if p != "" {
		return r.Get(p)
	}
	return r.ForURL(pageURL)
}
