// Package normalizer turns extractor output into canonical records.
package normalizer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
)

const DefaultAuthor = "Unknown"

var ErrNoContent = errors.New("no content to capture")

// SourceIDParser is the part of an extractor the normalizer needs.
type SourceIDParser interface {
	SourceID(rawURL string) (string, bool)
}

type Normalizer struct {
	newID func() string
}

func New() *Normalizer {
	return &Normalizer{newID: uuid.NewString}
}

// NewWithIDs is New with a custom id source.
func NewWithIDs(newID func() string) *Normalizer {
	return &Normalizer{newID: newID}
}

// Canonicalize strips query and fragment. Applying it twice changes nothing.
func Canonicalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Placeholder describes media-only content so that text is never empty.
func Placeholder(images int) string {
	return fmt.Sprintf("[image content, %d images]", images)
}

// Normalize builds a CapturedPost. Raw posts with neither text nor media are
// rejected with ErrNoContent.
func (n *Normalizer) Normalize(
	raw extractor.RawPost,
	parser SourceIDParser,
	pageURL string,
	thread comments.Result,
	now time.Time,
) (domain.CapturedPost, error) {
	if raw.Empty() {
		return domain.CapturedPost{}, apperrors.WrapWithCode(ErrNoContent, apperrors.CodeCaptureRejected, "normalize post")
	}

	id := n.newID()
	link := raw.Permalink
	if link == "" {
		link = pageURL
	}

	text := strings.TrimSpace(raw.Text)
	if text == "" {
		text = Placeholder(len(raw.MediaURLs))
	}

	author := strings.TrimSpace(raw.Author)
	if author == "" {
		author = DefaultAuthor
	}

	return domain.CapturedPost{
		ID:                  id,
		SourceID:            n.sourceID(parser, id, pageURL, raw.Permalink),
		CanonicalURL:        Canonicalize(link),
		Author:              author,
		AuthorHandle:        raw.AuthorHandle,
		AuthorAvatarURL:     raw.AuthorAvatarURL,
		AuthorProfileURL:    raw.AuthorProfileURL,
		TextContent:         text,
		MediaURLs:           append([]string{}, raw.MediaURLs...),
		Engagement:          raw.Engagement,
		Platform:            raw.Platform,
		CapturedAtEpochMs:   now.UnixMilli(),
		AuthorFollowupText:  thread.AuthorFollowupText,
		OtherCommentsDigest: thread.Digest(),
	}, nil
}

// sourceID tries the page URL, then the permalink, then gives up and reuses
// the record id.
func (n *Normalizer) sourceID(parser SourceIDParser, fallback string, urls ...string) string {
	if parser != nil {
		for _, u := range urls {
			if u == "" {
				continue
			}
			if sid, ok := parser.SourceID(u); ok {
				return sid
			}
		}
	}
	return fallback
}

// Sighting turns a list-view item into a lightweight capture. Items without a
// link cannot be deduplicated, and items with nothing to show are dropped.
func (n *Normalizer) Sighting(raw extractor.RawSighting, now time.Time) (domain.Sighting, bool) {
	if raw.Permalink == "" {
		return domain.Sighting{}, false
	}
	s := domain.Sighting{
		ID:                n.newID(),
		Platform:          raw.Platform,
		Author:            strings.TrimSpace(raw.Author),
		AuthorHandle:      raw.AuthorHandle,
		AuthorAvatarURL:   raw.AuthorAvatarURL,
		AuthorProfileURL:  raw.AuthorProfileURL,
		Title:             raw.Title,
		Summary:           raw.Summary,
		CanonicalURL:      Canonicalize(raw.Permalink),
		Thumbnail:         raw.Thumbnail,
		CapturedAtEpochMs: now.UnixMilli(),
	}
	if s.Empty() {
		return domain.Sighting{}, false
	}
	return s, true
}

// DetailSighting is the full-fidelity sighting recorded for a detail page.
func DetailSighting(post domain.CapturedPost) domain.Sighting {
	s := domain.Sighting{
		ID:                  post.ID,
		Platform:            post.Platform,
		Author:              post.Author,
		AuthorHandle:        post.AuthorHandle,
		AuthorAvatarURL:     post.AuthorAvatarURL,
		AuthorProfileURL:    post.AuthorProfileURL,
		Content:             post.TextContent,
		CanonicalURL:        post.CanonicalURL,
		MediaURLs:           post.MediaURLs,
		CapturedAtEpochMs:   post.CapturedAtEpochMs,
		IsDetailCapture:     true,
		AuthorFollowupText:  post.AuthorFollowupText,
		OtherCommentsDigest: post.OtherCommentsDigest,
	}
	if len(post.MediaURLs) > 0 {
		s.Thumbnail = post.MediaURLs[0]
	}
	return s
}
