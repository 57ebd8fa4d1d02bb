package normalizer

import (
	"testing"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/extractor"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize("https://x.example/explore/abc123?token=xyz&ref=1")

	assert.Equal(t, "https://x.example/explore/abc123", got)
	assert.Equal(t, got, Canonicalize(got))
	assert.Equal(t, "https://x.com/a/status/1", Canonicalize("https://x.com/a/status/1?#top"))
}

func TestNormalize_Twitter(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	n := NewWithIDs(fixedIDs("id-1"))
	raw := extractor.RawPost{
		Platform:     domain.PlatformTwitter,
		Author:       " Alice ",
		AuthorHandle: "alice",
		Text:         "hello",
		MediaURLs:    []string{"https://pbs.twimg.com/media/A.jpg"},
		Engagement:   domain.EngagementCounts{Likes: 3},
		Permalink:    "https://x.com/alice/status/77?s=20",
	}
	thread := comments.Result{
		AuthorFollowupText:  "more",
		OtherCommentsDigest: []string{"@bob: hi", "@carol: yo"},
	}

	post, err := n.Normalize(raw, extractor.NewTwitter(), "https://x.com/home", thread, now)
	require.NoError(t, err)

	assert.Equal(t, "id-1", post.ID)
	assert.Equal(t, "77", post.SourceID)
	assert.Equal(t, "https://x.com/alice/status/77", post.CanonicalURL)
	assert.Equal(t, "Alice", post.Author)
	assert.Equal(t, "hello", post.TextContent)
	assert.Equal(t, int64(1700000000000), post.CapturedAtEpochMs)
	assert.Equal(t, "more", post.AuthorFollowupText)
	assert.Equal(t, "@bob: hi\n@carol: yo", post.OtherCommentsDigest)
	assert.Nil(t, post.Enrichment)
}

func TestNormalize_MediaOnlyGetsPlaceholder(t *testing.T) {
	n := NewWithIDs(fixedIDs("id-2"))
	raw := extractor.RawPost{
		Platform:  domain.PlatformXiaohongshu,
		MediaURLs: []string{"https://sns-webpic-qc.xhscdn.com/a.jpg", "https://sns-webpic-qc.xhscdn.com/b.jpg"},
	}

	post, err := n.Normalize(raw, extractor.NewXiaohongshu(), "https://www.xiaohongshu.com/explore/abc?xsec_token=1", comments.Result{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "[image content, 2 images]", post.TextContent)
	assert.Equal(t, DefaultAuthor, post.Author)
	assert.Equal(t, "abc", post.SourceID)
	assert.Equal(t, "https://www.xiaohongshu.com/explore/abc", post.CanonicalURL)
}

func TestNormalize_RejectsEmpty(t *testing.T) {
	n := New()

	_, err := n.Normalize(extractor.RawPost{Text: "   "}, nil, "https://x.com/a/status/1", comments.Result{}, time.Now())

	assert.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, apperrors.CodeCaptureRejected, apperrors.GetCode(err))
}

func TestNormalize_SourceIDFallsBackToID(t *testing.T) {
	n := NewWithIDs(fixedIDs("generated"))

	post, err := n.Normalize(extractor.RawPost{Text: "x"}, extractor.NewTwitter(), "https://x.com/home", comments.Result{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "generated", post.SourceID)
	assert.Equal(t, post.ID, post.SourceID)
	assert.Equal(t, "https://x.com/home", post.CanonicalURL)
}

func TestNew_GeneratesDistinctIDs(t *testing.T) {
	n := New()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		post, err := n.Normalize(extractor.RawPost{Text: "x"}, nil, "https://x.com/home", comments.Result{}, time.Now())
		require.NoError(t, err)
		_, dup := seen[post.ID]
		require.False(t, dup)
		seen[post.ID] = struct{}{}
	}
}

func TestSighting(t *testing.T) {
	n := NewWithIDs(fixedIDs("s-1"))

	s, ok := n.Sighting(extractor.RawSighting{
		Platform:  domain.PlatformXiaohongshu,
		Title:     "t",
		Permalink: "https://www.xiaohongshu.com/explore/bbb?xsec_token=t",
	}, time.UnixMilli(5))
	require.True(t, ok)
	assert.Equal(t, "https://www.xiaohongshu.com/explore/bbb", s.CanonicalURL)
	assert.False(t, s.IsDetailCapture)
	assert.Equal(t, int64(5), s.CapturedAtEpochMs)

	_, ok = n.Sighting(extractor.RawSighting{Title: "no link"}, time.Now())
	assert.False(t, ok)

	_, ok = n.Sighting(extractor.RawSighting{
		Platform:  domain.PlatformTwitter,
		Permalink: "https://x.com/ghost/status/42",
	}, time.Now())
	assert.False(t, ok, "a link alone is not a sighting")
}

func TestDetailSighting(t *testing.T) {
	s := DetailSighting(domain.CapturedPost{
		ID:           "p",
		CanonicalURL: "https://x.com/a/status/1",
		TextContent:  "body",
		MediaURLs:    []string{"m1", "m2"},
	})

	assert.True(t, s.IsDetailCapture)
	assert.Equal(t, "body", s.Content)
	assert.Equal(t, "m1", s.Thumbnail)
}
