package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

// X changes its DOM often; keep the selectors in one place.
const (
	tweetArticle   = `article[data-testid="tweet"]`
	tweetText      = `[data-testid="tweetText"]`
	tweetUserName  = `[data-testid="User-Name"]`
	tweetUserLink  = `a[href^="/"][role="link"]`
	tweetStatus    = `a[href*="/status/"]`
	tweetImages    = `img[src*="pbs.twimg.com"]`
	tweetAvatar    = `img[src*="profile_images"]`
	tweetLike      = `[data-testid="like"]`
	tweetUnlike    = `[data-testid="unlike"]`
	tweetRetweet   = `[data-testid="retweet"]`
	tweetUnretweet = `[data-testid="unretweet"]`
	tweetReply     = `[data-testid="reply"]`
)

var (
	twitterHandlePath = regexp.MustCompile(`^/([^/?#]+)$`)
	twitterStatusID   = regexp.MustCompile(`/status/(\d+)`)
	twitterStatusPath = regexp.MustCompile(`^/([^/]+)/status/(\d+)`)
)

type Twitter struct {
	media MediaFilter
}

func NewTwitter() *Twitter {
	return &Twitter{
		media: MediaFilter{
			Selector: tweetImages,
			Allow:    []string{"/media/", "tweet_video_thumb", "ext_tw_video_thumb"},
			Deny:     []string{"profile_images", "emoji", "_normal", "_mini"},
		},
	}
}

var _ Extractor = (*Twitter)(nil)

func (t *Twitter) Platform() domain.Platform { return domain.PlatformTwitter }
func (t *Twitter) Hosts() []string           { return []string{"twitter.com", "x.com", "mobile.twitter.com"} }
func (t *Twitter) PostSelector() string      { return tweetArticle }
func (t *Twitter) ImageLimit() int           { return 3 }

func (t *Twitter) IsDetailURL(rawURL string) bool {
	return twitterStatusID.MatchString(rawURL)
}

func (t *Twitter) SourceID(rawURL string) (string, bool) {
	m := twitterStatusID.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MainPost prefers the article whose status link matches the page; replies
// below it carry their own status ids.
func (t *Twitter) MainPost(doc *goquery.Document, pageURL string) *goquery.Selection {
	articles := doc.Find(tweetArticle)
	if articles.Length() == 0 {
		return articles
	}
	if id, ok := t.SourceID(pageURL); ok {
		match := articles.FilterFunction(func(_ int, a *goquery.Selection) bool {
			got, _ := t.SourceID(t.permalink(a, pageURL))
			return got == id
		})
		if match.Length() > 0 {
			return match.First()
		}
	}
	return articles.First()
}

func (t *Twitter) handle(s *goquery.Selection) string {
	return First(s,
		HrefMatch(tweetUserLink, twitterHandlePath),
		AtHandle(tweetUserName+" span"),
	)
}

// permalink trims status links like /a/status/1/photo/1 down to /a/status/1.
func (t *Twitter) permalink(s *goquery.Selection, pageURL string) string {
	href := First(s, AttrOf(tweetStatus, "href"))
	if href == "" {
		return ""
	}
	abs := Resolve(pageURL, href)
	u, err := url.Parse(abs)
	if err != nil {
		return abs
	}
	if m := twitterStatusPath.FindStringSubmatch(u.Path); m != nil {
		u.Path = "/" + m[1] + "/status/" + m[2]
	}
	return u.String()
}

func (t *Twitter) Extract(post *goquery.Selection, pageURL string) RawPost {
	handle := t.handle(post)

	raw := RawPost{
		Platform:        domain.PlatformTwitter,
		Author:          First(post, TextOf(tweetUserName+" span")),
		AuthorHandle:    handle,
		AuthorAvatarURL: First(post, AttrOf(tweetAvatar, "src")),
		Text:            First(post, TextOf(tweetText), TextOf(`div[lang]`)),
		MediaURLs:       t.media.Collect(post),
		Engagement: domain.EngagementCounts{
			Likes:    CountOf(post, tweetLike, tweetUnlike),
			Reshares: CountOf(post, tweetRetweet, tweetUnretweet),
			Replies:  CountOf(post, tweetReply),
		},
		Permalink: t.permalink(post, pageURL),
	}
	if handle != "" {
		raw.AuthorProfileURL = "https://x.com/" + handle
	}
	if raw.Permalink == "" && handle != "" {
		if id, ok := t.SourceID(pageURL); ok {
			raw.Permalink = "https://x.com/" + handle + "/status/" + id
		}
	}
	return raw
}

// ExtractSightings reads a timeline. Timeline articles already carry the full
// text, so the summary is the tweet text itself.
func (t *Twitter) ExtractSightings(doc *goquery.Document, pageURL string) []RawSighting {
	var out []RawSighting
	doc.Find(tweetArticle).Each(func(_ int, a *goquery.Selection) {
		link := t.permalink(a, pageURL)
		if link == "" {
			return
		}
		handle := t.handle(a)
		media := t.media.Collect(a)
		s := RawSighting{
			Platform:        domain.PlatformTwitter,
			Author:          First(a, TextOf(tweetUserName+" span")),
			AuthorHandle:    handle,
			AuthorAvatarURL: First(a, AttrOf(tweetAvatar, "src")),
			Summary:         First(a, TextOf(tweetText)),
			Permalink:       link,
		}
		if handle != "" {
			s.AuthorProfileURL = "https://x.com/" + handle
		}
		if len(media) > 0 {
			s.Thumbnail = media[0]
		}
		out = append(out, s)
	})
	return out
}

func (t *Twitter) CommentRules() comments.Rules {
	return comments.Rules{
		ContainerSelectors: []string{tweetArticle},
		Handle:             t.handle,
		Text: func(s *goquery.Selection) string {
			return strings.TrimSpace(s.Find(tweetText).First().Text())
		},
	}
}
