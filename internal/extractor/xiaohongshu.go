package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/internal/comments"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

const xhsOrigin = "https://www.xiaohongshu.com"

var (
	xhsNoteSelectors = []string{"#noteContainer", ".note-container", ".note-item", `[class*="note"]`}
	xhsTitle         = []string{"#detail-title", ".note-title", ".title", `[class*="title"]`}
	xhsDesc          = []string{"#detail-desc", ".note-text", ".desc", `[class*="desc"]`, ".note-content", `[class*="content"]`}
	xhsAuthor        = []string{".author-wrapper .username", ".author-name", ".author .name", ".name", `[class*="author"]`}
	xhsCommentItems  = []string{".comment-item", ".comments-container .comment", `[class*="comment-item"]`, `[class*="CommentItem"]`, ".note-comment"}
	xhsCommentNames  = []string{".user-name", ".author-name", `[class*="nickname"]`, `[class*="userName"]`, `.name`}
	xhsCommentTexts  = []string{".comment-content", ".note-text", ".content", `[class*="content"]`, `[class*="text"]`}

	xhsProfileID = regexp.MustCompile(`/user/profile/([a-zA-Z0-9]+)`)
	xhsNoteID    = regexp.MustCompile(`/(?:explore|discovery/item)/([a-zA-Z0-9]+)`)
	xhsFollow    = []string{"已关注", "关注", "Following", "Follow"}
	whitespace   = regexp.MustCompile(`\s+`)
)

type Xiaohongshu struct {
	media MediaFilter
}

func NewXiaohongshu() *Xiaohongshu {
	return &Xiaohongshu{
		media: MediaFilter{
			Selector: "img[src]",
			Allow:    []string{"sns-webpic", "xhscdn.com"},
			Deny:     []string{"avatar", "picasso-static", "emoji", "icon", "/fe-platform/"},
		},
	}
}

var _ Extractor = (*Xiaohongshu)(nil)

func (x *Xiaohongshu) Platform() domain.Platform { return domain.PlatformXiaohongshu }
func (x *Xiaohongshu) Hosts() []string           { return []string{"xiaohongshu.com", "xhslink.com"} }
func (x *Xiaohongshu) PostSelector() string      { return strings.Join(xhsNoteSelectors, ", ") }

// ImageLimit is the per-note image ceiling of the platform.
func (x *Xiaohongshu) ImageLimit() int { return 9 }

func (x *Xiaohongshu) IsDetailURL(rawURL string) bool {
	return xhsNoteID.MatchString(rawURL)
}

func (x *Xiaohongshu) SourceID(rawURL string) (string, bool) {
	m := xhsNoteID.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (x *Xiaohongshu) MainPost(doc *goquery.Document, _ string) *goquery.Selection {
	for _, sel := range xhsNoteSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return doc.Find("body").First()
}

// CleanAuthor drops the follow-button label that sits inside the author block.
func CleanAuthor(name string) string {
	name = strings.TrimSpace(name)
	for _, label := range xhsFollow {
		if strings.HasSuffix(name, label) {
			name = strings.TrimSpace(strings.TrimSuffix(name, label))
			break
		}
	}
	return name
}

// slugHandle derives a handle from a display name when no profile id exists.
func slugHandle(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

func cascadeText(s *goquery.Selection, selectors []string) string {
	strategies := make([]Strategy, 0, len(selectors))
	for _, sel := range selectors {
		strategies = append(strategies, TextOf(sel))
	}
	return First(s, strategies...)
}

func (x *Xiaohongshu) profile(s *goquery.Selection) (profileURL, userID string) {
	href := First(s, AttrOf(`a[href*="/user/profile/"]`, "href"))
	if href == "" {
		return "", ""
	}
	profileURL = Resolve(xhsOrigin, href)
	if m := xhsProfileID.FindStringSubmatch(profileURL); m != nil {
		userID = m[1]
	}
	return profileURL, userID
}

func (x *Xiaohongshu) Extract(post *goquery.Selection, pageURL string) RawPost {
	title := cascadeText(post, xhsTitle)
	desc := cascadeText(post, xhsDesc)
	if desc == title {
		desc = ""
	}
	text := desc
	if title != "" {
		text = strings.TrimSpace(title + "\n\n" + desc)
	}

	author := CleanAuthor(cascadeText(post, xhsAuthor))
	profileURL, userID := x.profile(post)
	handle := userID
	if handle == "" {
		handle = slugHandle(author)
	}

	permalink := First(post, AttrOf(`a[href*="/explore/"]`, "href"))
	if permalink == "" {
		permalink = pageURL
	}

	return RawPost{
		Platform:         domain.PlatformXiaohongshu,
		Author:           author,
		AuthorHandle:     handle,
		AuthorAvatarURL:  First(post, AttrOf(`img[src*="avatar"]`, "src"), AttrOf(`.avatar img`, "src")),
		AuthorProfileURL: profileURL,
		Text:             text,
		MediaURLs:        x.media.Collect(post),
		Engagement: domain.EngagementCounts{
			Likes:    ParseCount(cascadeText(post, []string{".like-wrapper .count", `[class*="like"] .count`})),
			Reshares: ParseCount(cascadeText(post, []string{".share-wrapper .count", `[class*="share"] .count`})),
			Replies:  ParseCount(cascadeText(post, []string{".chat-wrapper .count", `[class*="chat"] .count`})),
		},
		Permalink: Resolve(pageURL, permalink),
	}
}

// ExtractSightings reads the explore feed: cover, title and author per card.
func (x *Xiaohongshu) ExtractSightings(doc *goquery.Document, pageURL string) []RawSighting {
	var out []RawSighting
	doc.Find(".note-item").Each(func(_ int, card *goquery.Selection) {
		href := First(card, AttrOf(`a[href*="/explore/"]`, "href"), AttrOf(`a[href*="/discovery/item/"]`, "href"))
		if href == "" {
			return
		}
		author := CleanAuthor(cascadeText(card, []string{".author .name", ".author-name", ".name"}))
		profileURL, userID := x.profile(card)
		handle := userID
		if handle == "" && author != "" {
			handle = slugHandle(author)
		}
		thumb := First(card, AttrOf("a.cover img", "src"), func(s *goquery.Selection) (string, bool) {
			media := x.media.Collect(s)
			if len(media) == 0 {
				return "", false
			}
			return media[0], true
		})
		out = append(out, RawSighting{
			Platform:         domain.PlatformXiaohongshu,
			Author:           author,
			AuthorHandle:     handle,
			AuthorProfileURL: profileURL,
			AuthorAvatarURL:  First(card, AttrOf(`img[src*="avatar"]`, "src")),
			Title:            cascadeText(card, []string{".footer .title", ".title", `[class*="title"]`}),
			Summary:          cascadeText(card, []string{".desc", `[class*="desc"]`}),
			Permalink:        Resolve(pageURL, href),
			Thumbnail:        thumb,
		})
	})
	return out
}

func (x *Xiaohongshu) CommentRules() comments.Rules {
	return comments.Rules{
		ContainerSelectors: xhsCommentItems,
		Handle: func(s *goquery.Selection) string {
			if _, id := x.profile(s); id != "" {
				return id
			}
			return cascadeText(s, xhsCommentNames)
		},
		Text: func(s *goquery.Selection) string {
			return cascadeText(s, xhsCommentTexts)
		},
		IsAuthor: func(s *goquery.Selection) bool {
			return s.Find(`[class*="author-tag"]`).Length() > 0
		},
		Name: func(s *goquery.Selection) string {
			return CleanAuthor(cascadeText(s, xhsCommentNames))
		},
	}
}
