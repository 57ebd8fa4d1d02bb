package domain

import "strings"

type Platform string

const (
	PlatformTwitter     Platform = "twitter"
	PlatformXiaohongshu Platform = "xiaohongshu"
)

// DisplayName is what exports show next to the author.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformTwitter:
		return "Twitter"
	case PlatformXiaohongshu:
		return "小红书"
	default:
		return string(p)
	}
}

type EngagementCounts struct {
	Likes    int `json:"likes"`
	Reshares int `json:"reshares"`
	Replies  int `json:"replies"`
}

// CapturedPost is one scraped unit of content. ID never changes after creation
// and CanonicalURL carries no query string.
type CapturedPost struct {
	ID                  string            `json:"id"`
	SourceID            string            `json:"sourceId"`
	CanonicalURL        string            `json:"canonicalUrl"`
	Author              string            `json:"author"`
	AuthorHandle        string            `json:"authorHandle"`
	AuthorAvatarURL     string            `json:"authorAvatarUrl,omitempty"`
	AuthorProfileURL    string            `json:"authorProfileUrl,omitempty"`
	TextContent         string            `json:"textContent"`
	MediaURLs           []string          `json:"mediaUrls"`
	Engagement          EngagementCounts  `json:"engagementCounts"`
	Platform            Platform          `json:"platform"`
	CapturedAtEpochMs   int64             `json:"capturedAtEpochMs"`
	AuthorFollowupText  string            `json:"authorFollowupText,omitempty"`
	OtherCommentsDigest string            `json:"otherCommentsDigest,omitempty"`
	Enrichment          *EnrichmentResult `json:"enrichment,omitempty"`
}

// OtherComments splits the newline-joined digest back into entries.
func (p CapturedPost) OtherComments() []string {
	if p.OtherCommentsDigest == "" {
		return nil
	}
	return strings.Split(p.OtherCommentsDigest, "\n")
}
