package commandimpl

import (
	"fmt"
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/pkg/formatter"
)

const previewRunes = 200

func asPost(v any) (domain.CapturedPost, bool) {
	p, ok := v.(domain.CapturedPost)
	return p, ok
}

func asPosts(v any) ([]domain.CapturedPost, bool) {
	p, ok := v.([]domain.CapturedPost)
	return p, ok
}

func asSettings(v any) (domain.Settings, bool) {
	s, ok := v.(domain.Settings)
	return s, ok
}

// postCard renders one post as MarkdownV2.
func postCard(p domain.CapturedPost) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* \\(@%s\\) · %s\n\n",
		formatter.EscapeMarkdownV2(p.Author),
		formatter.EscapeMarkdownV2(p.AuthorHandle),
		formatter.EscapeMarkdownV2(p.Platform.DisplayName()))
	sb.WriteString(formatter.EscapeMarkdownV2(formatter.Truncate(p.TextContent, previewRunes)))
	fmt.Fprintf(&sb, "\n\n❤️ %s  🔁 %s  💬 %s",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(p.Engagement.Likes)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(p.Engagement.Reshares)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(p.Engagement.Replies)))
	if len(p.MediaURLs) > 0 {
		fmt.Fprintf(&sb, "  🖼 %d", len(p.MediaURLs))
	}
	fmt.Fprintf(&sb, "\n[%s](%s)", formatter.EscapeMarkdownV2("Open"), escapeLink(p.CanonicalURL))
	return sb.String()
}

func postList(posts []domain.CapturedPost) string {
	var sb strings.Builder
	for i, p := range posts {
		summary := p.TextContent
		if p.Enrichment != nil && p.Enrichment.SummaryText != "" {
			summary = p.Enrichment.SummaryText
		}
		fmt.Fprintf(&sb, "%d\\. *%s*: %s [↗](%s)\n",
			i+1,
			formatter.EscapeMarkdownV2(p.Author),
			formatter.EscapeMarkdownV2(formatter.Truncate(summary, 60)),
			escapeLink(p.CanonicalURL))
	}
	return sb.String()
}

// Inside (...) MarkdownV2 only needs ")" and "\" escaped.
func escapeLink(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
