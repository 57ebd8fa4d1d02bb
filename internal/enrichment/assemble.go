package enrichment

import (
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

const (
	LabelAuthorFollowup = "【作者补充内容】"
	LabelImageText      = "【图片内容】"
	LabelComments       = "【评论区观点】"

	// ImageSeparator joins the text recognized in several images.
	ImageSeparator = "\n\n---\n\n"
)

// Assemble builds the summarization input: base text, then the author's
// follow-ups, then recognized image text, then other people's comments.
// Empty sections are left out.
func Assemble(post domain.CapturedPost, imageText string) string {
	var sb strings.Builder
	sb.WriteString(post.TextContent)

	section := func(label, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		sb.WriteString("\n\n")
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(body)
	}
	section(LabelAuthorFollowup, post.AuthorFollowupText)
	section(LabelImageText, imageText)
	section(LabelComments, post.OtherCommentsDigest)

	return sb.String()
}

// JoinImageText drops empty recognitions and joins the rest in image order.
func JoinImageText(texts []string) string {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ImageSeparator)
}
