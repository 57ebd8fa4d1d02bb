// Package comments classifies the comment-like elements rendered around a post
// into the author's own follow-ups and a short digest of everyone else.
package comments

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/squirrel-collector/pkg/formatter"
)

const (
	MaxOthers      = 10
	MaxCommentRune = 100
)

// Rules describe how one platform renders its comment thread.
type Rules struct {
	// ContainerSelectors are tried in order; the first one with at least one
	// match is used and later ones are ignored.
	ContainerSelectors []string
	Handle             func(*goquery.Selection) string
	Text               func(*goquery.Selection) string
	// IsAuthor marks comments the page itself labels as the author's.
	IsAuthor func(*goquery.Selection) bool
	// Name is optional. When set, a comment whose display name equals the
	// author's display name counts as the author's.
	Name func(*goquery.Selection) string
}

// Author identifies the post author on the page.
type Author struct {
	Handle string
	Name   string
}

type Result struct {
	AuthorFollowupText  string
	OtherCommentsDigest []string
}

// Digest joins the other comments the way they are stored on a post.
func (r Result) Digest() string {
	return strings.Join(r.OtherCommentsDigest, "\n")
}

// Aggregate scans root for comments. main is excluded by node identity.
// A page with no comment container yields an empty Result.
func Aggregate(root, main *goquery.Selection, author Author, rules Rules) Result {
	candidates := firstMatching(root, rules.ContainerSelectors)
	if candidates == nil {
		return Result{}
	}

	var (
		followups []string
		others    []string
		seen      = make(map[string]struct{})
	)

	candidates.Each(func(_ int, c *goquery.Selection) {
		if isSameNode(c, main) {
			return
		}

		text := strings.TrimSpace(rules.Text(c))
		if text == "" {
			return
		}
		handle := strings.TrimSpace(rules.Handle(c))

		if isAuthor(c, handle, author, rules) {
			followups = append(followups, text)
			return
		}
		if handle == "" || len(others) >= MaxOthers {
			return
		}

		entry := "@" + handle + ": " + formatter.Truncate(text, MaxCommentRune)
		if _, dup := seen[entry]; dup {
			return
		}
		seen[entry] = struct{}{}
		others = append(others, entry)
	})

	return Result{
		AuthorFollowupText:  strings.Join(followups, "\n\n"),
		OtherCommentsDigest: others,
	}
}

func isAuthor(c *goquery.Selection, handle string, author Author, rules Rules) bool {
	if sameName(handle, author.Handle) {
		return true
	}
	if rules.Name != nil && sameName(rules.Name(c), author.Name) {
		return true
	}
	return rules.IsAuthor != nil && rules.IsAuthor(c)
}

func sameName(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func firstMatching(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		found := root.Find(sel)
		if found.Length() > 0 {
			return found
		}
	}
	return nil
}

func isSameNode(a, b *goquery.Selection) bool {
	if a == nil || b == nil || a.Length() == 0 || b.Length() == 0 {
		return false
	}
	return a.Get(0) == b.Get(0)
}
