package comments

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{
	ContainerSelectors: []string{".reply", ".comment"},
	Handle: func(s *goquery.Selection) string {
		return s.AttrOr("data-handle", "")
	},
	Text: func(s *goquery.Selection) string {
		return s.Find(".text").Text()
	},
	IsAuthor: func(s *goquery.Selection) bool {
		return s.Find(".author-tag").Length() > 0
	},
}

func doc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return d
}

func TestAggregate_SplitsAuthorAndOthers(t *testing.T) {
	d := doc(t, `
		<div class="reply" id="main" data-handle="alice"><p class="text">main post</p></div>
		<div class="reply" data-handle="ALICE"><p class="text">part two</p></div>
		<div class="reply" data-handle="bob"><p class="text">nice</p></div>
		<div class="reply" data-handle="alice"><p class="text">part three</p></div>
		<div class="reply" data-handle="carol"><p class="text">  </p></div>
	`)
	main := d.Find("#main")

	res := Aggregate(d.Selection, main, Author{Handle: "alice"}, testRules)

	assert.Equal(t, "part two\n\npart three", res.AuthorFollowupText)
	assert.Equal(t, []string{"@bob: nice"}, res.OtherCommentsDigest)
}

func TestAggregate_CapsAndTruncates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<div class="reply" data-handle="user%d"><p class="text">%d %s</p></div>`, i, i, strings.Repeat("x", 150))
	}
	d := doc(t, b.String())

	res := Aggregate(d.Selection, nil, Author{Handle: "alice"}, testRules)

	require.Len(t, res.OtherCommentsDigest, 10)
	seen := map[string]bool{}
	for i, entry := range res.OtherCommentsDigest {
		prefix := fmt.Sprintf("@user%d: ", i)
		require.True(t, strings.HasPrefix(entry, prefix), entry)
		body := strings.TrimPrefix(entry, prefix)
		assert.LessOrEqual(t, utf8.RuneCountInString(body), 103)
		assert.True(t, strings.HasSuffix(body, "..."))
		assert.False(t, seen[entry])
		seen[entry] = true
	}
}

func TestAggregate_DeduplicatesByValue(t *testing.T) {
	d := doc(t, `
		<div class="reply" data-handle="bob"><p class="text">same</p></div>
		<div class="reply" data-handle="bob"><p class="text">same</p></div>
		<div class="reply" data-handle="carol"><p class="text">same</p></div>
	`)

	res := Aggregate(d.Selection, nil, Author{Handle: "alice"}, testRules)

	assert.Equal(t, []string{"@bob: same", "@carol: same"}, res.OtherCommentsDigest)
	assert.Equal(t, "@bob: same\n@carol: same", res.Digest())
}

func TestAggregate_UsesFirstMatchingSelectorOnly(t *testing.T) {
	d := doc(t, `
		<div class="reply" data-handle="bob"><p class="text">from reply</p></div>
		<div class="comment" data-handle="carol"><p class="text">from comment</p></div>
	`)

	res := Aggregate(d.Selection, nil, Author{Handle: "alice"}, testRules)

	assert.Equal(t, []string{"@bob: from reply"}, res.OtherCommentsDigest)
}

func TestAggregate_AuthorTag(t *testing.T) {
	d := doc(t, `<div class="comment" data-handle="u123"><span class="author-tag">作者</span><p class="text">补充</p></div>`)

	res := Aggregate(d.Selection, nil, Author{Handle: "someone-else"}, testRules)

	assert.Equal(t, "补充", res.AuthorFollowupText)
	assert.Empty(t, res.OtherCommentsDigest)
}

func TestAggregate_NoContainer(t *testing.T) {
	d := doc(t, `<p>nothing here</p>`)

	res := Aggregate(d.Selection, nil, Author{Handle: "alice"}, testRules)

	assert.Equal(t, Result{}, res)
	assert.Equal(t, "", res.Digest())
}

func TestAggregate_MatchesAuthorByDisplayName(t *testing.T) {
	rules := testRules
	rules.Name = func(s *goquery.Selection) string { return s.AttrOr("data-name", "") }
	d := doc(t, `
		<div class="reply" data-handle="Alice Chen" data-name="Alice Chen"><p class="text">more details</p></div>
		<div class="reply" data-handle="bob" data-name="Bob"><p class="text">thanks</p></div>`)

	res := Aggregate(d.Selection, nil, Author{Handle: "alice_chen", Name: "alice chen"}, rules)

	assert.Equal(t, "more details", res.AuthorFollowupText)
	assert.Equal(t, []string{"@bob: thanks"}, res.OtherCommentsDigest)
}
