package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MediaFilter decides per candidate URL whether it is content media. A URL is
// kept when it contains one of Allow and none of Deny.
type MediaFilter struct {
	Selector string
	Allow    []string
	Deny     []string
}

func (f MediaFilter) Keep(src string) bool {
	if src == "" {
		return false
	}
	for _, d := range f.Deny {
		if strings.Contains(src, d) {
			return false
		}
	}
	for _, a := range f.Allow {
		if strings.Contains(src, a) {
			return true
		}
	}
	return false
}

// Filter keeps content media in first-seen order without duplicates.
func (f MediaFilter) Filter(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, src := range candidates {
		src = strings.TrimSpace(src)
		if !f.Keep(src) {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}

// Collect gathers img sources under s and filters them.
func (f MediaFilter) Collect(s *goquery.Selection) []string {
	var candidates []string
	s.Find(f.Selector).Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok {
			candidates = append(candidates, src)
		}
	})
	return f.Filter(candidates)
}
