package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of finding a field. Cascades try strategies in order and
// keep the first non-empty result.
type Strategy func(*goquery.Selection) (string, bool)

func First(s *goquery.Selection, strategies ...Strategy) string {
	for _, strategy := range strategies {
		if v, ok := strategy(s); ok {
			return v
		}
	}
	return ""
}

// TextOf returns the trimmed text of the first element matching selector.
func TextOf(selector string) Strategy {
	return func(s *goquery.Selection) (string, bool) {
		v := strings.TrimSpace(s.Find(selector).First().Text())
		return v, v != ""
	}
}

// AttrOf returns attr of the first element matching selector that has it.
func AttrOf(selector, attr string) Strategy {
	return func(s *goquery.Selection) (string, bool) {
		var out string
		s.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
				out = strings.TrimSpace(v)
				return false
			}
			return true
		})
		return out, out != ""
	}
}

// HrefMatch returns the first capture group of pattern over the hrefs of
// elements matching selector.
func HrefMatch(selector string, pattern *regexp.Regexp) Strategy {
	return func(s *goquery.Selection) (string, bool) {
		var out string
		s.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if m := pattern.FindStringSubmatch(el.AttrOr("href", "")); m != nil {
				out = m[1]
				return false
			}
			return true
		})
		return out, out != ""
	}
}

// AtHandle scans text nodes under selector for an "@name" token.
func AtHandle(selector string) Strategy {
	return func(s *goquery.Selection) (string, bool) {
		var out string
		s.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			text := strings.TrimSpace(el.Text())
			if strings.HasPrefix(text, "@") && len(text) > 1 && !strings.ContainsAny(text, " \n\t") {
				out = strings.TrimPrefix(text, "@")
				return false
			}
			return true
		})
		return out, out != ""
	}
}

var firstInt = regexp.MustCompile(`\d+`)

// CountOf parses the first integer in the aria-label of the first element
// matching any of the selectors. Missing controls or labels count as 0.
func CountOf(s *goquery.Selection, selectors ...string) int {
	for _, sel := range selectors {
		el := s.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		label := el.AttrOr("aria-label", "")
		if label == "" {
			label = el.Text()
		}
		return ParseCount(label)
	}
	return 0
}

func ParseCount(label string) int {
	m := firstInt.FindString(label)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Resolve makes ref absolute against base. Unparseable input is returned as is.
func Resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return r.String()
	}
	return b.ResolveReference(r).String()
}
