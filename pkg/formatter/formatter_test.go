package formatter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
		-12:      "-12",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "input %d", in)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `a\_b\*c\.`, EscapeMarkdownV2("a_b*c."))
	assert.Equal(t, "plain", EscapeMarkdownV2("plain"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))

	long := strings.Repeat("x", 150)
	got := Truncate(long, 100)
	assert.Equal(t, 103, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	cjk := strings.Repeat("评", 120)
	got = Truncate(cjk, 100)
	assert.Equal(t, 103, utf8.RuneCountInString(got))
}

func TestHead(t *testing.T) {
	assert.Equal(t, "", Head("abc", 0))
	assert.Equal(t, "ab", Head("abc", 2))
	assert.Equal(t, "abc", Head("abc", 10))
	assert.Equal(t, "小红", Head("小红书", 2))
}
