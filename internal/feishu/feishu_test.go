package feishu

import (
	"strings"
	"testing"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocURL(t *testing.T) {
	tests := []struct {
		url  string
		want DocRef
	}{
		{"https://acme.feishu.cn/docx/AbC123?from=share", DocRef{"AbC123", domain.DocTypeDocx}},
		{"https://acme.feishu.cn/docs/doccnXYZ", DocRef{"doccnXYZ", domain.DocTypeDoc}},
		{"https://acme.feishu.cn/sheets/shtcn1", DocRef{"shtcn1", domain.DocTypeSheet}},
		{"https://acme.larksuite.com/wiki/wikcn9", DocRef{"wikcn9", domain.DocTypeWiki}},
	}
	for _, tt := range tests {
		got, err := ParseDocURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDocURL("https://acme.feishu.cn/base/xyz")
	assert.ErrorIs(t, err, ErrUnrecognizedURL)
}

func TestBlocks(t *testing.T) {
	p := domain.CapturedPost{
		Author:            "Alice",
		Platform:          domain.PlatformXiaohongshu,
		TextContent:       "body",
		CanonicalURL:      "https://www.xiaohongshu.com/explore/1",
		CapturedAtEpochMs: 0,
	}

	blocks := Blocks(p)

	// heading, meta, original label, original, link, divider, blank
	require.Len(t, blocks, 7)
	assert.Equal(t, "Alice · 小红书", blocks[0].Text.Elements[0].TextRun.Content)
	assert.Equal(t, 3, blocks[0].Text.Style.HeadingLevel)
	assert.Equal(t, "时间: 1970/1/1 08:00:00", blocks[1].Text.Elements[0].TextRun.Content)
	link := blocks[4].Text.Elements[1].TextRun
	assert.Equal(t, p.CanonicalURL, link.Style.Link.URL)

	p.Enrichment = &domain.EnrichmentResult{SummaryText: "sum", Keywords: []string{"a", "b"}, Category: domain.CategoryLife}
	blocks = Blocks(p)
	require.Len(t, blocks, 10)
	assert.Equal(t, "分类: life | 时间: 1970/1/1 08:00:00", blocks[1].Text.Elements[0].TextRun.Content)
	assert.Equal(t, "关键词: #a #b", blocks[6].Text.Elements[0].TextRun.Content)
}

func TestMarkdownAndRow(t *testing.T) {
	p := domain.CapturedPost{
		Author:      "Bob",
		Platform:    domain.PlatformTwitter,
		TextContent: "hi",
		Enrichment:  &domain.EnrichmentResult{Keywords: []string{"go"}},
	}

	md := Markdown(p)
	assert.True(t, strings.HasPrefix(md, "### Bob · Twitter\n\n"))
	assert.Contains(t, md, "**关键词**: #go")
	assert.True(t, strings.HasSuffix(md, "---\n"))

	row := SheetRow(p)
	assert.Len(t, row, 8)
	assert.Equal(t, "Twitter", row[2])
	assert.Equal(t, "go", row[6])
}
