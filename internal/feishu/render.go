package feishu

import (
	"fmt"
	"strings"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

// BlockTypeText is the docx block type for a paragraph.
const BlockTypeText = 2

const divider = "────────────────────"

// China Standard Time, fixed so rendering does not depend on tzdata.
var cst = time.FixedZone("CST", 8*60*60)

type Link struct {
	URL string `json:"url"`
}

type TextStyle struct {
	Bold   bool  `json:"bold,omitempty"`
	Italic bool  `json:"italic,omitempty"`
	Link   *Link `json:"link,omitempty"`
}

type TextRun struct {
	Content string     `json:"content"`
	Style   *TextStyle `json:"text_element_style,omitempty"`
}

type Element struct {
	TextRun TextRun `json:"text_run"`
}

type ParagraphStyle struct {
	HeadingLevel int `json:"headingLevel,omitempty"`
}

type Text struct {
	Elements []Element       `json:"elements"`
	Style    *ParagraphStyle `json:"style,omitempty"`
}

type Block struct {
	BlockType int  `json:"block_type"`
	Text      Text `json:"text"`
}

func paragraph(runs ...TextRun) Block {
	b := Block{BlockType: BlockTypeText}
	for _, r := range runs {
		b.Text.Elements = append(b.Text.Elements, Element{TextRun: r})
	}
	return b
}

func plain(s string) TextRun  { return TextRun{Content: s} }
func bold(s string) TextRun   { return TextRun{Content: s, Style: &TextStyle{Bold: true}} }
func italic(s string) TextRun { return TextRun{Content: s, Style: &TextStyle{Italic: true}} }

// FormatTime renders an epoch-ms timestamp the way exports show it.
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).In(cst).Format("2006/1/2 15:04:05")
}

// Title is "<author> · <platform>".
func Title(p domain.CapturedPost) string {
	if p.Platform == "" {
		return p.Author
	}
	return p.Author + " · " + p.Platform.DisplayName()
}

func enrichmentOf(p domain.CapturedPost) domain.EnrichmentResult {
	if p.Enrichment == nil {
		return domain.EnrichmentResult{}
	}
	return *p.Enrichment
}

func hashtags(keywords []string) string {
	tags := make([]string, 0, len(keywords))
	for _, k := range keywords {
		tags = append(tags, "#"+k)
	}
	return strings.Join(tags, " ")
}

// Blocks renders one post as a docx block tree.
func Blocks(p domain.CapturedPost) []Block {
	e := enrichmentOf(p)

	heading := paragraph(bold(Title(p)))
	heading.Text.Style = &ParagraphStyle{HeadingLevel: 3}
	blocks := []Block{heading}

	var meta []string
	if e.Category != "" {
		meta = append(meta, "分类: "+string(e.Category))
	}
	meta = append(meta, "时间: "+FormatTime(p.CapturedAtEpochMs))
	blocks = append(blocks, paragraph(italic(strings.Join(meta, " | "))))

	if e.SummaryText != "" {
		blocks = append(blocks, paragraph(bold("摘要:")), paragraph(plain(e.SummaryText)))
	}
	blocks = append(blocks, paragraph(bold("原文:")), paragraph(plain(p.TextContent)))

	if len(e.Keywords) > 0 {
		blocks = append(blocks, paragraph(italic("关键词: "+hashtags(e.Keywords))))
	}
	if p.CanonicalURL != "" {
		blocks = append(blocks, paragraph(
			bold("原文链接: "),
			TextRun{Content: p.CanonicalURL, Style: &TextStyle{Link: &Link{URL: p.CanonicalURL}}},
		))
	}
	return append(blocks, paragraph(italic(divider)), paragraph(plain(" ")))
}

// Markdown renders one post for the legacy doc API, which takes plain lines.
func Markdown(p domain.CapturedPost) string {
	e := enrichmentOf(p)
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", Title(p))
	if e.Category != "" {
		fmt.Fprintf(&sb, "**分类**: %s\n", e.Category)
	}
	fmt.Fprintf(&sb, "**时间**: %s\n\n", FormatTime(p.CapturedAtEpochMs))
	if e.SummaryText != "" {
		fmt.Fprintf(&sb, "**摘要**:\n%s\n\n", e.SummaryText)
	}
	fmt.Fprintf(&sb, "**原文**:\n%s\n\n", p.TextContent)
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&sb, "**关键词**: %s\n\n", hashtags(e.Keywords))
	}
	if p.CanonicalURL != "" {
		fmt.Fprintf(&sb, "**原文链接**: %s\n\n", p.CanonicalURL)
	}
	sb.WriteString("---\n")
	return sb.String()
}

// SheetRange is where rows are appended in spreadsheet targets.
const SheetRange = "Sheet1!A:H"

func SheetRow(p domain.CapturedPost) []string {
	e := enrichmentOf(p)
	return []string{
		FormatTime(p.CapturedAtEpochMs),
		p.Author,
		p.Platform.DisplayName(),
		string(e.Category),
		e.SummaryText,
		p.TextContent,
		strings.Join(e.Keywords, ", "),
		p.CanonicalURL,
	}
}
