package llm

import (
	"strings"
	"testing"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummary(t *testing.T) {
	reply := "```json\n{\"summary\":\"s\",\"keywords\":[\"a\",\"b\",\"c\"],\"sentiment\":\"Positive\",\"category\":\"技术\"}\n```"

	got, err := ParseSummary(reply, "content")

	require.NoError(t, err)
	assert.Equal(t, domain.EnrichmentResult{
		SummaryText: "s",
		Keywords:    []string{"a", "b", "c"},
		Sentiment:   domain.SentimentPositive,
		Category:    domain.CategoryTech,
	}, got)
}

func TestParseSummary_Degrades(t *testing.T) {
	content := strings.Repeat("长", 150)

	got, err := ParseSummary("Sure! Here is the summary you asked for.", content)

	assert.Equal(t, apperrors.CodeParseFailed, apperrors.GetCode(err))
	assert.False(t, apperrors.Surfaced(err))
	assert.Equal(t, strings.Repeat("长", 100), got.SummaryText)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
	assert.Equal(t, domain.CategoryOther, got.Category)
	assert.Equal(t, []string{}, got.Keywords)
}

func TestParseSummary_FillsMissingFields(t *testing.T) {
	got, err := ParseSummary(`{"category":"unknown"}`, "short")

	require.NoError(t, err)
	assert.Equal(t, "short", got.SummaryText)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
	assert.Equal(t, domain.CategoryOther, got.Category)
	assert.Empty(t, got.Keywords)
}

func TestSummaryPrompt_UsesCustomRules(t *testing.T) {
	p := SummaryPrompt(domain.Settings{CustomSummaryPrompt: "ONLY ONE LINE"}, "body")

	assert.Contains(t, p, "ONLY ONE LINE")
	assert.NotContains(t, p, "核心摘要**")
	assert.Contains(t, p, "body")

	assert.Contains(t, SummaryPrompt(domain.Settings{}, "body"), DefaultSummaryRules)
}

func TestCreationPrompt(t *testing.T) {
	refs := []domain.CapturedPost{
		{TextContent: "raw text"},
		{TextContent: "ignored", Enrichment: &domain.EnrichmentResult{SummaryText: "summary wins"}},
	}

	p := CreationPrompt(domain.Settings{}, domain.CreationRequest{
		Topic:    "Go",
		Language: domain.LanguageEn,
		Tone:     domain.ToneCasual,
		Length:   domain.LengthShort,
	}, refs)

	assert.Contains(t, p, "**主题**：Go")
	assert.Contains(t, p, "English")
	assert.Contains(t, p, "轻松幽默")
	assert.Contains(t, p, "1. raw text")
	assert.Contains(t, p, "2. summary wins")
}

func TestSplitDrafts(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, SplitDrafts("one\n---\ntwo\n---\n\nthree\n---"))
	assert.Equal(t, []string{"single"}, SplitDrafts("  single "))
}
