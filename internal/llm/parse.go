package llm

import (
	"encoding/json"
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/formatter"
)

const FallbackSummaryRunes = 100

type summaryReply struct {
	Summary   string   `json:"summary"`
	Keywords  []string `json:"keywords"`
	Sentiment string   `json:"sentiment"`
	Category  string   `json:"category"`
}

// Degraded is the result used when the model reply cannot be parsed.
func Degraded(content string) domain.EnrichmentResult {
	return domain.EnrichmentResult{
		SummaryText: formatter.Head(content, FallbackSummaryRunes),
		Keywords:    []string{},
		Sentiment:   domain.SentimentNeutral,
		Category:    domain.CategoryOther,
	}
}

// ParseSummary always returns a usable result. When the reply had to be
// replaced by Degraded the error says why and carries CodeParseFailed.
func ParseSummary(reply, content string) (domain.EnrichmentResult, error) {
	var parsed summaryReply
	if err := json.Unmarshal([]byte(stripFences(reply)), &parsed); err != nil {
		return Degraded(content), apperrors.WrapWithCode(err, apperrors.CodeParseFailed, "parse summary reply")
	}

	result := domain.EnrichmentResult{
		SummaryText: strings.TrimSpace(parsed.Summary),
		Keywords:    parsed.Keywords,
		Sentiment:   domain.ParseSentiment(parsed.Sentiment),
		Category:    domain.ParseCategory(parsed.Category),
	}
	if result.SummaryText == "" {
		result.SummaryText = formatter.Head(content, FallbackSummaryRunes)
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	return result, nil
}

// stripFences removes a ```json ... ``` wrapper some models add anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
