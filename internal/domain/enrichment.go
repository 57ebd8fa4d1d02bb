package domain

import "strings"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type Category string

const (
	CategoryTech      Category = "tech"
	CategoryProduct   Category = "product"
	CategoryMarketing Category = "marketing"
	CategoryNews      Category = "news"
	CategoryOpinion   Category = "opinion"
	CategoryLife      Category = "life"
	CategoryOther     Category = "other"
)

var categoryAliases = map[string]Category{
	"tech":      CategoryTech,
	"技术":        CategoryTech,
	"product":   CategoryProduct,
	"产品":        CategoryProduct,
	"marketing": CategoryMarketing,
	"营销":        CategoryMarketing,
	"news":      CategoryNews,
	"资讯":        CategoryNews,
	"opinion":   CategoryOpinion,
	"观点":        CategoryOpinion,
	"life":      CategoryLife,
	"生活":        CategoryLife,
	"other":     CategoryOther,
	"其他":        CategoryOther,
}

// ParseCategory maps a model-provided label onto the closed category set.
func ParseCategory(s string) Category {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return CategoryOther
}

type EnrichmentResult struct {
	SummaryText string    `json:"summaryText"`
	Keywords    []string  `json:"keywords"`
	Sentiment   Sentiment `json:"sentiment"`
	Category    Category  `json:"category"`
}
