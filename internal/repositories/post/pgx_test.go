package post

import (
	"strings"
	"testing"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveQuery(t *testing.T) {
	query, args, err := saveQuery(domain.CapturedPost{
		ID:           "id",
		CanonicalURL: "https://x.com/a/status/1",
		Platform:     domain.PlatformTwitter,
		TextContent:  "hello",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO captured_posts (id,source_id,canonical_url"))
	assert.Contains(t, query, "ON CONFLICT (canonical_url) DO UPDATE SET")
	assert.Contains(t, query, "COALESCE(captured_posts.enrichment, EXCLUDED.enrichment)")
	assert.Contains(t, query, "$17")
	require.Len(t, args, len(columns))
	assert.Equal(t, []string{}, args[8], "media urls must not be NULL")
	assert.Equal(t, "twitter", args[12])
	assert.Nil(t, args[16])
}

func TestSaveQuery_EncodesEnrichment(t *testing.T) {
	_, args, err := saveQuery(domain.CapturedPost{
		Enrichment: &domain.EnrichmentResult{SummaryText: "s", Sentiment: domain.SentimentNeutral},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"summaryText":"s","keywords":null,"sentiment":"neutral","category":""}`, string(args[16].([]byte)))
}

func TestEnrichQuery_OnlyFillsEmptyEnrichment(t *testing.T) {
	query, args, err := enrichQuery("p1", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "UPDATE captured_posts SET enrichment = $1 WHERE id = $2 AND enrichment IS NULL", query)
	assert.Equal(t, []any{[]byte(`{}`), "p1"}, args)
}

func TestListQuery(t *testing.T) {
	query, _, err := listQuery(20).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, "FROM captured_posts ORDER BY captured_at DESC LIMIT 20"))

	query, args, err := listQuery(0).Where("id = ?", "x").ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
	assert.Contains(t, query, "WHERE id = $1")
	assert.Equal(t, []any{"x"}, args)
}

func TestTrimQuery(t *testing.T) {
	query, args, err := trimQuery(50)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM captured_posts WHERE id NOT IN (SELECT id FROM captured_posts ORDER BY captured_at DESC LIMIT 50)", query)
	assert.Empty(t, args)
}

func TestDecodeEnrichment(t *testing.T) {
	e, err := decodeEnrichment(nil)
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = decodeEnrichment([]byte(`{"summaryText":"x","keywords":["a"],"sentiment":"positive","category":"tech"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryTech, e.Category)

	_, err = decodeEnrichment([]byte(`{`))
	assert.Error(t, err)
}
