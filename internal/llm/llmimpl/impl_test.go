package llmimpl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/llm"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImpl() *Impl {
	cfg := &config.Config{}
	cfg.LLM.Provider = ProviderOpenAI
	cfg.LLM.Timeout = 5 * time.Second
	return New(Opts{Config: cfg, Logger: logger.Nop()})
}

// chatServer replies to /chat/completions with reply and records request bodies.
func chatServer(t *testing.T, reply string, bodies *[]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chat/completions":
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if bodies != nil {
				*bodies = append(*bodies, body)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{"message": map[string]any{"content": reply}}},
			})
		case "/img.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = io.WriteString(w, "\x89PNG fake")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func settingsFor(srv *httptest.Server) domain.Settings {
	return domain.Settings{APIKey: "key", BaseURL: srv.URL + "/v1/", Model: "m"}
}

func TestSummarize(t *testing.T) {
	var bodies []map[string]any
	srv := chatServer(t, `{"summary":"ok","keywords":["go"],"sentiment":"negative","category":"news"}`, &bodies)

	got, err := newTestImpl().Summarize(context.Background(), settingsFor(srv), "content")
	require.NoError(t, err)

	assert.Equal(t, "ok", got.SummaryText)
	assert.Equal(t, domain.SentimentNegative, got.Sentiment)
	assert.Equal(t, domain.CategoryNews, got.Category)
	require.Len(t, bodies, 1)
	assert.Equal(t, "m", bodies[0]["model"])
}

func TestSummarize_DegradesOnProse(t *testing.T) {
	srv := chatServer(t, "I cannot produce JSON today", nil)

	got, err := newTestImpl().Summarize(context.Background(), settingsFor(srv), "content")
	require.NoError(t, err)

	assert.Equal(t, llm.Degraded("content"), got)
}

func TestSummarize_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestImpl().Summarize(context.Background(), settingsFor(srv), "content")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSummarize_NotConfigured(t *testing.T) {
	_, err := newTestImpl().Summarize(context.Background(), domain.Settings{}, "content")

	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestRecognizeImage_InlinesImage(t *testing.T) {
	var bodies []map[string]any
	srv := chatServer(t, "  text in image \n", &bodies)

	got, err := newTestImpl().RecognizeImage(context.Background(), settingsFor(srv), srv.URL+"/img.png")
	require.NoError(t, err)

	assert.Equal(t, "text in image", got)
	require.Len(t, bodies, 1)
	raw, _ := json.Marshal(bodies[0]["messages"])
	assert.Contains(t, string(raw), "data:image/png;base64,")
}

func TestRecognizeImage_FallsBackToURL(t *testing.T) {
	var bodies []map[string]any
	srv := chatServer(t, "x", &bodies)

	_, err := newTestImpl().RecognizeImage(context.Background(), settingsFor(srv), srv.URL+"/missing.png")
	require.NoError(t, err)

	raw, _ := json.Marshal(bodies[0]["messages"])
	assert.Contains(t, string(raw), srv.URL+"/missing.png")
	assert.False(t, strings.Contains(string(raw), "base64"))
}

func TestRecognizeImage_OversizedImageIsPassedAsURL(t *testing.T) {
	var bodies []map[string]any
	srv := chatServer(t, "x", &bodies)
	impl := newTestImpl()
	impl.maxImageBytes = 4

	_, err := impl.RecognizeImage(context.Background(), settingsFor(srv), srv.URL+"/img.png")
	require.NoError(t, err)

	require.Len(t, bodies, 1)
	raw, _ := json.Marshal(bodies[0]["messages"])
	assert.Contains(t, string(raw), srv.URL+"/img.png")
	assert.NotContains(t, string(raw), "base64")
}

func TestFetchImage_RejectsOverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		// chunked, so the size is only known while reading
		w.(http.Flusher).Flush()
		_, _ = io.WriteString(w, strings.Repeat("x", 32))
	}))
	t.Cleanup(srv.Close)

	_, err := FetchImage(context.Background(), srv.Client(), srv.URL, 16)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	img, err := FetchImage(context.Background(), srv.Client(), srv.URL, 32)
	require.NoError(t, err)
	assert.Len(t, img.Data, 32)
}

func TestGeneratePosts(t *testing.T) {
	srv := chatServer(t, "draft one\n---\ndraft two\n---\ndraft three", nil)

	got, err := newTestImpl().GeneratePosts(context.Background(), settingsFor(srv), domain.CreationRequest{Topic: "t"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"draft one", "draft two", "draft three"}, got)
}

func TestUnknownProvider(t *testing.T) {
	s := domain.Settings{Provider: "mystery", APIKey: "k", BaseURL: "http://localhost"}

	_, err := newTestImpl().Summarize(context.Background(), s, "c")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
