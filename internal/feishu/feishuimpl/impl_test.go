package feishuimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeishu struct {
	mu       sync.Mutex
	requests []string
	children [][]feishu.Block
	bodies   map[string]map[string]any
	wikiType string
}

func (f *fakeFeishu) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	ok := func(data any) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": "success", "data": data})
	}

	if r.URL.Path != "/auth/v3/tenant_access_token/internal" && r.Header.Get("Authorization") != "Bearer t-123" {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 99991663, "msg": "invalid token"})
		return
	}

	switch r.URL.Path {
	case "/auth/v3/tenant_access_token/internal":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["app_secret"] != "secret" {
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 10014, "msg": "app secret invalid"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "tenant_access_token": "t-123", "expire": 7200})
	case "/docx/v1/documents/doxABC", "/docx/v1/documents/doxWIKI":
		ok(map[string]any{"document": map[string]any{"document_id": "root"}})
	case "/docx/v1/documents/doxABC/blocks/root/children", "/docx/v1/documents/doxWIKI/blocks/root/children":
		var body struct {
			Children []feishu.Block `json:"children"`
			Index    int            `json:"index"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.children = append(f.children, body.Children)
		ok(nil)
	case "/wiki/v2/spaces/get_node":
		ok(map[string]any{"node": map[string]any{"obj_token": "doxWIKI", "obj_type": f.wikiType}})
	case "/sheets/v2/spreadsheets/shtABC/values_append", "/doc/v2/batch_update":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[r.URL.Path] = body
		ok(nil)
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 404, "msg": "not found"})
	}
}

func setup(t *testing.T) (*Impl, *fakeFeishu) {
	t.Helper()
	fake := &fakeFeishu{bodies: map[string]map[string]any{}, wikiType: "docx"}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Feishu.BaseURL = srv.URL + "/"
	cfg.Feishu.BatchSize = 50
	cfg.Feishu.BatchDelay = time.Millisecond
	return New(Opts{Config: cfg, Logger: logger.Nop()}), fake
}

func posts(n int) []domain.CapturedPost {
	out := make([]domain.CapturedPost, n)
	for i := range out {
		out[i] = domain.CapturedPost{
			Author:       fmt.Sprintf("author-%d", i),
			Platform:     domain.PlatformTwitter,
			TextContent:  "text",
			CanonicalURL: fmt.Sprintf("https://x.com/a/status/%d", i),
			Enrichment:   &domain.EnrichmentResult{SummaryText: "s", Keywords: []string{"k"}, Category: domain.CategoryTech},
		}
	}
	return out
}

func settings(docType domain.DocType, token string) domain.FeishuSettings {
	return domain.FeishuSettings{AppID: "cli_1", AppSecret: "secret", DocToken: token, DocType: docType}
}

func TestSyncDocx_BatchesKeepOrder(t *testing.T) {
	impl, fake := setup(t)
	// 10 blocks per enriched post with a link
	input := posts(7)

	err := impl.Sync(context.Background(), settings(domain.DocTypeDocx, "doxABC"), input)
	require.NoError(t, err)

	require.Len(t, fake.children, 2)
	assert.Len(t, fake.children[0], 20)
	assert.Len(t, fake.children[1], 50)

	// inserted at index 0 one after another: the last request ends up on top
	top := fake.children[1][0].Text.Elements[0].TextRun.Content
	assert.Equal(t, "author-0 · Twitter", top)
}

func TestSyncWiki_ResolvesBackingDoc(t *testing.T) {
	impl, fake := setup(t)

	err := impl.Sync(context.Background(), settings(domain.DocTypeWiki, "wikABC"), posts(1))
	require.NoError(t, err)

	assert.Contains(t, fake.requests, "GET /wiki/v2/spaces/get_node")
	assert.Contains(t, fake.requests, "POST /docx/v1/documents/doxWIKI/blocks/root/children")
}

func TestSyncWiki_UnsupportedBacking(t *testing.T) {
	impl, fake := setup(t)
	fake.wikiType = "bitable"

	err := impl.Sync(context.Background(), settings(domain.DocTypeWiki, "wikABC"), posts(1))

	assert.ErrorIs(t, err, feishu.ErrUnsupportedDocType)
	assert.Equal(t, apperrors.CodeSyncFailed, apperrors.GetCode(err))
}

func TestSyncSheet(t *testing.T) {
	impl, fake := setup(t)

	require.NoError(t, impl.Sync(context.Background(), settings(domain.DocTypeSheet, "shtABC"), posts(2)))

	body := fake.bodies["/sheets/v2/spreadsheets/shtABC/values_append"]
	require.NotNil(t, body)
	vr := body["valueRange"].(map[string]any)
	assert.Equal(t, feishu.SheetRange, vr["range"])
	assert.Len(t, vr["values"], 2)
}

func TestSyncDoc(t *testing.T) {
	impl, fake := setup(t)

	require.NoError(t, impl.Sync(context.Background(), settings(domain.DocTypeDoc, "docABC"), posts(1)))

	body := fake.bodies["/doc/v2/batch_update"]
	require.NotNil(t, body)
	assert.Equal(t, "docABC", body["doc_token"])
	assert.NotEmpty(t, body["requests"])
}

func TestSync_Incomplete(t *testing.T) {
	impl, fake := setup(t)

	err := impl.Sync(context.Background(), domain.FeishuSettings{AppID: "x"}, posts(1))

	assert.ErrorIs(t, err, feishu.ErrIncomplete)
	assert.Empty(t, fake.requests)
}

func TestTestConnection(t *testing.T) {
	impl, _ := setup(t)

	assert.NoError(t, impl.TestConnection(context.Background(), "cli_1", "secret"))

	err := impl.TestConnection(context.Background(), "cli_1", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app secret invalid")
	assert.True(t, apperrors.Surfaced(err))
}

func TestBatches(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batches([]int{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, Batches([]int{}, 2))
}
