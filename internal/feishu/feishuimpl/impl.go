package feishuimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	"github.com/orgball2608/squirrel-collector/internal/metrics"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Impl struct {
	baseURL   string
	batchSize int
	pacer     *rate.Limiter
	http      *http.Client
	logger    logger.Logger
	metrics   *metrics.Metrics
}

func New(opts Opts) *Impl {
	batchSize := opts.Config.Feishu.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Impl{
		baseURL:   strings.TrimRight(opts.Config.Feishu.BaseURL, "/"),
		batchSize: batchSize,
		pacer:     rate.NewLimiter(rate.Every(opts.Config.Feishu.BatchDelay), 1),
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    opts.Logger.WithComponent("Feishu"),
		metrics:   opts.Metrics,
	}
}

var _ feishu.Client = (*Impl)(nil)

// envelope is the common shape of every open-apis response.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (i *Impl) call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, i.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := i.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("non-JSON response (status %d): %s", resp.StatusCode, string(raw))
	}
	if env.Code != 0 {
		return fmt.Errorf("feishu error %d: %s", env.Code, env.Msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// tenantToken exchanges app credentials for a bearer token. The token
// endpoint returns it at the top level, not under data.
func (i *Impl) tenantToken(ctx context.Context, appID, appSecret string) (string, error) {
	body, err := json.Marshal(map[string]string{"app_id": appID, "app_secret": appSecret})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/auth/v3/tenant_access_token/internal", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Code  int    `json:"code"`
		Msg   string `json:"msg"`
		Token string `json:"tenant_access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("get tenant access token: %s", result.Msg)
	}
	return result.Token, nil
}

func (i *Impl) TestConnection(ctx context.Context, appID, appSecret string) error {
	if appID == "" || appSecret == "" {
		return apperrors.WrapWithCode(feishu.ErrIncomplete, apperrors.CodeSyncFailed, "test connection")
	}
	if _, err := i.tenantToken(ctx, appID, appSecret); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeSyncFailed, "test connection")
	}
	return nil
}

func (i *Impl) Sync(ctx context.Context, s domain.FeishuSettings, posts []domain.CapturedPost) (err error) {
	defer func() {
		if i.metrics != nil {
			i.metrics.ObserveSync(err)
		}
	}()

	if !s.Complete() {
		return apperrors.WrapWithCode(feishu.ErrIncomplete, apperrors.CodeSyncFailed, "sync to feishu")
	}
	if len(posts) == 0 {
		return nil
	}

	token, err := i.tenantToken(ctx, s.AppID, s.AppSecret)
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeSyncFailed, "sync to feishu")
	}

	docType := s.DocType
	if docType == "" {
		docType = domain.DocTypeDocx
	}
	if err := i.syncTo(ctx, token, s.DocToken, docType, posts); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeSyncFailed, "sync to feishu")
	}

	i.logger.Info("Synced posts to feishu", "count", len(posts), "doc_type", docType)
	return nil
}

func (i *Impl) syncTo(ctx context.Context, token, docToken string, docType domain.DocType, posts []domain.CapturedPost) error {
	switch docType {
	case domain.DocTypeDocx:
		return i.syncDocx(ctx, token, docToken, posts)
	case domain.DocTypeDoc:
		return i.syncDoc(ctx, token, docToken, posts)
	case domain.DocTypeSheet:
		return i.syncSheet(ctx, token, docToken, posts)
	case domain.DocTypeWiki:
		return i.syncWiki(ctx, token, docToken, posts)
	default:
		return fmt.Errorf("%w: %s", feishu.ErrUnsupportedDocType, docType)
	}
}

func (i *Impl) syncDocx(ctx context.Context, token, docToken string, posts []domain.CapturedPost) error {
	var doc struct {
		Document struct {
			DocumentID string `json:"document_id"`
		} `json:"document"`
	}
	if err := i.call(ctx, http.MethodGet, "/docx/v1/documents/"+docToken, token, nil, &doc); err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	pageID := doc.Document.DocumentID
	if pageID == "" {
		return fmt.Errorf("document %s has no root block", docToken)
	}

	var blocks []feishu.Block
	for _, p := range posts {
		blocks = append(blocks, feishu.Blocks(p)...)
	}

	batches := Batches(blocks, i.batchSize)
	path := fmt.Sprintf("/docx/v1/documents/%s/blocks/%s/children", docToken, pageID)
	// every batch goes to the top, so push them last-first to keep order
	for n := len(batches) - 1; n >= 0; n-- {
		if err := i.pacer.Wait(ctx); err != nil {
			return err
		}
		payload := map[string]any{"children": batches[n], "index": 0}
		if err := i.call(ctx, http.MethodPost, path, token, payload, nil); err != nil {
			return fmt.Errorf("append batch %d/%d: %w", len(batches)-n, len(batches), err)
		}
		i.logger.Debug("Appended block batch", "doc", docToken, "blocks", len(batches[n]))
	}
	return nil
}

// Batches splits blocks into chunks of at most size.
func Batches[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

type docRequest struct {
	Action   string `json:"action"`
	ElemType string `json:"elem_type"`
	BlockID  string `json:"block_id"`
	Text     struct {
		Text string `json:"text"`
	} `json:"text"`
}

func (i *Impl) syncDoc(ctx context.Context, token, docToken string, posts []domain.CapturedPost) error {
	var requests []docRequest
	for _, p := range posts {
		for _, line := range strings.Split(feishu.Markdown(p), "\n") {
			r := docRequest{Action: "InsertBlockAfter", ElemType: "text"}
			r.Text.Text = line
			requests = append(requests, r)
		}
	}

	payload := map[string]any{"doc_token": docToken, "requests": requests}
	if err := i.call(ctx, http.MethodPost, "/doc/v2/batch_update", token, payload, nil); err != nil {
		return fmt.Errorf("update doc: %w", err)
	}
	return nil
}

func (i *Impl) syncSheet(ctx context.Context, token, sheetToken string, posts []domain.CapturedPost) error {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, feishu.SheetRow(p))
	}

	payload := map[string]any{
		"valueRange": map[string]any{"range": feishu.SheetRange, "values": rows},
	}
	if err := i.call(ctx, http.MethodPost, "/sheets/v2/spreadsheets/"+sheetToken+"/values_append", token, payload, nil); err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

func (i *Impl) syncWiki(ctx context.Context, token, wikiToken string, posts []domain.CapturedPost) error {
	var node struct {
		Node struct {
			ObjToken string `json:"obj_token"`
			ObjType  string `json:"obj_type"`
		} `json:"node"`
	}
	path := "/wiki/v2/spaces/get_node?token=" + url.QueryEscape(wikiToken)
	if err := i.call(ctx, http.MethodGet, path, token, nil, &node); err != nil {
		return fmt.Errorf("get wiki node: %w", err)
	}
	if node.Node.ObjToken == "" {
		return fmt.Errorf("wiki node %s has no backing document", wikiToken)
	}

	switch domain.DocType(node.Node.ObjType) {
	case domain.DocTypeDocx:
		return i.syncDocx(ctx, token, node.Node.ObjToken, posts)
	case domain.DocTypeDoc:
		return i.syncDoc(ctx, token, node.Node.ObjToken, posts)
	default:
		return fmt.Errorf("%w: wiki node backed by %q", feishu.ErrUnsupportedDocType, node.Node.ObjType)
	}
}
