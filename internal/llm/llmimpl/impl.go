package llmimpl

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/llm"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// completer is one provider's way of answering a prompt with optional images.
type completer interface {
	Complete(ctx context.Context, prompt string, images []Image) (string, error)
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Impl struct {
	defaultProvider string
	http            *http.Client
	maxImageBytes   int64
	logger          logger.Logger
}

func New(opts Opts) *Impl {
	return &Impl{
		defaultProvider: opts.Config.LLM.Provider,
		http:            &http.Client{Timeout: opts.Config.LLM.Timeout},
		maxImageBytes:   maxImageBytes,
		logger:          opts.Logger.WithComponent("LLM"),
	}
}

var _ llm.Client = (*Impl)(nil)

func (i *Impl) provider(settings domain.Settings) string {
	p := strings.ToLower(strings.TrimSpace(settings.Provider))
	if p == "" {
		p = i.defaultProvider
	}
	return p
}

func (i *Impl) completer(ctx context.Context, settings domain.Settings, apiKey, baseURL, model string) (completer, error) {
	if apiKey == "" {
		return nil, llm.ErrNotConfigured
	}

	switch i.provider(settings) {
	case ProviderGemini:
		return newGemini(ctx, apiKey, baseURL, model, i.http)
	case ProviderOpenAI, "":
		if baseURL == "" {
			return nil, llm.ErrNotConfigured
		}
		return newOpenAI(apiKey, baseURL, model, i.http), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", settings.Provider)
	}
}

func (i *Impl) RecognizeImage(ctx context.Context, settings domain.Settings, imageURL string) (string, error) {
	apiKey, baseURL, model := settings.Vision()
	c, err := i.completer(ctx, settings, apiKey, baseURL, model)
	if err != nil {
		return "", err
	}

	img, err := FetchImage(ctx, i.http, imageURL, i.maxImageBytes)
	if err != nil {
		// the provider may still be able to fetch the URL itself
		i.logger.Warn("Failed to inline image, passing URL through", "url", imageURL, "error", err)
		img = Image{URL: imageURL}
	}

	text, err := c.Complete(ctx, llm.RecognizePrompt, []Image{img})
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (i *Impl) Summarize(ctx context.Context, settings domain.Settings, content string) (domain.EnrichmentResult, error) {
	c, err := i.completer(ctx, settings, settings.APIKey, settings.BaseURL, settings.Model)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}

	reply, err := c.Complete(ctx, llm.SummaryPrompt(settings, content), nil)
	if err != nil {
		return domain.EnrichmentResult{}, fmt.Errorf("summarize: %w", err)
	}

	result, err := llm.ParseSummary(reply, content)
	if err != nil {
		i.logger.Debug("Summary reply degraded", "code", apperrors.GetCode(err), "error", err, "reply", reply)
	}
	return result, nil
}

func (i *Impl) GeneratePosts(ctx context.Context, settings domain.Settings, req domain.CreationRequest, refs []domain.CapturedPost) ([]string, error) {
	c, err := i.completer(ctx, settings, settings.APIKey, settings.BaseURL, settings.Model)
	if err != nil {
		return nil, err
	}

	reply, err := c.Complete(ctx, llm.CreationPrompt(settings, req, refs), nil)
	if err != nil {
		return nil, fmt.Errorf("generate posts: %w", err)
	}
	return llm.SplitDrafts(reply), nil
}
