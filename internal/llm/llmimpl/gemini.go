package llmimpl

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type gemini struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, apiKey, baseURL, model string, httpClient *http.Client) (*gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &gemini{client: client, model: model}, nil
}

func (g *gemini) Complete(ctx context.Context, prompt string, images []Image) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		if len(img.Data) > 0 {
			parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
			continue
		}
		parts = append(parts, genai.NewPartFromURI(img.URL, "image/jpeg"))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
