// Package feishu exports captured posts into a Feishu document.
package feishu

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var (
	ErrIncomplete         = errors.New("feishu settings are incomplete")
	ErrUnsupportedDocType = errors.New("unsupported feishu document type")
	ErrUnrecognizedURL    = errors.New("unrecognized feishu document url")
)

//go:generate go run go.uber.org/mock/mockgen -source=feishu.go -destination=mocks/mock.go
type Client interface {
	// Sync appends posts to the configured document. Nothing is retried.
	Sync(ctx context.Context, settings domain.FeishuSettings, posts []domain.CapturedPost) error

	// TestConnection checks that the credentials can obtain a token.
	TestConnection(ctx context.Context, appID, appSecret string) error
}

type DocRef struct {
	Token string
	Type  domain.DocType
}

var docPaths = []struct {
	re  *regexp.Regexp
	typ domain.DocType
}{
	{regexp.MustCompile(`/docx/([a-zA-Z0-9]+)`), domain.DocTypeDocx},
	{regexp.MustCompile(`/docs/([a-zA-Z0-9]+)`), domain.DocTypeDoc},
	{regexp.MustCompile(`/sheets/([a-zA-Z0-9]+)`), domain.DocTypeSheet},
	{regexp.MustCompile(`/wiki/([a-zA-Z0-9]+)`), domain.DocTypeWiki},
}

// ParseDocURL reads the document token and kind from a share link such as
// https://example.feishu.cn/docx/AbC123.
func ParseDocURL(raw string) (DocRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return DocRef{}, fmt.Errorf("%w: %v", ErrUnrecognizedURL, err)
	}
	for _, p := range docPaths {
		if m := p.re.FindStringSubmatch(u.Path); m != nil {
			return DocRef{Token: m[1], Type: p.typ}, nil
		}
	}
	return DocRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedURL, u.Path)
}
