package llmimpl

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxImageBytes = 10 << 20

var ErrImageTooLarge = errors.New("image too large to inline")

// Image is either inline bytes or a URL the provider fetches itself.
type Image struct {
	URL      string
	MimeType string
	Data     []byte
}

// DataURL renders inline images as a data: URL, otherwise returns URL.
func (img Image) DataURL() string {
	if len(img.Data) == 0 {
		return img.URL
	}
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// FetchImage downloads an image so that providers without access to the
// source CDN can still see it. Images over limit bytes are not inlined.
func FetchImage(ctx context.Context, client *http.Client, url string, limit int64) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > limit {
		return Image{}, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, resp.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return Image{}, fmt.Errorf("%w: over %d bytes", ErrImageTooLarge, limit)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return Image{URL: url, MimeType: mime, Data: data}, nil
}
