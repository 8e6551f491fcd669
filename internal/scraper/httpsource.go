package scraper

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"quotescraper/internal/utils"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/htmlindex"
)

// HTTPSource fetches server-rendered pages without a browser.
type HTTPSource struct {
	client    *http.Client
	userAgent string
}

func NewHTTPSource(userAgent string) *HTTPSource {
	return &HTTPSource{client: &http.Client{}, userAgent: userAgent}
}

func (s *HTTPSource) Name() string { return utils.SourceHTTP }

func (s *HTTPSource) ReadPage(url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", url, err)
	}
	defer body.Close()

	return VisibleText(body)
}

// decodeBody undoes Content-Encoding and converts the declared charset to UTF-8.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	var reader io.ReadCloser
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = gz
	case "deflate":
		reader = flate.NewReader(resp.Body)
	case "br":
		reader = io.NopCloser(brotli.NewReader(resp.Body))
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = zr.IOReadCloser()
	case "", "identity":
		reader = io.NopCloser(resp.Body)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}

	charset := contentCharset(resp.Header.Get("Content-Type"))
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return reader, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{enc.NewDecoder().Reader(reader), reader}, nil
}

func contentCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
