// Package texlive compiles LaTeX documents to PDF through a remote
// latexcgi endpoint such as texlive.net.
package texlive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultURL is the public texlive.net compile endpoint.
const DefaultURL = "https://texlive.net/cgi-bin/latexcgi"

// errorSnippet is how much of a failed response body is kept in the error.
const errorSnippet = 500

// ErrCompileFailed is returned when the endpoint answers without a PDF.
var ErrCompileFailed = errors.New("latex compile failed")

// Client posts LaTeX sources to a latexcgi endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	maxTries   uint
}

// NewClient creates a client for url with the given request timeout. An
// empty url uses DefaultURL.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxTries:   3,
	}
}

// Compile sends tex as document.tex and returns the compiled PDF.
//
// Transport errors and 5xx answers are retried with exponential backoff;
// a compile error reported by the endpoint is returned immediately.
func (c *Client) Compile(ctx context.Context, tex string) ([]byte, error) {
	body, contentType, err := formBody(tex)
	if err != nil {
		return nil, err
	}

	return backoff.Retry(ctx, func() ([]byte, error) {
		return c.post(ctx, body, contentType)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
}

func (c *Client) post(ctx context.Context, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post latex: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d: %s", ErrCompileFailed, resp.StatusCode, snippet(data))
	}
	if resp.StatusCode != http.StatusOK || !isPDF(resp.Header.Get("Content-Type")) {
		return nil, backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrCompileFailed, resp.StatusCode, snippet(data)))
	}
	return data, nil
}

func formBody(tex string) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"filename[]", "document.tex"},
		{"filecontents[]", tex},
		{"return", "pdf"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func isPDF(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/pdf"
}

func snippet(data []byte) string {
	if len(data) > errorSnippet {
		data = data[:errorSnippet]
	}
	return string(data)
}
