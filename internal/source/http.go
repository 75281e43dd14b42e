package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/shantanuraj/roulette/internal/config"
)

// maxBodyBytes caps how much of a sync response is read.
const maxBodyBytes = 32 << 20

// StatusError is returned by HTTPFetcher.Fetch for a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source: GET %s: unexpected status %d", e.URL, e.Code)
}

// HTTPFetcher downloads the mapping text from a fixed URL.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher builds a fetcher for cfg.URL. The HTTP client is created
// once and reused across fetches.
func NewHTTPFetcher(cfg config.SyncConfig) *HTTPFetcher {
	return &HTTPFetcher{
		url: cfg.URL,
		client: &http.Client{
			Transport: &headerRoundTripper{
				base:      http.DefaultTransport,
				userAgent: cfg.UserAgent,
				auth:      cfg.Auth,
			},
			Timeout: cfg.Timeout,
		},
	}
}

// URL returns the address being fetched.
func (f *HTTPFetcher) URL() string { return f.url }

// Fetch performs one GET and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("source: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: f.url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("source: read body: %w", err)
	}
	return string(body), nil
}

// headerRoundTripper sets the User-Agent and auth headers on every request.
type headerRoundTripper struct {
	base      http.RoundTripper
	userAgent string
	auth      config.SyncAuthConfig
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	switch t.auth.Mode {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "apikey":
		req.Header.Set(t.auth.Header, t.auth.Token())
	}
	return t.base.RoundTrip(req)
}
