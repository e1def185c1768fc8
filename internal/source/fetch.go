package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves the raw bytes behind a locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	Timeout   time.Duration // Client timeout. Default: 30s.
	MaxBytes  int64         // Max response body size. Default: 10MB.
	UserAgent string
}

func (c *HTTPConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "mocktest/1.0"
	}
}

// HTTPFetcher fetches http(s) locators.
type HTTPFetcher struct {
	client *http.Client
	config HTTPConfig
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	cfg.defaults()
	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// Fetch performs a GET and returns the body. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// FSFetcher reads locators as slash-separated paths inside a file system.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimPrefix(locator, "/"))
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// MuxFetcher sends http(s) locators to HTTP and everything else to Files.
type MuxFetcher struct {
	HTTP  Fetcher
	Files Fetcher
}

// Fetch implements Fetcher.
func (m MuxFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if isURL(locator) {
		if m.HTTP == nil {
			return nil, fmt.Errorf("no http fetcher for %s", locator)
		}
		return m.HTTP.Fetch(ctx, locator)
	}
	if m.Files == nil {
		return nil, fmt.Errorf("no file fetcher for %s", locator)
	}
	return m.Files.Fetch(ctx, locator)
}

func isURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}
