package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Fetcher performs page fetches with a minimum delay between requests and a
// redirect cap. It is shared by every strategy that touches the network.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	delay       time.Duration
	mu          sync.Mutex
	lastRequest time.Time
}

// NewFetcher creates a fetcher. timeoutSeconds bounds a single request;
// delayMS is the minimum spacing between consecutive fetches.
func NewFetcher(userAgent string, timeoutSeconds, delayMS int) *Fetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; ChatExport/1.0)"
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		delay:     time.Duration(delayMS) * time.Millisecond,
	}
}

// Fetch retrieves a page body as delivered, without script execution.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	body, _, err := f.get(ctx, targetURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return body, err
}

// FetchStructured retrieves a URL expecting a structured (JSON) response.
// A non-JSON content type is an error: HTML fallbacks from probed endpoints
// must never be mistaken for structured data.
func (f *Fetcher) FetchStructured(ctx context.Context, targetURL string) ([]byte, error) {
	body, contentType, err := f.get(ctx, targetURL, "application/json")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(contentType, "json") {
		return nil, fmt.Errorf("non-structured response (%s) from %s", contentType, targetURL)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, targetURL, accept string) ([]byte, string, error) {
	f.waitForRateLimit(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func (f *Fetcher) waitForRateLimit(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	elapsed := time.Since(f.lastRequest)
	if elapsed < f.delay {
		select {
		case <-time.After(f.delay - elapsed):
		case <-ctx.Done():
		}
	}
	f.lastRequest = time.Now()
}
