package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Upstream responses are capped to keep a misbehaving endpoint from
// ballooning memory. The full app catalog is the largest legitimate payload
// and stays well under this.
const maxResponseBytes = 32 << 20

// Getter issues the GET requests shared by every adapter: fixed user agent,
// bounded timeout, compressed transfer, body size cap.
type Getter struct {
	client    *http.Client
	userAgent string
}

// NewGetter constructs a Getter. A non-positive timeout falls back to 10s,
// keeping every adapter inside the 8-12s contract.
func NewGetter(timeout time.Duration, userAgent string) *Getter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = "Medallion/0.1"
	}
	return &Getter{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get fetches url and returns the response body. Cookies may be nil.
// Transport errors and non-200 statuses come back tagged ErrTransient. The
// transparent gzip support in net/http handles compressed transfer.
func (g *Getter) Get(ctx context.Context, url string, cookies []*http.Cookie) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Wrap(ErrTransient, "", "build request", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	requestStart := time.Now()
	resp, err := g.client.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request (latency=%v): %w", ErrTransient, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d (latency=%v)", ErrTransient, resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransient, err)
	}
	return body, nil
}

// LooksLikeHTML reports whether a body that should have been structured data
// is actually a markup page, the usual symptom of a sign-in redirect or
// interstitial.
func LooksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
