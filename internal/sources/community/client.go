package community

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"medallion/internal/sources"
)

// Client talks to the community profile endpoints. All of them work without
// authentication for public profiles; session cookies extend them to the
// signed-in profile's own private data.
type Client struct {
	baseURL string
	creds   sources.Credentials
	getter  *sources.Getter
}

// Option configures a Client.
type Option func(*Client)

// WithGetter overrides the default HTTP getter (primarily for tests).
func WithGetter(getter *sources.Getter) Option {
	return func(c *Client) {
		if getter != nil {
			c.getter = getter
		}
	}
}

// New creates a community client. creds may be zero for anonymous access.
func New(baseURL, userAgent string, timeout time.Duration, creds sources.Credentials, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("community base url required")
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds.Clone(),
		getter:  sources.NewGetter(timeout, userAgent),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) cookies() []*http.Cookie {
	if !c.creds.HasCookies() {
		return nil
	}
	return []*http.Cookie{
		{Name: "sessionid", Value: c.creds.SessionID},
		{Name: "steamLoginSecure", Value: c.creds.LoginSecure},
	}
}

func (c *Client) profileURL(accountID uint64, suffix string) string {
	return fmt.Sprintf("%s/profiles/%d%s", c.baseURL, accountID, suffix)
}
