package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"medallion/internal/library"
	"medallion/internal/sources"
)

// Client serves the unauthenticated catalog fallbacks: the full app list for
// name backfill and per-app store metadata.
type Client struct {
	apiBaseURL   string
	storeBaseURL string
	getter       *sources.Getter
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

// New creates a catalog client.
func New(apiBaseURL, storeBaseURL, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	apiBaseURL = strings.TrimSpace(apiBaseURL)
	if apiBaseURL == "" {
		return nil, errors.New("catalog api base url required")
	}
	storeBaseURL = strings.TrimSpace(storeBaseURL)
	if storeBaseURL == "" {
		return nil, errors.New("catalog store base url required")
	}
	client := &Client{
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		storeBaseURL: strings.TrimRight(storeBaseURL, "/"),
		getter:       sources.NewGetter(timeout, userAgent),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the adapter in logs.
func (c *Client) Name() string { return "catalog" }

type appListResponse struct {
	AppList struct {
		Apps []struct {
			AppID uint32 `json:"appid"`
			Name  string `json:"name"`
		} `json:"apps"`
	} `json:"applist"`
}

// FetchAppNames downloads the full public app list and returns an id-to-name
// index. The payload is large; callers should fetch once per refresh at
// most.
func (c *Client) FetchAppNames(ctx context.Context) (map[uint32]string, error) {
	endpoint := c.apiBaseURL + "/ISteamApps/GetAppList/v2/"
	body, err := c.getter.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, sources.Wrap(sources.ErrTransient, c.Name(), "app list", err)
	}
	if sources.LooksLikeHTML(body) {
		return nil, sources.Wrap(sources.ErrSignInWall, c.Name(), "app list", nil)
	}

	var payload appListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, sources.Wrap(sources.ErrMalformed, c.Name(), "decode app list", err)
	}

	names := make(map[uint32]string, len(payload.AppList.Apps))
	for _, app := range payload.AppList.Apps {
		if app.AppID == 0 || app.Name == "" {
			continue
		}
		names[app.AppID] = app.Name
	}
	return names, nil
}

// AppDetails is the subset of store metadata the engine consumes.
type AppDetails struct {
	Name     string
	Type     string
	ImageRef string
}

type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		HeaderImage string `json:"header_image"`
	} `json:"data"`
}

// FetchAppDetails retrieves store metadata for one app.
func (c *Client) FetchAppDetails(ctx context.Context, appID uint32) (AppDetails, error) {
	endpoint, err := url.Parse(c.storeBaseURL + "/api/appdetails")
	if err != nil {
		return AppDetails{}, sources.Wrap(sources.ErrTransient, c.Name(), "parse url", err)
	}
	params := url.Values{}
	params.Set("appids", strconv.FormatUint(uint64(appID), 10))
	endpoint.RawQuery = params.Encode()

	body, err := c.getter.Get(ctx, endpoint.String(), nil)
	if err != nil {
		return AppDetails{}, sources.Wrap(sources.ErrTransient, c.Name(), fmt.Sprintf("app details %d", appID), err)
	}
	if sources.LooksLikeHTML(body) {
		return AppDetails{}, sources.Wrap(sources.ErrSignInWall, c.Name(), fmt.Sprintf("app details %d", appID), nil)
	}

	var payload map[string]appDetailsEntry
	if err := json.Unmarshal(body, &payload); err != nil {
		return AppDetails{}, sources.Wrap(sources.ErrMalformed, c.Name(), fmt.Sprintf("decode app details %d", appID), err)
	}

	entry, ok := payload[strconv.FormatUint(uint64(appID), 10)]
	if !ok || !entry.Success {
		return AppDetails{}, sources.Wrap(sources.ErrMalformed, c.Name(), fmt.Sprintf("app details %d missing", appID), nil)
	}
	return AppDetails{
		Name:     entry.Data.Name,
		Type:     entry.Data.Type,
		ImageRef: entry.Data.HeaderImage,
	}, nil
}

// Category maps the store's type string onto a library category.
func (d AppDetails) Category() library.Category {
	switch d.Type {
	case "game", "dlc":
		return library.CategoryNormal
	case "demo":
		return library.CategoryDemo
	case "mod":
		return library.CategoryMod
	default:
		return library.CategoryUnknown
	}
}

// AppName implements the metadata-string capability on top of the store
// endpoint.
func (c *Client) AppName(ctx context.Context, appID uint32) (string, error) {
	details, err := c.FetchAppDetails(ctx, appID)
	if err != nil {
		return "", err
	}
	return details.Name, nil
}
