package webapi

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

// Client talks to the key-authenticated web API. It serves both ends of the
// pipeline: bulk ownership and one-app-at-a-time achievement progress.
type Client struct {
	baseURL string
	key     string
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

// New creates a web API client. The key is required; callers without one
// should not place this adapter in the chain at all.
func New(baseURL, key, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("web api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("web api base url required")
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		getter:  sources.NewGetter(timeout, userAgent),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the adapter in logs and fallback decisions.
func (c *Client) Name() string { return "webapi" }

type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID                    uint32 `json:"appid"`
			Name                     string `json:"name"`
			HasCommunityVisibleStats bool   `json:"has_community_visible_stats"`
		} `json:"games"`
	} `json:"response"`
}

// FetchOwned retrieves the owned-game list. The exact query shape is a wire
// contract and must not drift.
func (c *Client) FetchOwned(ctx context.Context, accountID uint64) ([]library.Candidate, error) {
	endpoint, err := url.Parse(c.baseURL + "/IPlayerService/GetOwnedGames/v1/")
	if err != nil {
		return nil, sources.Wrap(sources.ErrTransient, c.Name(), "parse url", err)
	}
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("steamid", strconv.FormatUint(accountID, 10))
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	body, err := c.getter.Get(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, sources.Wrap(sources.ErrTransient, c.Name(), "owned games", err)
	}
	if sources.LooksLikeHTML(body) {
		return nil, sources.Wrap(sources.ErrSignInWall, c.Name(), "owned games", nil)
	}

	var payload ownedGamesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, sources.Wrap(sources.ErrMalformed, c.Name(), "decode owned games", err)
	}
	if payload.Response.GameCount == 0 && len(payload.Response.Games) == 0 {
		// An empty response object is what a private profile looks like on
		// this endpoint.
		return nil, sources.Wrap(sources.ErrPrivateProfile, c.Name(), "owned games", nil)
	}

	candidates := make([]library.Candidate, 0, len(payload.Response.Games))
	for _, game := range payload.Response.Games {
		if game.AppID == 0 {
			continue
		}
		cand := library.NewCandidate(game.AppID, game.Name)
		cand.HasStatsLink = game.HasCommunityVisibleStats
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		Success      bool   `json:"success"`
		Error        string `json:"error"`
		Achievements []struct {
			Achieved int `json:"achieved"`
		} `json:"achievements"`
	} `json:"playerstats"`
}

// FetchProgress retrieves one app's achievement progress. "No stats" replies
// normalize to 0/0; privacy refusals surface as errors.
func (c *Client) FetchProgress(ctx context.Context, accountID uint64, appID uint32) (int, int, error) {
	endpoint, err := url.Parse(c.baseURL + "/ISteamUserStats/GetPlayerAchievements/v1/")
	if err != nil {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrTransient, c.Name(), "parse url", err)
	}
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("steamid", strconv.FormatUint(accountID, 10))
	params.Set("appid", strconv.FormatUint(uint64(appID), 10))
	endpoint.RawQuery = params.Encode()

	body, err := c.getter.Get(ctx, endpoint.String(), nil)
	if err != nil {
		// The endpoint answers 400 for apps without a stats schema; that is
		// absence, not failure.
		if noStatsStatus(err) {
			return 0, 0, nil
		}
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrTransient, c.Name(), fmt.Sprintf("achievements app %d", appID), err)
	}
	if sources.LooksLikeHTML(body) {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrSignInWall, c.Name(), fmt.Sprintf("achievements app %d", appID), nil)
	}

	var payload playerAchievementsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrMalformed, c.Name(), fmt.Sprintf("decode achievements app %d", appID), err)
	}

	stats := payload.PlayerStats
	if !stats.Success {
		if isNoStatsMessage(stats.Error) {
			return 0, 0, nil
		}
		if isPrivateMessage(stats.Error) {
			return library.UnknownProgress, library.UnknownProgress,
				sources.Wrap(sources.ErrPrivateProfile, c.Name(), fmt.Sprintf("achievements app %d", appID), nil)
		}
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrTransient, c.Name(),
				fmt.Sprintf("achievements app %d: %s", appID, stats.Error), nil)
	}

	unlocked := 0
	for _, ach := range stats.Achievements {
		if ach.Achieved != 0 {
			unlocked++
		}
	}
	return unlocked, len(stats.Achievements), nil
}

func noStatsStatus(err error) bool {
	// Getter folds the status code into the error text. Only 400 means a
	// schema-less app; 403 is privacy and must stay a failure.
	msg := err.Error()
	return strings.Contains(msg, "returned 400")
}

func isNoStatsMessage(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "no stats") || strings.Contains(lowered, "no achievements")
}

func isPrivateMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "profile is not public")
}
