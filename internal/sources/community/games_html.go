package community

import (
	"context"
	"encoding/json"
	"strings"

	"medallion/internal/library"
	"medallion/internal/sources"
)

// rgGamesMarker anchors the script-injected ownership array in the games
// page. Part of the de facto wire contract with the upstream page layout.
const rgGamesMarker = "var rgGames = "

// HTMLGames scrapes the games page for the embedded script array. Last in
// the fallback chain: tried only after both structured adapters have failed.
type HTMLGames struct {
	client *Client
}

// NewHTMLGames wraps a community client as an ownership source.
func NewHTMLGames(client *Client) *HTMLGames {
	return &HTMLGames{client: client}
}

// Name identifies the adapter in logs and fallback decisions.
func (h *HTMLGames) Name() string { return "community-html" }

type rgGameEntry struct {
	AppID          uint32 `json:"appid"`
	Name           string `json:"name"`
	AvailStatLinks struct {
		Achievements bool `json:"achievements"`
	} `json:"availStatLinks"`
}

// FetchOwned scrapes ownership data out of the games page markup.
func (h *HTMLGames) FetchOwned(ctx context.Context, accountID uint64) ([]library.Candidate, error) {
	endpoint := h.client.profileURL(accountID, "/games/?tab=all")
	body, err := h.client.getter.Get(ctx, endpoint, h.client.cookies())
	if err != nil {
		return nil, sources.Wrap(sources.ErrTransient, h.Name(), "games page", err)
	}

	page := string(body)
	if isSignInPage(page) {
		return nil, sources.Wrap(sources.ErrSignInWall, h.Name(), "games page", nil)
	}

	raw, err := extractScriptArray(page, rgGamesMarker)
	if err != nil {
		return nil, sources.Wrap(sources.ErrMalformed, h.Name(), "page format changed", err)
	}

	var entries []rgGameEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, sources.Wrap(sources.ErrMalformed, h.Name(), "decode script array", err)
	}

	candidates := make([]library.Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.AppID == 0 {
			continue
		}
		cand := library.NewCandidate(entry.AppID, strings.TrimSpace(entry.Name))
		cand.HasStatsLink = entry.AvailStatLinks.Achievements
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// isSignInPage recognizes the login redirect the community site serves for
// private pages when the session cookie is missing or stale.
func isSignInPage(page string) bool {
	lowered := strings.ToLower(page)
	return strings.Contains(lowered, "id=\"loginform\"") ||
		strings.Contains(lowered, "g_steamid = \"0\"") ||
		strings.Contains(lowered, "/login/home")
}
