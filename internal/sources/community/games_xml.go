package community

import (
	"context"
	"encoding/xml"
	"strings"

	"medallion/internal/library"
	"medallion/internal/sources"
)

// XMLGames is the structured-XML ownership adapter, second in the fallback
// chain.
type XMLGames struct {
	client *Client
}

// NewXMLGames wraps a community client as an ownership source.
func NewXMLGames(client *Client) *XMLGames {
	return &XMLGames{client: client}
}

// Name identifies the adapter in logs and fallback decisions.
func (x *XMLGames) Name() string { return "community-xml" }

type gamesListXML struct {
	XMLName xml.Name `xml:"gamesList"`
	Error   string   `xml:"error"`
	Games   []struct {
		AppID     uint32 `xml:"appID"`
		Name      string `xml:"name"`
		StatsLink string `xml:"statsLink"`
	} `xml:"games>game"`
}

type responseErrorXML struct {
	XMLName xml.Name `xml:"response"`
	Error   string   `xml:"error"`
}

// FetchOwned retrieves the profile's game list from the XML endpoint.
func (x *XMLGames) FetchOwned(ctx context.Context, accountID uint64) ([]library.Candidate, error) {
	endpoint := x.client.profileURL(accountID, "/games?tab=all&xml=1")
	body, err := x.client.getter.Get(ctx, endpoint, x.client.cookies())
	if err != nil {
		return nil, sources.Wrap(sources.ErrTransient, x.Name(), "games xml", err)
	}
	if sources.LooksLikeHTML(body) {
		return nil, sources.Wrap(sources.ErrSignInWall, x.Name(), "games xml", nil)
	}

	var list gamesListXML
	if err := xml.Unmarshal(body, &list); err != nil {
		// A <response><error> document is a different root element, not a
		// malformed page.
		var failure responseErrorXML
		if xml.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return nil, classifyXMLError(x.Name(), failure.Error)
		}
		return nil, sources.Wrap(sources.ErrMalformed, x.Name(), "decode games xml", err)
	}
	if list.Error != "" {
		return nil, classifyXMLError(x.Name(), list.Error)
	}

	candidates := make([]library.Candidate, 0, len(list.Games))
	for _, game := range list.Games {
		if game.AppID == 0 {
			continue
		}
		cand := library.NewCandidate(game.AppID, strings.TrimSpace(game.Name))
		cand.HasStatsLink = strings.TrimSpace(game.StatsLink) != ""
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

func classifyXMLError(source, message string) error {
	if strings.Contains(strings.ToLower(message), "private") {
		return sources.Wrap(sources.ErrPrivateProfile, source, message, nil)
	}
	return sources.Wrap(sources.ErrTransient, source, message, nil)
}
