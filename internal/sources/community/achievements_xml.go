package community

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"medallion/internal/library"
	"medallion/internal/sources"
)

// XMLAchievements is the community per-app achievement adapter, used when no
// web API key is configured. One app per call; never bulk.
type XMLAchievements struct {
	client *Client
}

// NewXMLAchievements wraps a community client as a progress source.
func NewXMLAchievements(client *Client) *XMLAchievements {
	return &XMLAchievements{client: client}
}

// Name identifies the adapter in logs and fallback decisions.
func (x *XMLAchievements) Name() string { return "community-xml" }

type playerStatsXML struct {
	XMLName      xml.Name `xml:"playerstats"`
	Error        string   `xml:"error"`
	PrivacyState string   `xml:"privacyState"`
	Achievements []struct {
		Closed int `xml:"closed,attr"`
	} `xml:"achievements>achievement"`
}

// FetchProgress retrieves one app's achievement progress from the community
// stats endpoint.
func (x *XMLAchievements) FetchProgress(ctx context.Context, accountID uint64, appID uint32) (int, int, error) {
	endpoint := x.client.profileURL(accountID, fmt.Sprintf("/stats/%d/achievements?xml=1", appID))
	body, err := x.client.getter.Get(ctx, endpoint, x.client.cookies())
	if err != nil {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrTransient, x.Name(), fmt.Sprintf("stats app %d", appID), err)
	}
	if sources.LooksLikeHTML(body) {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrSignInWall, x.Name(), fmt.Sprintf("stats app %d", appID), nil)
	}

	var stats playerStatsXML
	if err := xml.Unmarshal(body, &stats); err != nil {
		var failure responseErrorXML
		if xml.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return classifyStatsError(x.Name(), appID, failure.Error)
		}
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrMalformed, x.Name(), fmt.Sprintf("decode stats app %d", appID), err)
	}
	if stats.Error != "" {
		return classifyStatsError(x.Name(), appID, stats.Error)
	}
	if strings.EqualFold(stats.PrivacyState, "private") {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrPrivateProfile, x.Name(), fmt.Sprintf("stats app %d", appID), nil)
	}

	unlocked := 0
	for _, ach := range stats.Achievements {
		if ach.Closed != 0 {
			unlocked++
		}
	}
	return unlocked, len(stats.Achievements), nil
}

func classifyStatsError(source string, appID uint32, message string) (int, int, error) {
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "no stats") || strings.Contains(lowered, "no achievements") {
		return 0, 0, nil
	}
	if strings.Contains(lowered, "private") {
		return library.UnknownProgress, library.UnknownProgress,
			sources.Wrap(sources.ErrPrivateProfile, source, fmt.Sprintf("stats app %d: %s", appID, message), nil)
	}
	return library.UnknownProgress, library.UnknownProgress,
		sources.Wrap(sources.ErrTransient, source, fmt.Sprintf("stats app %d: %s", appID, message), nil)
}
