package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"medallion/internal/library"
)

//go:embed default_apps.json
var defaultAppsJSON []byte

type staticApp struct {
	AppID    uint32 `json:"app_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	HasStats bool   `json:"has_stats"`
}

// DefaultCandidates returns the bundled static catalog as ownership
// candidates. This is the explicit last-resort list the caller may fall back
// to after the whole ownership chain is exhausted; it is never consulted
// implicitly.
func DefaultCandidates() ([]library.Candidate, error) {
	var apps []staticApp
	if err := json.Unmarshal(defaultAppsJSON, &apps); err != nil {
		return nil, fmt.Errorf("parse bundled catalog: %w", err)
	}
	candidates := make([]library.Candidate, 0, len(apps))
	for _, app := range apps {
		if app.AppID == 0 {
			continue
		}
		cand := library.NewCandidate(app.AppID, app.Name)
		cand.HasStatsLink = app.HasStats
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// DefaultCategories returns the bundled category overrides keyed by app id.
func DefaultCategories() (map[uint32]library.Category, error) {
	var apps []staticApp
	if err := json.Unmarshal(defaultAppsJSON, &apps); err != nil {
		return nil, fmt.Errorf("parse bundled catalog: %w", err)
	}
	categories := make(map[uint32]library.Category, len(apps))
	for _, app := range apps {
		if app.AppID == 0 || app.Type == "" {
			continue
		}
		categories[app.AppID] = library.ParseCategory(app.Type)
	}
	return categories, nil
}
