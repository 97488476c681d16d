package library

// Candidate is the ephemeral output of one ownership source for one app.
// Cheaper sources often under-report: the community game list knows whether a
// stats page exists but not the counts, while the web API reports full
// counts. The merge rules below encode that asymmetry.
type Candidate struct {
	AppID               uint32
	Name                string
	HasStatsLink        bool
	AchievementUnlocked int
	AchievementTotal    int
}

// NewCandidate returns a candidate with unknown progress.
func NewCandidate(appID uint32, name string) Candidate {
	return Candidate{
		AppID:               appID,
		Name:                name,
		AchievementUnlocked: UnknownProgress,
		AchievementTotal:    UnknownProgress,
	}
}

// HasProgress reports whether the candidate carries a known achievement pair.
func (c Candidate) HasProgress() bool {
	return c.AchievementUnlocked >= 0 && c.AchievementTotal >= 0
}

// Merge folds src candidates into dest keyed by app id. Unknown apps are
// inserted as copies. For known apps: an empty destination name is filled
// from the source, the stats link flag is ORed, and achievement counts are
// adopted only when they improve on what is already held, so a richer
// source's counts are never regressed by a poorer one.
func Merge(dest map[uint32]Candidate, src []Candidate) {
	for _, cand := range src {
		if cand.AppID == 0 {
			continue
		}
		existing, ok := dest[cand.AppID]
		if !ok {
			dest[cand.AppID] = cand
			continue
		}

		if existing.Name == "" && cand.Name != "" {
			existing.Name = cand.Name
		}
		existing.HasStatsLink = existing.HasStatsLink || cand.HasStatsLink

		if cand.HasProgress() && improvesProgress(existing, cand) {
			existing.AchievementUnlocked = cand.AchievementUnlocked
			existing.AchievementTotal = cand.AchievementTotal
		}

		dest[cand.AppID] = existing
	}
}

func improvesProgress(dest, src Candidate) bool {
	if !dest.HasProgress() {
		return true
	}
	if src.AchievementTotal > dest.AchievementTotal {
		return true
	}
	return src.AchievementTotal == dest.AchievementTotal && src.AchievementUnlocked > dest.AchievementUnlocked
}
