package statuscache

import (
	"time"

	"medallion/internal/library"
)

// Entry is the persisted per-app status record. The JSON field names are a
// wire contract shared with the companion process; they must not drift.
type Entry struct {
	AppID         uint32 `json:"app_id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Unlocked      int    `json:"achievement_unlocked"`
	Total         int    `json:"achievement_total"`
	HasProgress   bool   `json:"has_progress"`
	HasIncomplete bool   `json:"has_incomplete_achievements"`
	UnlockBlocked bool   `json:"achievement_unlock_blocked"`
}

// Database is the on-disk status file. Entries accumulate across sessions
// and are never pruned, only superseded.
type Database struct {
	GeneratedUTC time.Time `json:"generated_utc"`
	SteamID      uint64    `json:"steam_id"`
	ScanMode     string    `json:"scan_mode"`
	Games        []Entry   `json:"games"`
}

// normalize coerces the achievement pair into the valid domain and
// recomputes the derived flags, which are stored for the companion process
// but never trusted on read.
func (e *Entry) normalize() {
	e.Unlocked, e.Total = library.NormalizeProgress(e.Unlocked, e.Total)
	e.HasProgress = e.Unlocked >= 0 && e.Total >= 0
	e.HasIncomplete = e.HasProgress && e.Total > 0 && e.Unlocked < e.Total
	if e.Type == "" {
		e.Type = string(library.CategoryUnknown)
	}
}

// FromRecord converts an in-memory game record into a cache entry.
func FromRecord(rec library.GameRecord) Entry {
	entry := Entry{
		AppID:         rec.AppID,
		Name:          rec.Name,
		Type:          string(rec.Category),
		Unlocked:      rec.AchievementUnlocked,
		Total:         rec.AchievementTotal,
		UnlockBlocked: rec.UnlockBlocked,
	}
	entry.normalize()
	return entry
}

// ToRecord converts a cache entry back into an in-memory game record.
func (e Entry) ToRecord() library.GameRecord {
	rec := library.GameRecord{
		AppID:         e.AppID,
		Name:          e.Name,
		Category:      library.ParseCategory(e.Type),
		UnlockBlocked: e.UnlockBlocked,
	}
	rec.SetProgress(e.Unlocked, e.Total)
	return rec
}
