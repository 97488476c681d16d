package library

// UnknownProgress is the sentinel for an achievement pair that has not been
// determined yet. Unlocked and total are always jointly unknown or jointly
// known.
const UnknownProgress = -1

// Category classifies an owned app.
type Category string

const (
	CategoryNormal  Category = "normal"
	CategoryDemo    Category = "demo"
	CategoryMod     Category = "mod"
	CategoryJunk    Category = "junk"
	CategoryUnknown Category = "unknown"
)

// ParseCategory maps a stored category string to a Category, defaulting to
// unknown for unrecognized values.
func ParseCategory(value string) Category {
	switch Category(value) {
	case CategoryNormal, CategoryDemo, CategoryMod, CategoryJunk:
		return Category(value)
	default:
		return CategoryUnknown
	}
}

// GameRecord is the canonical in-memory representation of one owned app.
// It is created on confirmed ownership or cache hydration, mutated one app
// at a time by progress callbacks, and destroyed only by a full reload.
type GameRecord struct {
	AppID               uint32
	Name                string
	Category            Category
	AchievementUnlocked int
	AchievementTotal    int
	UnlockBlocked       bool
	ImageRef            string
}

// NewGameRecord returns a record with unknown progress.
func NewGameRecord(appID uint32, name string) GameRecord {
	return GameRecord{
		AppID:               appID,
		Name:                name,
		Category:            CategoryUnknown,
		AchievementUnlocked: UnknownProgress,
		AchievementTotal:    UnknownProgress,
	}
}

// HasProgress reports whether the achievement pair is known.
func (r GameRecord) HasProgress() bool {
	return r.AchievementUnlocked >= 0 && r.AchievementTotal >= 0
}

// HasIncomplete reports whether the record has known, unfinished
// achievements.
func (r GameRecord) HasIncomplete() bool {
	return r.HasProgress() && r.AchievementTotal > 0 && r.AchievementUnlocked < r.AchievementTotal
}

// SetProgress applies a normalized achievement pair to the record.
func (r *GameRecord) SetProgress(unlocked, total int) {
	r.AchievementUnlocked, r.AchievementTotal = NormalizeProgress(unlocked, total)
}

// NormalizeProgress coerces an arbitrary pair into the valid domain: either
// both UnknownProgress, or 0 <= unlocked <= total.
func NormalizeProgress(unlocked, total int) (int, int) {
	if unlocked < 0 || total < 0 {
		return UnknownProgress, UnknownProgress
	}
	if unlocked > total {
		unlocked = total
	}
	return unlocked, total
}
