// Package webapi implements the key-authenticated web API adapters: bulk
// ownership via GetOwnedGames and per-app achievement progress via
// GetPlayerAchievements. First in the ownership fallback chain when a key
// is configured.
package webapi
