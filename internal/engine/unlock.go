package engine

import (
	"context"

	"medallion/internal/logging"
	"medallion/internal/statuscache"
	"medallion/internal/unlocker"
)

// UnlockSummary aggregates an unlock-all pass over the library.
type UnlockSummary struct {
	Attempted        int
	Changed          int
	SkippedProtected int
	SkippedBlocked   int
	Failures         int
}

// UnlockAll walks the library in app-id order and asks the companion
// process to unlock every achievement, one app at a time. Records flagged
// unlock-blocked are skipped without contacting the companion. Unlocking
// never latches; a busy engine rejects the request.
func (e *Engine) UnlockAll(ctx context.Context) (UnlockSummary, error) {
	if e.unlock == nil {
		return UnlockSummary{}, ErrNoUnlocker
	}
	if err := e.coord.BeginUnlock(); err != nil {
		return UnlockSummary{}, err
	}
	defer e.finishAndDrain(ctx)

	var summary UnlockSummary
	for _, rec := range e.Games() {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if rec.UnlockBlocked {
			summary.SkippedBlocked++
			e.logApp(rec.AppID, "unlock skipped: blocked")
			continue
		}
		if rec.HasProgress() && rec.AchievementTotal == 0 {
			continue
		}

		summary.Attempted++
		result, err := e.unlock.UnlockAll(ctx, rec.AppID)
		if err != nil {
			summary.Failures++
			e.logApp(rec.AppID, "unlock failed: %v", err)
			e.logger.Warn("unlock failed",
				logging.AppID(rec.AppID),
				logging.Error(err))
			continue
		}

		summary.Changed += result.Changed
		summary.SkippedProtected += result.SkippedProtected
		e.logApp(rec.AppID, "unlocked %d (skipped %d protected), now %d/%d",
			result.Changed, result.SkippedProtected, result.Unlocked, result.Total)

		e.applyProgress(rec.AppID, result.Unlocked, result.Total)
		if _, err := e.cache.MaybeFlush(); err != nil {
			e.logger.Warn("status cache flush failed", logging.Error(err))
		}
	}

	if err := e.cache.Flush(); err != nil {
		e.logger.Warn("final status cache flush failed", logging.Error(err))
	}
	e.logEvent("unlock-all finished: attempted=%d changed=%d failures=%d",
		summary.Attempted, summary.Changed, summary.Failures)
	return summary, nil
}

// UnlockApp unlocks a single app's achievements through the companion
// process, honoring the blocked flag.
func (e *Engine) UnlockApp(ctx context.Context, appID uint32) (unlocker.UnlockResult, error) {
	if e.unlock == nil {
		return unlocker.UnlockResult{}, ErrNoUnlocker
	}
	rec, ok := e.Game(appID)
	if !ok {
		return unlocker.UnlockResult{}, ErrUnknownApp
	}
	if rec.UnlockBlocked {
		return unlocker.UnlockResult{}, ErrUnlockBlocked
	}
	if err := e.coord.BeginUnlock(); err != nil {
		return unlocker.UnlockResult{}, err
	}
	defer e.finishAndDrain(ctx)

	result, err := e.unlock.UnlockAll(ctx, appID)
	if err != nil {
		return unlocker.UnlockResult{}, err
	}
	e.applyProgress(appID, result.Unlocked, result.Total)
	if err := e.cache.Flush(); err != nil {
		e.logger.Warn("status cache flush failed", logging.Error(err))
	}
	return result, nil
}

// SetUnlockBlocked marks or clears an app's protection from unlock passes
// and persists the flag.
func (e *Engine) SetUnlockBlocked(appID uint32, blocked bool) error {
	e.mu.Lock()
	rec, ok := e.games[appID]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownApp
	}
	rec.UnlockBlocked = blocked
	e.games[appID] = rec
	e.mu.Unlock()

	entry, found := e.cache.Get(appID)
	if !found {
		entry = statuscache.FromRecord(rec)
	}
	entry.UnlockBlocked = blocked
	e.cache.Put(entry)
	return e.cache.Flush()
}
