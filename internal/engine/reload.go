package engine

import (
	"context"
	"fmt"

	"medallion/internal/library"
	"medallion/internal/logging"
	"medallion/internal/scanner"
	"medallion/internal/sources/catalog"
	"medallion/internal/statuscache"
)

// Reload rebuilds the library through the ownership fallback chain. Sources
// are consulted in configured order and the first success wins; a cheaper
// source is only reached when every richer one has failed. A reload
// arriving while one is already running coalesces into a single follow-up
// pass and returns nil.
func (e *Engine) Reload(ctx context.Context) error {
	started, err := e.coord.BeginReload()
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	err = e.reload(ctx)
	e.finishAndDrain(ctx)
	return err
}

// reload does the work; the caller owns the coordinator claim.
func (e *Engine) reload(ctx context.Context) error {
	candidates := make(map[uint32]library.Candidate)
	var lastErr error
	acquired := ""
	for _, src := range e.ownership {
		list, err := src.FetchOwned(ctx, e.accountID)
		if err != nil {
			lastErr = err
			e.logger.Warn("ownership source failed",
				logging.String("source", src.Name()),
				logging.Error(err))
			e.logEvent("ownership source %s failed: %v", src.Name(), err)
			continue
		}
		library.Merge(candidates, list)
		acquired = src.Name()
		break
	}
	if acquired == "" {
		if lastErr != nil {
			return fmt.Errorf("%w: last error: %w", ErrExhausted, lastErr)
		}
		return ErrExhausted
	}

	e.backfillNames(ctx, candidates)
	e.rebuild(candidates, nil)

	e.logger.Info("library reloaded",
		logging.String(logging.FieldEventType, "reload_finished"),
		logging.String("source", acquired),
		logging.Int("games", e.Len()))
	e.logEvent("library reloaded from %s: %d games", acquired, e.Len())
	return e.persistAll()
}

// LoadStatic rebuilds the library from the embedded app catalog. This is
// the explicit last resort when every live source is unreachable; it is
// never entered automatically.
func (e *Engine) LoadStatic(ctx context.Context) error {
	started, err := e.coord.BeginReload()
	if err != nil {
		return err
	}
	if !started {
		return nil
	}
	defer e.finishAndDrain(ctx)

	list, err := catalog.DefaultCandidates()
	if err != nil {
		return err
	}
	categories, err := catalog.DefaultCategories()
	if err != nil {
		return err
	}

	candidates := make(map[uint32]library.Candidate, len(list))
	library.Merge(candidates, list)
	e.rebuild(candidates, categories)

	e.logEvent("library loaded from static catalog: %d games", e.Len())
	return e.persistAll()
}

// backfillNames fills empty candidate names from the app catalog. Lookup
// failure is tolerated; a missing name is cosmetic.
func (e *Engine) backfillNames(ctx context.Context, candidates map[uint32]library.Candidate) {
	if e.metadata == nil {
		return
	}
	missing := false
	for _, cand := range candidates {
		if cand.Name == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	names, err := e.metadata.FetchAppNames(ctx)
	if err != nil {
		e.logger.Warn("app name backfill failed", logging.Error(err))
		return
	}
	for id, cand := range candidates {
		if cand.Name == "" {
			cand.Name = names[id]
			candidates[id] = cand
		}
	}
}

// rebuild replaces the library with records derived from candidates,
// carrying forward progress and flags already held for surviving apps.
// A candidate with no progress and no stats link is a confirmed zero, not
// an unknown.
func (e *Engine) rebuild(candidates map[uint32]library.Candidate, categories map[uint32]library.Category) {
	e.mu.Lock()
	previous := e.games
	games := make(map[uint32]library.GameRecord, len(candidates))

	for id, cand := range candidates {
		rec := library.NewGameRecord(id, cand.Name)
		if category, ok := categories[id]; ok {
			rec.Category = category
		}
		switch {
		case cand.HasProgress():
			rec.SetProgress(cand.AchievementUnlocked, cand.AchievementTotal)
		case !cand.HasStatsLink:
			rec.SetProgress(0, 0)
		}

		if prior, ok := previous[id]; ok {
			rec.UnlockBlocked = prior.UnlockBlocked
			if prior.Category != library.CategoryUnknown && rec.Category == library.CategoryUnknown {
				rec.Category = prior.Category
			}
			if !rec.HasProgress() && prior.HasProgress() {
				rec.SetProgress(prior.AchievementUnlocked, prior.AchievementTotal)
			}
		}
		games[id] = rec
	}

	e.games = games
	e.mu.Unlock()

	e.hydrateFromCache()
}

// persistAll writes every record into the status cache and forces a flush.
func (e *Engine) persistAll() error {
	for _, rec := range e.Games() {
		e.cache.Put(statuscache.FromRecord(rec))
	}
	return e.cache.Flush()
}

// finishAndDrain releases the caller's coordinator claim and runs any
// latched follow-up work until none remains. A reload latched alongside a
// scan runs first; the scan latch is carried into the next round so it is
// not lost. Finish is only ever called on a claim this loop started: when a
// concurrent caller wins the coordinator between rounds, the loop re-latches
// what it still holds and exits, leaving the new claimer's own drain to
// consume it.
func (e *Engine) finishAndDrain(ctx context.Context) {
	pending := e.coord.Finish()
	for pending.Reload || pending.Scan {
		if pending.Reload {
			pending.Reload = false
			started, err := e.coord.BeginReload()
			if err != nil || !started {
				if pending.Scan {
					_, _ = e.coord.BeginScan(pending.ScanMode)
				}
				return
			}
			if err := e.reload(ctx); err != nil {
				e.logger.Warn("latched reload failed", logging.Error(err))
			}
			next := e.coord.Finish()
			if pending.Scan && !next.Scan {
				next.Scan, next.ScanMode = true, pending.ScanMode
			}
			pending = next
			continue
		}

		started, err := e.coord.BeginScan(pending.ScanMode)
		if err != nil || !started {
			return
		}
		if err := e.runScan(ctx, scanner.ParseMode(pending.ScanMode)); err != nil {
			e.logger.Warn("latched scan failed", logging.Error(err))
		}
		pending = e.coord.Finish()
	}
}
