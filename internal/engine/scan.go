package engine

import (
	"context"
	"time"

	"medallion/internal/history"
	"medallion/internal/library"
	"medallion/internal/logging"
	"medallion/internal/scanner"
)

// Scan walks the library and refreshes achievement pairs through the
// progress fallback chain, fanning out up to the configured ceiling. Auto
// mode touches only apps with unknown progress; full-rescan touches
// everything. A scan arriving while another activity runs latches for a
// follow-up pass and returns nil.
func (e *Engine) Scan(ctx context.Context, mode scanner.Mode) error {
	started, err := e.coord.BeginScan(string(mode))
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	err = e.runScan(ctx, mode)
	e.finishAndDrain(ctx)
	return err
}

// runScan does the work; the caller owns the coordinator claim.
func (e *Engine) runScan(ctx context.Context, mode scanner.Mode) error {
	e.mu.Lock()
	appIDs := scanner.Select(mode, e.games)
	e.mu.Unlock()

	e.cache.SetScanMode(string(mode))
	e.logEvent("scan started: mode=%s apps=%d", mode, len(appIDs))
	e.logger.Info("scan started",
		logging.String(logging.FieldEventType, "scan_started"),
		logging.String("mode", string(mode)),
		logging.Int("apps", len(appIDs)))

	startedAt := time.Now().UTC()
	failures := 0
	scanned := 0

	for progress := range e.scan.Run(ctx, appIDs, e.fetchProgress) {
		scanned++
		if progress.Err != nil {
			failures++
			e.logApp(progress.AppID, "progress fetch failed: %v", progress.Err)
		} else {
			e.logApp(progress.AppID, "achievements %d/%d", progress.Unlocked, progress.Total)
		}

		e.applyProgress(progress.AppID, progress.Unlocked, progress.Total)
		if _, err := e.cache.MaybeFlush(); err != nil {
			e.logger.Warn("status cache flush failed", logging.Error(err))
		}
	}

	if err := e.cache.Flush(); err != nil {
		e.logger.Warn("final status cache flush failed", logging.Error(err))
	}

	outcome := history.OutcomeCompleted
	if ctx.Err() != nil {
		outcome = history.OutcomeCancelled
	}
	e.recordRun(mode, startedAt, scanned, failures, outcome)

	e.logEvent("scan finished: mode=%s scanned=%d failures=%d", mode, scanned, failures)
	e.logger.Info("scan finished",
		logging.String(logging.FieldEventType, "scan_finished"),
		logging.Int("scanned", scanned),
		logging.Int("failures", failures))
	return ctx.Err()
}

// fetchProgress walks the progress fallback chain for one app. Absence of
// achievements is a successful zero pair, not an error, so a source
// reporting it ends the chain.
func (e *Engine) fetchProgress(ctx context.Context, appID uint32) (int, int, error) {
	var lastErr error
	for _, src := range e.progress {
		unlocked, total, err := src.FetchProgress(ctx, e.accountID, appID)
		if err != nil {
			lastErr = err
			e.logger.Debug("progress source failed",
				logging.String("source", src.Name()),
				logging.AppID(appID),
				logging.Error(err))
			continue
		}
		return unlocked, total, nil
	}
	if lastErr == nil {
		lastErr = ErrExhausted
	}
	return library.UnknownProgress, library.UnknownProgress, lastErr
}

// applyProgress folds one result into the record and the status cache. The
// scan loop is the single mutator; workers never touch shared state.
func (e *Engine) applyProgress(appID uint32, unlocked, total int) {
	e.mu.Lock()
	rec, ok := e.games[appID]
	if !ok {
		e.mu.Unlock()
		return
	}
	unlocked, total = library.NormalizeProgress(unlocked, total)
	if unlocked >= 0 {
		rec.SetProgress(unlocked, total)
		e.games[appID] = rec
	}
	e.mu.Unlock()

	if unlocked >= 0 {
		e.cache.UpdateProgress(appID, unlocked, total)
	}
}

func (e *Engine) recordRun(mode scanner.Mode, startedAt time.Time, scanned, failures int, outcome string) {
	if e.hist == nil {
		return
	}
	_, err := e.hist.Record(context.Background(), history.Run{
		SteamID:     e.accountID,
		Mode:        string(mode),
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
		AppsScanned: scanned,
		Failures:    failures,
		Outcome:     outcome,
	})
	if err != nil {
		e.logger.Warn("scan run not recorded", logging.Error(err))
	}
}
