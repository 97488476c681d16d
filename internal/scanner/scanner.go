package scanner

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"medallion/internal/library"
	"medallion/internal/logging"
)

// Mode selects which apps a refresh touches.
type Mode string

const (
	// ModeAuto scans only apps lacking known progress.
	ModeAuto Mode = "auto"
	// ModeFull rescans every owned app.
	ModeFull Mode = "full-rescan"
)

// ParseMode maps a mode string to a Mode, defaulting to auto.
func ParseMode(value string) Mode {
	if Mode(value) == ModeFull {
		return ModeFull
	}
	return ModeAuto
}

// Progress is one immutable per-app result. Completed is a monotonically
// increasing counter across the batch, safe to use as a progress value
// without extra synchronization even though app results arrive in any
// order.
type Progress struct {
	AppID     uint32
	Unlocked  int
	Total     int
	Completed int
	Err       error
}

// FetchFunc retrieves one app's achievement pair.
type FetchFunc func(ctx context.Context, appID uint32) (unlocked, total int, err error)

// Scanner fans a fetch function out over an app-id set with a bounded
// worker ceiling. Workers produce immutable Progress events on the returned
// channel; the single consumer owns all mutable state.
type Scanner struct {
	concurrency int
	logger      *slog.Logger
}

// New constructs a Scanner. concurrency is clamped to at least 1; the
// companion-process path passes 1 explicitly since it is externally
// serialized anyway.
func New(concurrency int, logger *slog.Logger) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "scanner"),
	}
}

// Concurrency returns the worker ceiling.
func (s *Scanner) Concurrency() int { return s.concurrency }

// Select returns the app ids a scan in the given mode should touch.
func Select(mode Mode, records map[uint32]library.GameRecord) []uint32 {
	ids := make([]uint32, 0, len(records))
	for id, rec := range records {
		if mode == ModeAuto && rec.HasProgress() {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Run starts the fan-out and returns the progress channel, closed when the
// batch drains. Cancellation is cooperative: the context is polled before
// each unit of work is scheduled, so fan-out stops promptly while in-flight
// fetches finish naturally. A failed app degrades to unknown progress and
// never aborts the batch.
func (s *Scanner) Run(ctx context.Context, appIDs []uint32, fetch FetchFunc) <-chan Progress {
	out := make(chan Progress, s.concurrency)

	go func() {
		defer close(out)

		var completed atomic.Int64
		var wg sync.WaitGroup
		slots := make(chan struct{}, s.concurrency)

	schedule:
		for _, appID := range appIDs {
			select {
			case <-ctx.Done():
				s.logger.Info("scan cancelled; draining in-flight fetches",
					logging.Int64("completed", completed.Load()))
				break schedule
			case slots <- struct{}{}:
			}

			wg.Add(1)
			go func(appID uint32) {
				defer wg.Done()
				defer func() { <-slots }()

				unlocked, total, err := fetch(ctx, appID)
				if err != nil {
					unlocked, total = library.UnknownProgress, library.UnknownProgress
					s.logger.Debug("progress fetch failed",
						logging.AppID(appID),
						logging.Error(err))
				}
				out <- Progress{
					AppID:     appID,
					Unlocked:  unlocked,
					Total:     total,
					Completed: int(completed.Add(1)),
					Err:       err,
				}
			}(appID)
		}

		wg.Wait()
	}()

	return out
}
