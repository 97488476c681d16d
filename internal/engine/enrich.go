package engine

import (
	"context"

	"medallion/internal/library"
	"medallion/internal/logging"
	"medallion/internal/sources/catalog"
	"medallion/internal/statuscache"
)

// DetailFetcher is the optional per-app store metadata capability. The
// catalog client provides it; fakes may not.
type DetailFetcher interface {
	FetchAppDetails(ctx context.Context, appID uint32) (catalog.AppDetails, error)
}

// Enrich fills store metadata (display name, category, artwork reference)
// into one record and persists the result. Lookup failure leaves the
// record as-is and is returned for the caller to report; better data is
// never replaced by an error.
func (e *Engine) Enrich(ctx context.Context, appID uint32) (library.GameRecord, error) {
	rec, ok := e.Game(appID)
	if !ok {
		return library.GameRecord{}, ErrUnknownApp
	}
	fetcher, ok := e.metadata.(DetailFetcher)
	if !ok {
		return rec, nil
	}

	details, err := fetcher.FetchAppDetails(ctx, appID)
	if err != nil {
		e.logger.Debug("store metadata lookup failed",
			logging.AppID(appID),
			logging.Error(err))
		return rec, err
	}

	if details.Name != "" {
		rec.Name = details.Name
	}
	if rec.Category == library.CategoryUnknown {
		rec.Category = details.Category()
	}
	if details.ImageRef != "" {
		rec.ImageRef = details.ImageRef
	}

	e.setGame(rec)
	e.cache.Put(statuscache.FromRecord(rec))
	if err := e.cache.Flush(); err != nil {
		e.logger.Warn("status cache flush failed", logging.Error(err))
	}
	return rec, nil
}
