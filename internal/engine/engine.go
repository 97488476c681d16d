package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"medallion/internal/config"
	"medallion/internal/coordinator"
	"medallion/internal/history"
	"medallion/internal/library"
	"medallion/internal/logging"
	"medallion/internal/scanlog"
	"medallion/internal/scanner"
	"medallion/internal/sources"
	"medallion/internal/sources/catalog"
	"medallion/internal/sources/community"
	"medallion/internal/sources/webapi"
	"medallion/internal/statuscache"
	"medallion/internal/unlocker"
)

// ErrExhausted reports that every configured ownership source failed. The
// caller decides whether to fall back to the static catalog; the engine
// never does so silently.
var ErrExhausted = errors.New("all ownership sources exhausted")

// ErrNoUnlocker reports an unlock request with no companion binary
// configured.
var ErrNoUnlocker = errors.New("no unlocker binary configured")

// ErrUnlockBlocked reports a per-app unlock request against a record the
// user has protected.
var ErrUnlockBlocked = errors.New("app is blocked from unlocking")

// ErrUnknownApp reports an operation on an app id the library does not
// hold.
var ErrUnknownApp = errors.New("app not in library")

// Metadata resolves app display names when an ownership source omits them.
type Metadata interface {
	FetchAppNames(ctx context.Context) (map[uint32]string, error)
}

// UnlockClient is the surface of the companion process the engine uses.
type UnlockClient interface {
	sources.ProgressSource
	UnlockAll(ctx context.Context, appID uint32) (unlocker.UnlockResult, error)
}

// HistoryRecorder journals finished scan runs.
type HistoryRecorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Options carries the engine's collaborators. Zero-value fields disable the
// corresponding capability rather than failing.
type Options struct {
	AccountID uint64

	Ownership []sources.OwnershipSource
	Progress  []sources.ProgressSource
	Metadata  Metadata
	Unlocker  UnlockClient

	Cache   *statuscache.Cache
	ScanLog *scanlog.Logger
	History HistoryRecorder

	Concurrency int
	Logger      *slog.Logger
}

// Engine owns the in-memory game library and coordinates acquisition,
// scanning, and unlocking against it. All library mutation happens on the
// goroutine driving the public methods; workers only produce immutable
// results.
type Engine struct {
	accountID   uint64
	ownership   []sources.OwnershipSource
	progress    []sources.ProgressSource
	metadata    Metadata
	unlock      UnlockClient
	cache       *statuscache.Cache
	scanLog     *scanlog.Logger
	hist        HistoryRecorder
	scan        *scanner.Scanner
	coord       *coordinator.Coordinator
	logger      *slog.Logger
	concurrency int

	mu    sync.Mutex
	games map[uint32]library.GameRecord
}

// New assembles an engine from explicit collaborators.
func New(opts Options) *Engine {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	cache := opts.Cache
	if cache == nil {
		cache = statuscache.New("", "", opts.AccountID, 0, opts.Logger)
	}
	return &Engine{
		accountID:   opts.AccountID,
		ownership:   opts.Ownership,
		progress:    opts.Progress,
		metadata:    opts.Metadata,
		unlock:      opts.Unlocker,
		cache:       cache,
		scanLog:     opts.ScanLog,
		hist:        opts.History,
		scan:        scanner.New(concurrency, opts.Logger),
		coord:       coordinator.New(opts.Logger),
		logger:      logging.NewComponentLogger(opts.Logger, "engine"),
		concurrency: concurrency,
		games:       make(map[uint32]library.GameRecord),
	}
}

// NewFromConfig wires the real source adapters, cache, scan log, and
// history store described by cfg. Missing credentials simply shorten the
// fallback chains.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	timeout := time.Duration(cfg.Sources.RequestTimeout) * time.Second
	creds := sources.Credentials{
		APIKey:      cfg.Credentials.APIKey,
		SessionID:   cfg.Credentials.SessionID,
		LoginSecure: cfg.Credentials.LoginSecure,
	}

	communityClient, err := community.New(cfg.Sources.CommunityBaseURL, cfg.Sources.UserAgent, timeout, creds)
	if err != nil {
		return nil, err
	}
	catalogClient, err := catalog.New(cfg.Sources.WebAPIBaseURL, cfg.Sources.StoreBaseURL, cfg.Sources.UserAgent, timeout)
	if err != nil {
		return nil, err
	}

	var ownership []sources.OwnershipSource
	var progress []sources.ProgressSource
	if cfg.HasWebAPIKey() {
		apiClient, err := webapi.New(cfg.Sources.WebAPIBaseURL, cfg.Credentials.APIKey, cfg.Sources.UserAgent, timeout)
		if err != nil {
			return nil, err
		}
		ownership = append(ownership, apiClient)
		progress = append(progress, apiClient)
	}
	ownership = append(ownership,
		community.NewXMLGames(communityClient),
		community.NewHTMLGames(communityClient),
	)
	progress = append(progress, community.NewXMLAchievements(communityClient))

	opts := Options{
		AccountID:   cfg.Account.SteamID,
		Ownership:   ownership,
		Progress:    progress,
		Metadata:    catalogClient,
		Concurrency: cfg.Scanner.Concurrency,
		Logger:      logger,
		Cache: statuscache.New(
			cfg.StatusCache.Path,
			cfg.StatusCache.LockFile,
			cfg.Account.SteamID,
			time.Duration(cfg.StatusCache.DebounceMS)*time.Millisecond,
			logger,
		),
	}

	if cfg.HasUnlocker() {
		client, err := unlocker.New(cfg.Unlocker.Binary, cfg.Unlocker.ProgressTimeout, cfg.Unlocker.UnlockTimeout)
		if err != nil {
			return nil, err
		}
		opts.Unlocker = client
		opts.Progress = append(opts.Progress, client)
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		opts.History = store
	}

	engine := New(opts)
	if err := engine.cache.Load(); err != nil {
		engine.logger.Warn("status cache unreadable; starting empty", logging.Error(err))
	}
	engine.hydrateFromCache()
	return engine, nil
}

// SetScanLog attaches an open scan log. Safe to leave unset.
func (e *Engine) SetScanLog(l *scanlog.Logger) { e.scanLog = l }

// State reports the coordinator's current activity.
func (e *Engine) State() coordinator.State { return e.coord.State() }

// Cache exposes the status cache for inspection commands.
func (e *Engine) Cache() *statuscache.Cache { return e.cache }

// Games returns a snapshot of the library sorted by app id.
func (e *Engine) Games() []library.GameRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]library.GameRecord, 0, len(e.games))
	for _, rec := range e.games {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].AppID < records[j].AppID })
	return records
}

// Game returns one record by app id.
func (e *Engine) Game(appID uint32) (library.GameRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.games[appID]
	return rec, ok
}

// Len reports the number of known games.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.games)
}

// OnActivate picks up status database changes written by the companion
// process while this one was in the background. Session-held progress wins
// over older disk rows unless force is set.
func (e *Engine) OnActivate(force bool) error {
	changed, err := e.cache.ReloadIfChanged(force)
	if err != nil {
		return err
	}
	if changed {
		e.hydrateFromCache()
	}
	return nil
}

// hydrateFromCache seeds library records from persisted entries. Cached
// progress is adopted only where the in-memory record has none.
func (e *Engine) hydrateFromCache() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range e.cache.Entries() {
		rec, ok := e.games[entry.AppID]
		if !ok {
			e.games[entry.AppID] = entry.ToRecord()
			continue
		}
		if !rec.HasProgress() && entry.HasProgress {
			rec.SetProgress(entry.Unlocked, entry.Total)
		}
		if rec.Name == "" {
			rec.Name = entry.Name
		}
		e.games[entry.AppID] = rec
	}
}

func (e *Engine) setGame(rec library.GameRecord) {
	e.mu.Lock()
	e.games[rec.AppID] = rec
	e.mu.Unlock()
}

func (e *Engine) logApp(appID uint32, format string, args ...any) {
	if e.scanLog != nil {
		e.scanLog.AppEvent(appID, format, args...)
	}
}

func (e *Engine) logEvent(format string, args ...any) {
	if e.scanLog != nil {
		e.scanLog.Event(format, args...)
	}
}
