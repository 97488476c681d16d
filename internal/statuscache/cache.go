package statuscache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"medallion/internal/logging"
)

// Cache is the durable, per-account achievement status store shared with
// the companion process across restarts. Writes are debounced; saves
// overlay the in-memory session onto whatever is on disk so entries for
// apps absent from this session survive.
type Cache struct {
	path      string
	lockPath  string
	accountID uint64
	debounce  time.Duration
	logger    *slog.Logger
	collator  *collate.Collator
	now       func() time.Time

	mu        sync.Mutex
	entries   map[uint32]Entry
	scanMode  string
	dirty     bool
	lastFlush time.Time
	diskMTime time.Time
}

// New creates a cache instance for one account. If path is empty the cache
// is non-functional and every operation is a no-op, mirroring a disabled
// configuration.
func New(path, lockPath string, accountID uint64, debounce time.Duration, logger *slog.Logger) *Cache {
	if debounce <= 0 {
		debounce = 450 * time.Millisecond
	}
	return &Cache{
		path:      path,
		lockPath:  lockPath,
		accountID: accountID,
		debounce:  debounce,
		logger:    logging.NewComponentLogger(logger, "statuscache"),
		collator:  collate.New(language.English, collate.Loose),
		now:       time.Now,
		entries:   make(map[uint32]Entry),
	}
}

// Load reads the persisted database. A stored nonzero account id that
// disagrees with the active account invalidates the whole cache; entries
// are normalized and derived flags recomputed on the way in.
func (c *Cache) Load() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	db, mtime, err := c.readDisk()
	if err != nil {
		return err
	}
	c.diskMTime = mtime

	if db.SteamID != 0 && c.accountID != 0 && db.SteamID != c.accountID {
		c.logger.Warn("discarding status cache for different account",
			logging.Uint64("cached_account", db.SteamID),
			logging.Uint64("active_account", c.accountID))
		c.entries = make(map[uint32]Entry)
		return nil
	}

	c.entries = make(map[uint32]Entry, len(db.Games))
	for _, entry := range db.Games {
		if entry.AppID == 0 {
			continue
		}
		entry.normalize()
		c.entries[entry.AppID] = entry
	}
	c.scanMode = db.ScanMode

	c.logger.Debug("loaded status cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// Get returns the entry for one app if present.
func (c *Cache) Get(appID uint32) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[appID]
	return entry, ok
}

// Entries returns every entry sorted by name then app id.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedLocked()
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Put upserts one entry and marks the cache dirty. The entry is normalized
// on the way in.
func (c *Cache) Put(entry Entry) {
	if entry.AppID == 0 {
		return
	}
	entry.normalize()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.AppID] = entry
	c.dirty = true
}

// UpdateProgress applies one app's achievement pair, preserving the other
// stored fields, and marks the cache dirty.
func (c *Cache) UpdateProgress(appID uint32, unlocked, total int) {
	if appID == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.entries[appID]
	entry.AppID = appID
	entry.Unlocked = unlocked
	entry.Total = total
	entry.normalize()
	c.entries[appID] = entry
	c.dirty = true
}

// SetScanMode records the mode stamped into the next save.
func (c *Cache) SetScanMode(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanMode != mode {
		c.scanMode = mode
		c.dirty = true
	}
}

// MaybeFlush writes the cache if it is dirty and the debounce interval has
// elapsed since the last write. Returns whether a write happened.
func (c *Cache) MaybeFlush() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" || !c.dirty {
		return false, nil
	}
	if c.now().Sub(c.lastFlush) < c.debounce {
		return false, nil
	}
	if err := c.flushLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Flush writes unconditionally. Forced flush points (scan completion,
// shutdown, unlock completion) use this.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		return nil
	}
	return c.flushLocked()
}

// ExternalUpdate reports whether the on-disk database has been written
// since this process last touched it, e.g. by the companion process.
func (c *Cache) ExternalUpdate() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		return false, nil
	}
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat status cache: %w", err)
	}
	return info.ModTime().After(c.diskMTime), nil
}

// ReloadIfChanged hot-reloads an externally updated database and reapplies
// it to the in-memory entries. Progress obtained this session wins for keys
// both sides hold unless force is set. Returns whether a reload happened.
func (c *Cache) ReloadIfChanged(force bool) (bool, error) {
	changed, err := c.ExternalUpdate()
	if err != nil {
		return false, err
	}
	if !changed && !force {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	db, mtime, err := c.readDisk()
	if err != nil {
		return false, err
	}
	c.diskMTime = mtime

	if db.SteamID != 0 && c.accountID != 0 && db.SteamID != c.accountID {
		return false, nil
	}

	adopted := 0
	for _, entry := range db.Games {
		if entry.AppID == 0 {
			continue
		}
		entry.normalize()
		if _, held := c.entries[entry.AppID]; held && !force {
			continue
		}
		c.entries[entry.AppID] = entry
		adopted++
	}

	c.logger.Debug("hot-reloaded status cache",
		logging.Int("adopted", adopted),
		logging.Bool("forced", force))
	return true, nil
}

// flushLocked persists via read-overlay-sort-replace. The whole cycle runs
// under the shared file lock so a concurrent companion-process write cannot
// fall into the read/replace window.
func (c *Cache) flushLocked() error {
	if c.lockPath != "" {
		lock := flock.New(c.lockPath)
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("acquire status cache lock: %w", err)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	onDisk, _, err := c.readDisk()
	if err != nil {
		// Unreadable prior state must not block persisting the session.
		c.logger.Warn("status cache unreadable before save; rewriting",
			logging.Error(err))
		onDisk = Database{}
	}

	merged := make(map[uint32]Entry, len(onDisk.Games)+len(c.entries))
	for _, entry := range onDisk.Games {
		if entry.AppID == 0 {
			continue
		}
		entry.normalize()
		merged[entry.AppID] = entry
	}
	for appID, entry := range c.entries {
		merged[appID] = entry
	}

	games := make([]Entry, 0, len(merged))
	for _, entry := range merged {
		games = append(games, entry)
	}
	c.sortEntries(games)

	db := Database{
		GeneratedUTC: c.now().UTC(),
		SteamID:      c.accountID,
		ScanMode:     c.scanMode,
		Games:        games,
	}

	if err := c.replaceFile(db); err != nil {
		return err
	}

	if info, err := os.Stat(c.path); err == nil {
		c.diskMTime = info.ModTime()
	}
	c.dirty = false
	c.lastFlush = c.now()
	return nil
}

func (c *Cache) readDisk() (Database, time.Time, error) {
	var db Database
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return db, time.Time{}, nil
		}
		return db, time.Time{}, fmt.Errorf("stat status cache: %w", err)
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return db, time.Time{}, fmt.Errorf("read status cache: %w", err)
	}
	if len(data) == 0 {
		return db, info.ModTime(), nil
	}
	if err := json.Unmarshal(data, &db); err != nil {
		return Database{}, time.Time{}, fmt.Errorf("parse status cache: %w", err)
	}
	return db, info.ModTime(), nil
}

func (c *Cache) replaceFile(db Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status cache: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure status cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".status-*.json")
	if err != nil {
		return fmt.Errorf("create temp status cache: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp status cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp status cache: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace status cache: %w", err)
	}
	return nil
}

func (c *Cache) sortedLocked() []Entry {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	c.sortEntries(entries)
	return entries
}

func (c *Cache) sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := c.collator.CompareString(entries[i].Name, entries[j].Name); cmp != 0 {
			return cmp < 0
		}
		return entries[i].AppID < entries[j].AppID
	})
}
