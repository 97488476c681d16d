package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCredentials()
	c.normalizeSources()
	c.normalizeScanner()
	if err := c.normalizeStatusCache(); err != nil {
		return err
	}
	if err := c.normalizeUnlocker(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCredentials() {
	c.Credentials.APIKey = strings.TrimSpace(c.Credentials.APIKey)
	c.Credentials.SessionID = strings.TrimSpace(c.Credentials.SessionID)
	c.Credentials.LoginSecure = strings.TrimSpace(c.Credentials.LoginSecure)
	c.Credentials.ParentalUnlock = strings.TrimSpace(c.Credentials.ParentalUnlock)
}

func (c *Config) normalizeSources() {
	c.Sources.WebAPIBaseURL = normalizeBaseURL(c.Sources.WebAPIBaseURL, defaultWebAPIBaseURL)
	c.Sources.CommunityBaseURL = normalizeBaseURL(c.Sources.CommunityBaseURL, defaultCommunityBaseURL)
	c.Sources.StoreBaseURL = normalizeBaseURL(c.Sources.StoreBaseURL, defaultStoreBaseURL)
	if c.Sources.RequestTimeout <= 0 {
		c.Sources.RequestTimeout = defaultRequestTimeout
	}
	c.Sources.UserAgent = strings.TrimSpace(c.Sources.UserAgent)
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeScanner() {
	if c.Scanner.Concurrency <= 0 {
		c.Scanner.Concurrency = defaultScanConcurrency
	}
}

func (c *Config) normalizeStatusCache() error {
	var err error
	if strings.TrimSpace(c.StatusCache.Path) == "" {
		c.StatusCache.Path = defaultStatusCachePath
	}
	if c.StatusCache.Path, err = expandPath(c.StatusCache.Path); err != nil {
		return fmt.Errorf("status_cache.path: %w", err)
	}
	if c.StatusCache.DebounceMS <= 0 {
		c.StatusCache.DebounceMS = defaultDebounceMS
	}
	if strings.TrimSpace(c.StatusCache.LockFile) == "" {
		c.StatusCache.LockFile = c.StatusCache.Path + ".lock"
	} else if c.StatusCache.LockFile, err = expandPath(c.StatusCache.LockFile); err != nil {
		return fmt.Errorf("status_cache.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeUnlocker() error {
	var err error
	if c.Unlocker.Binary, err = expandPath(c.Unlocker.Binary); err != nil {
		return fmt.Errorf("unlocker.binary: %w", err)
	}
	if c.Unlocker.ProgressTimeout <= 0 {
		c.Unlocker.ProgressTimeout = defaultProgressTimeout
	}
	if c.Unlocker.UnlockTimeout <= 0 {
		c.Unlocker.UnlockTimeout = defaultUnlockTimeout
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, "history.db")
		return nil
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeBaseURL(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	return strings.TrimRight(trimmed, "/")
}
