package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Account identifies the profile whose library and achievements are managed.
type Account struct {
	SteamID uint64 `toml:"steam_id"`
}

// Credentials carries the opaque secrets used by authenticated sources. The
// TOML values are overridden by environment variables when present so the
// key never has to live in a config file.
type Credentials struct {
	APIKey         string `toml:"api_key" envconfig:"STEAM_API_KEY"`
	SessionID      string `toml:"session_id" envconfig:"STEAM_SESSION_ID"`
	LoginSecure    string `toml:"login_secure" envconfig:"STEAM_LOGIN_SECURE"`
	ParentalUnlock string `toml:"parental_unlock" envconfig:"STEAM_PARENTAL"`
}

// Sources contains upstream endpoint configuration shared by the adapters.
type Sources struct {
	WebAPIBaseURL    string `toml:"webapi_base_url"`
	CommunityBaseURL string `toml:"community_base_url"`
	StoreBaseURL     string `toml:"store_base_url"`
	RequestTimeout   int    `toml:"request_timeout"`
	UserAgent        string `toml:"user_agent"`
}

// Scanner contains achievement scan settings.
type Scanner struct {
	Concurrency int `toml:"concurrency"`
}

// StatusCache contains configuration for the shared on-disk status database.
type StatusCache struct {
	Path       string `toml:"path"`
	DebounceMS int    `toml:"debounce_ms"`
	LockFile   string `toml:"lock_file"`
}

// Unlocker contains configuration for the companion unlock executable.
type Unlocker struct {
	Binary          string `toml:"binary"`
	ProgressTimeout int    `toml:"progress_timeout"`
	UnlockTimeout   int    `toml:"unlock_timeout"`
}

// History contains configuration for the scan history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Medallion.
//
// Sections by subsystem:
//   - Paths: data and log directories
//   - Account: the profile under management
//   - Credentials: API key and session cookies (env overridable)
//   - Sources: upstream base URLs, timeout, user agent
//   - Scanner: fan-out ceiling for achievement scans
//   - StatusCache: shared status database path and debounce interval
//   - Unlocker: companion executable and per-operation timeouts
//   - History: scan run journal
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Account     Account     `toml:"account"`
	Credentials Credentials `toml:"credentials"`
	Sources     Sources     `toml:"sources"`
	Scanner     Scanner     `toml:"scanner"`
	StatusCache StatusCache `toml:"status_cache"`
	Unlocker    Unlocker    `toml:"unlocker"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/medallion/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized and credential fields
// resolved from the environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.loadCredentialEnv(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadCredentialEnv overlays credential values from the environment. A .env
// file next to the working directory is honored when present; missing files
// are not an error.
func (c *Config) loadCredentialEnv() error {
	_ = godotenv.Load()

	var env Credentials
	if err := envconfig.Process("medallion", &env); err != nil {
		return fmt.Errorf("read credential environment: %w", err)
	}
	if strings.TrimSpace(env.APIKey) != "" {
		c.Credentials.APIKey = env.APIKey
	}
	if strings.TrimSpace(env.SessionID) != "" {
		c.Credentials.SessionID = env.SessionID
	}
	if strings.TrimSpace(env.LoginSecure) != "" {
		c.Credentials.LoginSecure = env.LoginSecure
	}
	if strings.TrimSpace(env.ParentalUnlock) != "" {
		c.Credentials.ParentalUnlock = env.ParentalUnlock
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("medallion.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories referenced by the configuration.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.LogDir,
		filepath.Dir(c.StatusCache.Path),
	}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path. It refuses to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o600)
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
