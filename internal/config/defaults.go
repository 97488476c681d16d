package config

const (
	defaultDataDir          = "~/.local/share/medallion"
	defaultLogDir           = "~/.local/share/medallion/logs"
	defaultWebAPIBaseURL    = "https://api.steampowered.com"
	defaultCommunityBaseURL = "https://steamcommunity.com"
	defaultStoreBaseURL     = "https://store.steampowered.com"
	defaultRequestTimeout   = 10
	defaultUserAgent        = "Medallion/0.1 (+library scanner)"
	defaultScanConcurrency  = 8
	defaultStatusCachePath  = "~/.local/share/medallion/status.json"
	defaultDebounceMS       = 450
	defaultProgressTimeout  = 25
	defaultUnlockTimeout    = 45
	defaultHistoryPath      = "~/.local/share/medallion/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sources: Sources{
			WebAPIBaseURL:    defaultWebAPIBaseURL,
			CommunityBaseURL: defaultCommunityBaseURL,
			StoreBaseURL:     defaultStoreBaseURL,
			RequestTimeout:   defaultRequestTimeout,
			UserAgent:        defaultUserAgent,
		},
		Scanner: Scanner{
			Concurrency: defaultScanConcurrency,
		},
		StatusCache: StatusCache{
			Path:       defaultStatusCachePath,
			DebounceMS: defaultDebounceMS,
		},
		Unlocker: Unlocker{
			ProgressTimeout: defaultProgressTimeout,
			UnlockTimeout:   defaultUnlockTimeout,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
