package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the engine cannot work with.
// Credential absence is not an error here: the adapters degrade through the
// fallback chain when the API key or cookies are missing.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir is required")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Scanner.Concurrency > 64 {
		problems = append(problems, "scanner.concurrency above 64 hammers upstream endpoints")
	}
	if c.Sources.RequestTimeout > 120 {
		problems = append(problems, "sources.request_timeout above 120 seconds defeats the fallback chain")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

// HasWebAPIKey reports whether a web API key is configured.
func (c *Config) HasWebAPIKey() bool {
	return strings.TrimSpace(c.Credentials.APIKey) != ""
}

// HasSessionCookies reports whether community session cookies are configured.
func (c *Config) HasSessionCookies() bool {
	return strings.TrimSpace(c.Credentials.SessionID) != "" && strings.TrimSpace(c.Credentials.LoginSecure) != ""
}

// HasUnlocker reports whether a companion unlock executable is configured.
func (c *Config) HasUnlocker() bool {
	return strings.TrimSpace(c.Unlocker.Binary) != ""
}
