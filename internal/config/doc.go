// Package config loads, normalizes, and validates Medallion configuration.
//
// Configuration is TOML on disk with environment overrides for credentials.
// Load applies defaults first, then the file, then the environment, then
// normalization (path expansion, base URL trimming, bounds), then validation.
// The zero-value-tolerant design keeps the engine usable with no config file
// at all: every source that needs a credential simply drops out of the
// fallback chain when that credential is absent.
package config
