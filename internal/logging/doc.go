// Package logging assembles the structured slog loggers used across
// Medallion components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so components emit uniformly shaped
// records. Prefer these constructors over hand-rolled slog setup.
//
// The user-facing scan log (redacted, append-only) is a separate concern and
// lives in internal/scanlog.
package logging
