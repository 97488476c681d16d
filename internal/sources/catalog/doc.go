// Package catalog implements the unauthenticated fallbacks: the public app
// list for name backfill, per-app store metadata, and the bundled static
// catalog used as an explicit last resort when every ownership source has
// failed.
package catalog
