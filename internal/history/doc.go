// Package history persists a record of completed scan runs in SQLite so
// users can review when the library was last refreshed and how many apps
// failed. The store is optional; the engine skips recording when it is
// disabled in configuration.
package history
