// Package statuscache persists per-account achievement progress to the
// JSON status database shared with the companion process.
//
// Saves run read-overlay-replace: the on-disk file is re-read first so
// entries for apps outside the current session survive, the in-memory
// session wins for keys it holds, and the result is sorted and atomically
// renamed into place. The cycle is serialized against the companion process
// by a sidecar file lock. Writes are debounced; forced flush points bypass
// the debounce.
package statuscache
