// Package coordinator enforces single-activity exclusivity for the engine.
//
// List loading, achievement scanning, and unlock-all passes each mutate the
// in-memory library and the shared status cache, so only one may run at a
// time. Requests arriving mid-activity follow a two-tier policy: scans (and
// reloads behind reloads) latch for a follow-up pass; everything else is
// rejected with ErrBusy so the caller can report it immediately.
package coordinator
