// Package engine owns the in-memory game library and drives the three
// long-running activities against it: list reloads through the ownership
// fallback chain, bounded-parallel achievement scans, and sequential
// unlock-all passes through the companion process.
//
// A coordinator serializes the activities; requests that cannot start
// either latch for a follow-up pass or fail with a busy error. All library
// and cache mutation happens on the goroutine driving the activity, so
// workers only ever hand back immutable results.
package engine
