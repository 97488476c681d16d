// Package scanner drives bounded-parallel achievement-progress fan-out
// over an app-id set. Workers deliver immutable progress events over a
// channel to a single consumer; per-app failures degrade to the unknown
// sentinel instead of aborting the batch.
package scanner
