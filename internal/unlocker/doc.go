// Package unlocker drives the companion unlock executable over its
// line-based text protocol. The process is consumed as a black box: one
// invocation per app, a hard wall-clock timeout per operation, and the last
// stdout line as the result.
package unlocker
