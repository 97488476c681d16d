// Package library defines the canonical game record model shared by the
// acquisition engine, the status cache, and the presentation surface, plus
// the merge rules that reconcile disagreeing ownership sources into one
// candidate per app.
package library
