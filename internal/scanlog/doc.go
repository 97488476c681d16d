// Package scanlog writes the append-only scan journal. Every line is
// credential-redacted before it reaches disk: API keys and session tokens
// embedded in logged URLs are replaced with ***.
package scanlog
