package sources

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for adapter failure classification. Callers branch on
// these with errors.Is; the fallback chain treats every one of them as
// locally recoverable.
var (
	// ErrTransient marks transport-level failures: connection errors,
	// timeouts, unexpected HTTP status codes.
	ErrTransient = errors.New("transient source failure")

	// ErrMalformed marks structurally broken payloads, including the page
	// layout changes that break the embedded-script extraction.
	ErrMalformed = errors.New("malformed response")

	// ErrSignInWall marks an HTML sign-in or interstitial page returned
	// where structured data was expected.
	ErrSignInWall = errors.New("sign-in page returned")

	// ErrPrivateProfile marks upstream privacy refusals. Distinct from
	// absence: the data exists but is withheld.
	ErrPrivateProfile = errors.New("profile is private")
)

// Wrap builds an error that includes source context while tagging it with
// the provided marker for later classification.
func Wrap(marker error, source, operation string, err error) error {
	detail := buildDetail(source, operation)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the error is one of the expected adapter
// failure modes that the caller degrades through, as opposed to a
// programming error.
func Recoverable(err error) bool {
	return errors.Is(err, ErrTransient) ||
		errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrSignInWall) ||
		errors.Is(err, ErrPrivateProfile)
}

func buildDetail(source, operation string) string {
	parts := make([]string, 0, 2)
	if source = strings.TrimSpace(source); source != "" {
		parts = append(parts, source)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "source failure"
	}
	return strings.Join(parts, ": ")
}
