package sources

import (
	"context"

	"medallion/internal/library"
)

// Credentials is an immutable snapshot of the secrets available to
// authenticated adapters. Snapshots are taken when a request is dispatched
// so a concurrent credential change never races a scan in flight.
type Credentials struct {
	APIKey      string
	SessionID   string
	LoginSecure string
}

// Clone returns an independent copy.
func (c Credentials) Clone() Credentials {
	return Credentials{APIKey: c.APIKey, SessionID: c.SessionID, LoginSecure: c.LoginSecure}
}

// HasAPIKey reports whether the web API adapters can authenticate.
func (c Credentials) HasAPIKey() bool { return c.APIKey != "" }

// HasCookies reports whether the community adapters can authenticate.
func (c Credentials) HasCookies() bool { return c.SessionID != "" && c.LoginSecure != "" }

// OwnershipSource produces owned-game candidates for one account. Expected
// failures come back as errors tagged with the sentinels in this package;
// the caller advances to the next source in the chain.
type OwnershipSource interface {
	Name() string
	FetchOwned(ctx context.Context, accountID uint64) ([]library.Candidate, error)
}

// ProgressSource fetches one app's achievement progress. Upstream "no
// stats" replies are not errors: they normalize to a valid 0/0 result.
type ProgressSource interface {
	Name() string
	FetchProgress(ctx context.Context, accountID uint64, appID uint32) (unlocked, total int, err error)
}
