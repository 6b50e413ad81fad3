// Package session owns the credential pair for the current sign-in.
// Credentials are opaque bearer tokens: they are stored, forwarded,
// replaced, and cleared, never inspected.
package session

// Fixed storage keys for the credential pair.
const (
	accessTokenKey  = "penguin_access_token"
	refreshTokenKey = "penguin_refresh_token"
)

// Credentials is the access/refresh token pair. A zero Access means
// the session is unauthenticated.
type Credentials struct {
	Access  string
	Refresh string
}

// Store persists the credential pair across client restarts. Load on
// an empty store returns zero Credentials, not an error.
type Store interface {
	Load() (Credentials, error)
	Save(creds Credentials) error
	Clear() error
	Authenticated() bool
}
