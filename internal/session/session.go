package session

import (
	"os"

	"github.com/nhle/community-notify/internal/credential"
)

// tokenKey is the keyring entry holding the platform access token.
const tokenKey = "api-token"

// envToken overrides the keyring when set, which keeps CI and scripted
// use working without a system keyring.
const envToken = "COMMUNITY_NOTIFY_TOKEN"

// Source resolves the bearer token for the active session, preferring
// the environment variable over the system keyring.
type Source struct{}

// Token implements api.TokenSource.
func (Source) Token() (string, error) {
	if tok := os.Getenv(envToken); tok != "" {
		return tok, nil
	}
	return credential.Get(tokenKey)
}

// Exists reports whether a session credential is available. The poller
// does not start and the fetcher is not invoked without one.
func Exists() bool {
	if os.Getenv(envToken) != "" {
		return true
	}
	tok, err := credential.Get(tokenKey)
	return err == nil && tok != ""
}

// Save stores the access token in the system keyring.
func Save(token string) error {
	return credential.Set(tokenKey, token)
}

// Clear removes the stored access token on logout.
func Clear() error {
	return credential.Delete(tokenKey)
}
