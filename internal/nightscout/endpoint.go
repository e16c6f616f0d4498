package nightscout

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	entriesPath       = "/api/v1/entries/sgv.json"
	uploadEntriesPath = "/api/v1/entries.json"
	treatmentsPath    = "/api/v1/treatments.json"
	statusPath        = "/api/v1/devicestatus.json"
	profilePath       = "/api/v1/profile.json"
)

// Endpoint identifies the remote store: scheme, host, port and an optional
// shared secret. Build it with NewEndpoint.
type Endpoint struct {
	base   url.URL
	secret string
}

// NewEndpoint validates rawURL and captures the secret. A secret that is
// blank after trimming puts the endpoint in unauthenticated mode.
func NewEndpoint(rawURL, secret string) (Endpoint, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return Endpoint{}, ErrMissingEndpoint
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrMissingEndpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Endpoint{}, fmt.Errorf("%w: %q has no scheme or host", ErrMissingEndpoint, raw)
	}
	if strings.TrimSpace(secret) == "" {
		secret = ""
	}
	return Endpoint{
		base:   url.URL{Scheme: u.Scheme, Host: u.Host},
		secret: secret,
	}, nil
}

// Authenticated reports whether requests carry the credential header.
func (e Endpoint) Authenticated() bool {
	return e.secret != ""
}

func (e Endpoint) String() string {
	return e.base.String()
}

// url joins the base address with a resource path and an already encoded
// query string.
func (e Endpoint) url(path string, q Query) string {
	u := e.base
	u.Path = path
	u.RawQuery = q.Encode()
	return u.String()
}
