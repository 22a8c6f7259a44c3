package resolve

import (
	"net/url"
	"strings"
)

// Authentication holds plaintext credentials for a repository or proxy.
// Values must already be decrypted before they reach a selector.
type Authentication struct {
	Username   string
	Password   string
	PrivateKey string
	Passphrase string
}

// Mirror is a substitute endpoint that intercepts requests to
// repositories matching its MirrorOf pattern.
type Mirror struct {
	ID     string
	URL    string
	Layout string

	// MirrorOf is a comma-separated pattern over repository ids:
	// exact ids, "*", "external:*", and negations like "!internal".
	MirrorOf string

	// MirrorOfLayouts is the analogous pattern over repository
	// layouts. Empty means no layout constraint.
	MirrorOfLayouts string
}

// Proxy is a network intermediary bound to a protocol.
type Proxy struct {
	Protocol string
	Host     string
	Port     int
	Auth     *Authentication

	// NonProxyHosts is a "|" or comma separated list of host
	// patterns excluded from this proxy. A leading "*." matches any
	// subdomain; anything else is an exact host match.
	NonProxyHosts string
}

// Server carries per-repository-id credential and permission
// configuration from the build settings.
type Server struct {
	ID         string
	Username   string
	Password   string
	PrivateKey string
	Passphrase string

	// Configuration is an arbitrary key/value tree attached to the
	// server. A "wagonProvider" entry, if present, is stripped before
	// the remainder is exposed as a session property.
	Configuration map[string]any

	FilePermissions      string
	DirectoryPermissions string
}

// RemoteRepository is a remote artifact source. After injection it may
// carry the mirror substitution back-reference and the attached proxy
// and authentication.
type RemoteRepository struct {
	ID     string
	URL    string
	Layout string

	// MirroredFrom points at the pre-mirror repository when this
	// repository's endpoint was rewritten by a mirror. Diagnostics
	// only.
	MirroredFrom *RemoteRepository

	Proxy *Proxy
	Auth  *Authentication
}

// Protocol returns the URL scheme of the repository, or "" if the URL
// does not parse.
func (r *RemoteRepository) Protocol() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Host returns the host part of the repository URL, without port.
func (r *RemoteRepository) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// isExternal reports whether the repository points outside the local
// machine. file URLs and loopback hosts are not external.
func (r *RemoteRepository) isExternal() bool {
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Scheme, "file") {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return false
	}
	return true
}
