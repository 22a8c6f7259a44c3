package resolve

// Configuration property keys understood by the resolution engine.
const (
	// PropUserAgent and PropInteractive are seeded into the property
	// bag before system and user properties are layered on top.
	PropUserAgent   = "resolver.userAgent"
	PropInteractive = "resolver.interactive"

	// Per-server property key prefixes; the server id is appended.
	PropWagonConfigPrefix = "resolver.connector.wagon.config."
	PropFileModePrefix    = "resolver.connector.perms.fileMode."
	PropDirModePrefix     = "resolver.connector.perms.dirMode."

	// wagonProviderKey is stripped from server configuration blocks
	// before they are exposed as session properties.
	wagonProviderKey = "wagonProvider"
)

// AuthenticationSelector binds credentials to repositories by exact
// id. No wildcard or pattern support.
type AuthenticationSelector struct {
	auths map[string]Authentication
}

// NewAuthenticationSelector builds a selector from decrypted servers.
func NewAuthenticationSelector(servers []Server) *AuthenticationSelector {
	auths := make(map[string]Authentication, len(servers))
	for _, server := range servers {
		auths[server.ID] = Authentication{
			Username:   server.Username,
			Password:   server.Password,
			PrivateKey: server.PrivateKey,
			Passphrase: server.Passphrase,
		}
	}
	return &AuthenticationSelector{auths: auths}
}

// Select returns the credentials for the repository id, or nil.
func (s *AuthenticationSelector) Select(repositoryID string) *Authentication {
	auth, ok := s.auths[repositoryID]
	if !ok {
		return nil
	}
	return &auth
}

// buildAuthenticationSelector constructs the selector from decrypted
// servers and emits the per-server configuration properties into
// configProps: the server's configuration block with any wagonProvider
// entry removed, and its file/directory permission modes.
func buildAuthenticationSelector(servers []Server, configProps map[string]any) *AuthenticationSelector {
	for _, server := range servers {
		if server.Configuration != nil {
			config := make(map[string]any, len(server.Configuration))
			for key, value := range server.Configuration {
				if key == wagonProviderKey {
					continue
				}
				config[key] = value
			}
			configProps[PropWagonConfigPrefix+server.ID] = config
		}
		configProps[PropFileModePrefix+server.ID] = server.FilePermissions
		configProps[PropDirModePrefix+server.ID] = server.DirectoryPermissions
	}
	return NewAuthenticationSelector(servers)
}
