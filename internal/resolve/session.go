package resolve

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// Session is the fully assembled resolution configuration for one
// build execution. It is built once by NewSession and must not be
// mutated afterwards; all fields and selectors are then safe for
// concurrent read-only access by resolution workers.
type Session struct {
	Cache any

	Offline        bool
	ChecksumPolicy string

	// UpdatePolicy is "" when unset, so the engine default applies.
	UpdatePolicy string

	ResolutionErrorPolicy ResolutionErrorPolicy

	ArtifactTypes *ArtifactTypeRegistry

	LocalRepositoryManager LocalRepositoryManager

	// WorkspaceReader is nil when neither the request nor the
	// environment supplied one.
	WorkspaceReader WorkspaceReader

	MirrorSelector         *MirrorSelector
	ProxySelector          *ProxySelector
	AuthenticationSelector *AuthenticationSelector

	TransferListener   TransferListener
	RepositoryListener RepositoryListener

	UserProperties   map[string]string
	SystemProperties map[string]string

	// ConfigProperties is the merged bag: seeded defaults, then
	// system properties, then user properties. Later layers win on
	// key collision.
	ConfigProperties map[string]any
}

// Environment carries the collaborators injected by the application
// bootstrap. Optional fields may be nil.
type Environment struct {
	// Decrypter turns encrypted proxy/server settings into plaintext.
	// Nil means settings are used as-is.
	Decrypter SettingsDecrypter

	// LocalRepositoryFactory creates the local repository manager.
	// Nil falls back to SimpleLocalRepositoryManagerFactory.
	LocalRepositoryFactory LocalRepositoryManagerFactory

	// HandlerCatalog enumerates artifact types. Nil falls back to
	// DefaultHandlerCatalog.
	HandlerCatalog HandlerCatalog

	// Dispatcher chains host listeners in front of the session's
	// repository listener. Nil means no host listeners.
	Dispatcher EventDispatcher

	// WorkspaceReader is the default reader used when the request
	// does not carry one. May be nil.
	WorkspaceReader WorkspaceReader

	Logger *slog.Logger
}

// NewSession assembles a session from the request. The construction
// order is load-bearing: policies are derived before the local
// repository manager is created, selectors are built from decrypted
// settings before injection, and mirror injection precedes proxy and
// authentication injection so the latter two see post-mirror
// endpoints.
func NewSession(req *Request, env *Environment) (*Session, error) {
	if env == nil {
		env = &Environment{}
	}
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	session := &Session{Cache: req.Cache}

	configProps := make(map[string]any)
	configProps[PropUserAgent] = userAgent()
	configProps[PropInteractive] = req.Interactive
	for key, value := range req.SystemProperties {
		configProps[key] = value
	}
	for key, value := range req.UserProperties {
		configProps[key] = value
	}

	session.Offline = req.Offline
	session.ChecksumPolicy = req.ChecksumPolicy
	session.UpdatePolicy = UpdatePolicy(req.NoSnapshotUpdates, req.UpdateSnapshots)
	session.ResolutionErrorPolicy = ComposeResolutionErrorPolicy(req.CacheNotFound, req.CacheTransferError)

	catalog := env.HandlerCatalog
	if catalog == nil {
		catalog = DefaultHandlerCatalog{}
	}
	session.ArtifactTypes = NewArtifactTypeRegistry(catalog)

	factory := env.LocalRepositoryFactory
	if factory == nil {
		factory = SimpleLocalRepositoryManagerFactory{}
	}
	manager, err := factory.NewLocalRepositoryManager(session, req.LocalRepositoryPath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create local repository manager")
	}
	session.LocalRepositoryManager = manager

	if req.WorkspaceReader != nil {
		session.WorkspaceReader = req.WorkspaceReader
	} else {
		session.WorkspaceReader = env.WorkspaceReader
	}

	decrypted := decryptSettings(req, env.Decrypter, logger)

	session.MirrorSelector = NewMirrorSelector(req.Mirrors)
	session.ProxySelector = NewProxySelector(decrypted.Proxies)
	session.AuthenticationSelector = buildAuthenticationSelector(decrypted.Servers, configProps)

	session.TransferListener = req.TransferListener
	session.RepositoryListener = chainRepositoryListener(env.Dispatcher, logger)

	session.UserProperties = req.UserProperties
	session.SystemProperties = req.SystemProperties
	session.ConfigProperties = configProps

	injectAll(req.RemoteRepositories, session)
	injectAll(req.PluginRepositories, session)

	return session, nil
}

// decryptSettings invokes the decrypter on the combined proxy and
// server lists. Problems are reported at debug severity only; the
// decrypted data is used best-effort even when some entries failed.
func decryptSettings(req *Request, decrypter SettingsDecrypter, logger *slog.Logger) DecryptionResult {
	if decrypter == nil {
		return DecryptionResult{Proxies: req.Proxies, Servers: req.Servers}
	}
	result := decrypter.Decrypt(DecryptionRequest{
		Proxies: req.Proxies,
		Servers: req.Servers,
	})
	for _, problem := range result.Problems {
		if problem.Err != nil {
			logger.Debug(problem.Message, "error", problem.Err)
		} else {
			logger.Debug(problem.Message)
		}
	}
	return result
}

func chainRepositoryListener(dispatcher EventDispatcher, logger *slog.Logger) RepositoryListener {
	tail := NewLoggingRepositoryListener(logger)
	if dispatcher == nil {
		return tail
	}
	return dispatcher.ChainListener(tail)
}
