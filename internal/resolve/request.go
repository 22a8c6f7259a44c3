package resolve

// Request carries the raw settings of one build execution. It is the
// input to NewSession and is not modified by it beyond the repository
// lists, which are rewritten in place by injection.
type Request struct {
	RemoteRepositories []*RemoteRepository
	PluginRepositories []*RemoteRepository

	LocalRepositoryPath string

	Mirrors []Mirror
	Proxies []Proxy
	Servers []Server

	SystemProperties map[string]string
	UserProperties   map[string]string

	Offline     bool
	Interactive bool

	// ChecksumPolicy is the global checksum policy ("fail", "warn",
	// "ignore") or "" for per-repository defaults.
	ChecksumPolicy string

	NoSnapshotUpdates bool
	UpdateSnapshots   bool

	CacheNotFound      bool
	CacheTransferError bool

	// Cache is an opaque handle shared across sessions of one build.
	Cache any

	TransferListener TransferListener
	WorkspaceReader  WorkspaceReader
}

// WorkspaceReader satisfies artifact lookups from an in-progress
// multi-module build instead of a repository.
type WorkspaceReader interface {
	// FindArtifact returns the path of a workspace artifact matching
	// the coordinates, or "" when the workspace cannot supply it.
	FindArtifact(groupID, artifactID, version, extension string) string
}
