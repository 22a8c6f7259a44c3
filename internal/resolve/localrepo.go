package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// LocalRepositoryManager locates and stores artifacts on local
// storage. Implementations must be safe for concurrent use once the
// owning session has been returned to the caller.
type LocalRepositoryManager interface {
	// Basedir returns the root directory of the local repository.
	Basedir() string

	// PathForArtifact returns the repository-relative storage path
	// for the given artifact coordinates.
	PathForArtifact(groupID, artifactID, version, extension string) string
}

// LocalRepositoryManagerFactory creates the manager for a session.
// Creation failure is fatal to session construction.
type LocalRepositoryManagerFactory interface {
	NewLocalRepositoryManager(session *Session, basedir string) (LocalRepositoryManager, error)
}

// SimpleLocalRepositoryManagerFactory is the stock directory-backed
// factory. It requires an absolute base directory and creates it if
// missing.
type SimpleLocalRepositoryManagerFactory struct{}

// NewLocalRepositoryManager implements LocalRepositoryManagerFactory.
func (SimpleLocalRepositoryManagerFactory) NewLocalRepositoryManager(_ *Session, basedir string) (LocalRepositoryManager, error) {
	if basedir == "" {
		return nil, errors.New("local repository path is not set")
	}
	if !filepath.IsAbs(basedir) {
		return nil, errors.New("local repository path must be absolute: " + basedir)
	}
	if err := os.MkdirAll(basedir, 0o755); err != nil {
		return nil, errors.Wrap(err, "cannot create local repository")
	}
	return &simpleLocalRepositoryManager{basedir: basedir}, nil
}

type simpleLocalRepositoryManager struct {
	basedir string
}

func (m *simpleLocalRepositoryManager) Basedir() string {
	return m.basedir
}

func (m *simpleLocalRepositoryManager) PathForArtifact(groupID, artifactID, version, extension string) string {
	group := filepath.FromSlash(strings.ReplaceAll(groupID, ".", "/"))
	name := artifactID + "-" + version + "." + extension
	return filepath.Join(group, artifactID, version, name)
}
