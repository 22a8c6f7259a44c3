package resolve

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

type fakeDecrypter struct {
	problems []Problem
	called   bool
}

func (d *fakeDecrypter) Decrypt(req DecryptionRequest) DecryptionResult {
	d.called = true
	servers := make([]Server, len(req.Servers))
	for i, server := range req.Servers {
		servers[i] = server
		servers[i].Password = strings.TrimPrefix(server.Password, "encrypted:")
	}
	proxies := make([]Proxy, len(req.Proxies))
	copy(proxies, req.Proxies)
	return DecryptionResult{Proxies: proxies, Servers: servers, Problems: d.problems}
}

type failingFactory struct{}

func (failingFactory) NewLocalRepositoryManager(_ *Session, _ string) (LocalRepositoryManager, error) {
	return nil, errors.New("storage unavailable")
}

type chainingDispatcher struct {
	chained RepositoryListener
}

func (d *chainingDispatcher) ChainListener(listener RepositoryListener) RepositoryListener {
	d.chained = listener
	return listener
}

type fakeWorkspaceReader struct{ name string }

func (r *fakeWorkspaceReader) FindArtifact(_, _, _, _ string) string { return r.name }

type fakeTransferListener struct{}

func (fakeTransferListener) TransferStarted(TransferEvent)    {}
func (fakeTransferListener) TransferProgressed(TransferEvent) {}
func (fakeTransferListener) TransferSucceeded(TransferEvent)  {}
func (fakeTransferListener) TransferFailed(TransferEvent)     {}

func newTestRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		LocalRepositoryPath: t.TempDir(),
		Interactive:         true,
		CacheNotFound:       true,
	}
}

func TestNewSessionPropertyPrecedence(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.SystemProperties = map[string]string{"K": "sys", "os.detected": "linux"}
	req.UserProperties = map[string]string{"K": "usr"}

	session, err := NewSession(req, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := session.ConfigProperties["K"]; got != "usr" {
		t.Errorf(`ConfigProperties["K"] = %v, want "usr" (user properties win)`, got)
	}
	if got := session.ConfigProperties["os.detected"]; got != "linux" {
		t.Errorf(`ConfigProperties["os.detected"] = %v, want "linux"`, got)
	}
	if got := session.UserProperties["K"]; got != "usr" {
		t.Errorf(`UserProperties["K"] = %q, want "usr"`, got)
	}
	if got := session.SystemProperties["K"]; got != "sys" {
		t.Errorf(`SystemProperties["K"] = %q, want "sys"`, got)
	}
}

func TestNewSessionSeedsUserAgentAndInteractive(t *testing.T) {
	t.Parallel()

	session, err := NewSession(newTestRequest(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	agent, ok := session.ConfigProperties[PropUserAgent].(string)
	if !ok {
		t.Fatalf("user agent property missing, got %v", session.ConfigProperties[PropUserAgent])
	}
	if !strings.HasPrefix(agent, "Resolvectl/") {
		t.Errorf("user agent = %q, want Resolvectl/ prefix", agent)
	}
	if !strings.Contains(agent, "(Go ") {
		t.Errorf("user agent = %q, want Go runtime detail", agent)
	}

	if got := session.ConfigProperties[PropInteractive]; got != true {
		t.Errorf("interactive property = %v, want true", got)
	}
}

func TestNewSessionCopiesFlagsAndPolicies(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.Offline = true
	req.ChecksumPolicy = ChecksumPolicyFail
	req.NoSnapshotUpdates = true
	req.CacheNotFound = false
	req.CacheTransferError = true

	session, err := NewSession(req, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !session.Offline {
		t.Error("offline flag not copied")
	}
	if session.ChecksumPolicy != ChecksumPolicyFail {
		t.Errorf("checksum policy = %q, want fail", session.ChecksumPolicy)
	}
	if session.UpdatePolicy != UpdatePolicyNever {
		t.Errorf("update policy = %q, want never", session.UpdatePolicy)
	}
	if session.ResolutionErrorPolicy.Base != CacheTransferError {
		t.Errorf("error policy base = %b, want transfer-error only", session.ResolutionErrorPolicy.Base)
	}
	if session.ResolutionErrorPolicy.NotFound != CacheTransferError|CacheNotFound {
		t.Errorf("error policy fallback = %b, want not-found forced on", session.ResolutionErrorPolicy.NotFound)
	}
}

func TestNewSessionUpdatePolicyUnset(t *testing.T) {
	t.Parallel()

	session, err := NewSession(newTestRequest(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if session.UpdatePolicy != "" {
		t.Errorf("update policy = %q, want unset", session.UpdatePolicy)
	}
}

func TestNewSessionLocalRepositoryFailureIsFatal(t *testing.T) {
	t.Parallel()

	_, err := NewSession(newTestRequest(t), &Environment{LocalRepositoryFactory: failingFactory{}})
	if err == nil {
		t.Fatal("local repository manager failure must propagate")
	}
	if !strings.Contains(err.Error(), "storage unavailable") {
		t.Errorf("error = %v, want wrapped factory failure", err)
	}
}

func TestNewSessionLocalRepositoryManager(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	session, err := NewSession(req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if session.LocalRepositoryManager == nil {
		t.Fatal("local repository manager not attached")
	}
	if got := session.LocalRepositoryManager.Basedir(); got != req.LocalRepositoryPath {
		t.Errorf("basedir = %q, want %q", got, req.LocalRepositoryPath)
	}
}

func TestNewSessionWorkspaceReader(t *testing.T) {
	t.Parallel()

	fromRequest := &fakeWorkspaceReader{name: "request"}
	fromEnv := &fakeWorkspaceReader{name: "environment"}

	req := newTestRequest(t)
	req.WorkspaceReader = fromRequest
	session, err := NewSession(req, &Environment{WorkspaceReader: fromEnv})
	if err != nil {
		t.Fatal(err)
	}
	if session.WorkspaceReader != WorkspaceReader(fromRequest) {
		t.Error("request reader should win over the environment default")
	}

	req = newTestRequest(t)
	session, err = NewSession(req, &Environment{WorkspaceReader: fromEnv})
	if err != nil {
		t.Fatal(err)
	}
	if session.WorkspaceReader != WorkspaceReader(fromEnv) {
		t.Error("environment default reader should apply when the request has none")
	}

	session, err = NewSession(newTestRequest(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if session.WorkspaceReader != nil {
		t.Error("workspace reader should stay nil when absent everywhere")
	}
}

func TestNewSessionUsesDecryptedServers(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.Servers = []Server{{ID: "releases", Username: "deployer", Password: "encrypted:secret"}}

	decrypter := &fakeDecrypter{problems: []Problem{{Message: "entry 2 unreadable"}}}
	session, err := NewSession(req, &Environment{Decrypter: decrypter})
	if err != nil {
		t.Fatal(err)
	}
	if !decrypter.called {
		t.Fatal("decrypter not invoked")
	}

	auth := session.AuthenticationSelector.Select("releases")
	if auth == nil {
		t.Fatal("releases should have credentials")
	}
	if auth.Password != "secret" {
		t.Errorf("password = %q, want decrypted value", auth.Password)
	}
}

func TestNewSessionDecryptionProblemsAreNonFatal(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.Servers = []Server{{ID: "releases", Password: "encrypted:secret"}}

	decrypter := &fakeDecrypter{problems: []Problem{
		{Message: "bad entry", Err: errors.New("malformed cipher text")},
	}}
	session, err := NewSession(req, &Environment{Decrypter: decrypter})
	if err != nil {
		t.Fatalf("decryption problems must not abort construction: %v", err)
	}
	if session.AuthenticationSelector.Select("releases") == nil {
		t.Error("decrypted data should be used best-effort")
	}
}

func TestNewSessionListeners(t *testing.T) {
	t.Parallel()

	transfer := fakeTransferListener{}
	dispatcher := &chainingDispatcher{}

	req := newTestRequest(t)
	req.TransferListener = transfer
	session, err := NewSession(req, &Environment{Dispatcher: dispatcher})
	if err != nil {
		t.Fatal(err)
	}

	if session.TransferListener != TransferListener(transfer) {
		t.Error("transfer listener not passed through")
	}
	if dispatcher.chained == nil {
		t.Fatal("repository listener not chained through the dispatcher")
	}
	if _, ok := dispatcher.chained.(*LoggingRepositoryListener); !ok {
		t.Errorf("chain tail is %T, want logging listener", dispatcher.chained)
	}
	if session.RepositoryListener == nil {
		t.Error("repository listener not attached")
	}
}

func TestNewSessionInjectsBothRepositoryLists(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.Mirrors = []Mirror{{ID: "corp", URL: "https://mirror.example.com/repo", MirrorOf: "*"}}
	req.Servers = []Server{{ID: "corp", Username: "deployer"}}
	req.RemoteRepositories = []*RemoteRepository{repo("central", "https://repo.maven.org/maven2")}
	req.PluginRepositories = []*RemoteRepository{repo("plugins", "https://plugins.example.com/maven2")}

	_, err := NewSession(req, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range []*RemoteRepository{req.RemoteRepositories[0], req.PluginRepositories[0]} {
		if r.URL != "https://mirror.example.com/repo" {
			t.Errorf("repository %q not mirrored, url = %q", r.ID, r.URL)
		}
		if r.Auth == nil || r.Auth.Username != "deployer" {
			t.Errorf("repository %q should carry the mirror id's credentials", r.ID)
		}
	}
}

func TestNewSessionArtifactTypes(t *testing.T) {
	t.Parallel()

	session, err := NewSession(newTestRequest(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	jar, ok := session.ArtifactTypes.Get("jar")
	if !ok {
		t.Fatal("jar type missing from the default catalog")
	}
	if jar.Extension != "jar" || !jar.ConstitutesBuildPath {
		t.Errorf("jar type = %+v", jar)
	}
	if _, ok := session.ArtifactTypes.Get("nope"); ok {
		t.Error("unknown type id should not resolve")
	}
}

func TestSessionConcurrentReads(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t)
	req.Mirrors = []Mirror{{ID: "corp", URL: "https://mirror.example.com/repo", MirrorOf: "external:*,!internal"}}
	req.Proxies = []Proxy{{Protocol: "https", Host: "proxy.example.com", Port: 3128, NonProxyHosts: "*.internal.example.com"}}
	req.Servers = []Server{{ID: "corp", Username: "deployer"}}

	session, err := NewSession(req, nil)
	if err != nil {
		t.Fatal(err)
	}

	var group errgroup.Group
	for i := 0; i < 8; i++ {
		group.Go(func() error {
			for j := 0; j < 1000; j++ {
				if m := session.MirrorSelector.Mirror(repo("central", "https://repo.maven.org/maven2")); m == nil {
					return errors.New("mirror lookup failed")
				}
				if p := session.ProxySelector.Select("https", "repo.maven.org"); p == nil {
					return errors.New("proxy lookup failed")
				}
				if a := session.AuthenticationSelector.Select("corp"); a == nil {
					return errors.New("auth lookup failed")
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}
}
