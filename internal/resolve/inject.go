package resolve

// InjectMirror rewrites each repository's effective endpoint with the
// matching mirror, if any, keeping a back-reference to the pre-mirror
// repository for diagnostics. At most one mirror is bound per
// repository.
func InjectMirror(repositories []*RemoteRepository, selector *MirrorSelector) {
	if selector == nil {
		return
	}
	for _, repo := range repositories {
		mirror := selector.Mirror(repo)
		if mirror == nil {
			continue
		}
		original := *repo
		repo.ID = mirror.ID
		repo.URL = mirror.URL
		if mirror.Layout != "" {
			repo.Layout = mirror.Layout
		}
		repo.MirroredFrom = &original
	}
}

// InjectProxy attaches the selected proxy, if any, to each repository
// based on its current (possibly post-mirror) protocol and host.
func InjectProxy(repositories []*RemoteRepository, selector *ProxySelector) {
	if selector == nil {
		return
	}
	for _, repo := range repositories {
		repo.Proxy = selector.Select(repo.Protocol(), repo.Host())
	}
}

// InjectAuthentication attaches credentials, if any, to each
// repository based on its current (possibly post-mirror) id.
func InjectAuthentication(repositories []*RemoteRepository, selector *AuthenticationSelector) {
	if selector == nil {
		return
	}
	for _, repo := range repositories {
		repo.Auth = selector.Select(repo.ID)
	}
}

// injectAll runs the three injection passes in their required order:
// mirrors first, so proxy and authentication lookups see post-mirror
// endpoints.
func injectAll(repositories []*RemoteRepository, session *Session) {
	InjectMirror(repositories, session.MirrorSelector)
	InjectProxy(repositories, session.ProxySelector)
	InjectAuthentication(repositories, session.AuthenticationSelector)
}
