package resolve

import (
	"strings"
)

const (
	wildcard         = "*"
	externalWildcard = "external:*"
)

// MirrorSelector matches repositories against an ordered list of
// mirror definitions. The rule list is fixed at construction; matching
// never mutates the selector, so it is safe for concurrent use.
type MirrorSelector struct {
	mirrors []Mirror
}

// NewMirrorSelector builds a selector over the given mirrors.
// Registration order matters: among equally specific matches, the
// first mirror wins.
func NewMirrorSelector(mirrors []Mirror) *MirrorSelector {
	return &MirrorSelector{mirrors: append([]Mirror(nil), mirrors...)}
}

// Mirror returns the mirror to use for repo, or nil when no mirror
// matches. A mirror matched by the repository's exact id beats one
// matched only by a wildcard token, regardless of registration order.
func (s *MirrorSelector) Mirror(repo *RemoteRepository) *Mirror {
	var fallback *Mirror
	for i := range s.mirrors {
		m := &s.mirrors[i]
		matched, exact := matchMirrorOf(repo, m.MirrorOf)
		if !matched || !matchLayout(repo.Layout, m.MirrorOfLayouts) {
			continue
		}
		if exact {
			return m
		}
		if fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// matchMirrorOf evaluates a mirrorOf pattern against a repository.
// A negated token naming the repository's id excludes it outright,
// even when a wildcard token is also present. exact reports whether
// the match came from the repository's own id rather than a wildcard.
func matchMirrorOf(repo *RemoteRepository, pattern string) (matched, exact bool) {
	if pattern == "" {
		return false, false
	}
	for _, token := range strings.Split(pattern, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case strings.HasPrefix(token, "!"):
			if token[1:] == repo.ID {
				return false, false
			}
		case token == repo.ID:
			matched, exact = true, true
		case token == externalWildcard:
			if repo.isExternal() {
				matched = true
			}
		case token == wildcard:
			matched = true
		}
	}
	return matched, exact
}

// matchLayout evaluates a mirrorOfLayouts pattern. An empty pattern
// places no constraint on the layout.
func matchLayout(layout, pattern string) bool {
	if pattern == "" {
		return true
	}
	matched := false
	for _, token := range strings.Split(pattern, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case strings.HasPrefix(token, "!"):
			if token[1:] == layout {
				return false
			}
		case token == layout, token == wildcard:
			matched = true
		}
	}
	return matched
}
