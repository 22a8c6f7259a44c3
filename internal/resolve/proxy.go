package resolve

import (
	"strings"
)

// ProxySelector matches repository endpoints against an ordered list
// of proxy definitions. The rule list is fixed at construction and
// matching is read-only.
type ProxySelector struct {
	proxies []Proxy
}

// NewProxySelector builds a selector over the given proxies. Among
// eligible proxies the first registered wins; there is no specificity
// scoring beyond eligibility.
func NewProxySelector(proxies []Proxy) *ProxySelector {
	return &ProxySelector{proxies: append([]Proxy(nil), proxies...)}
}

// Select returns the proxy to use for the given protocol and host, or
// nil. A proxy is eligible when its protocol equals the repository's
// protocol (case-insensitive) and the host is not excluded by the
// proxy's nonProxyHosts pattern.
func (s *ProxySelector) Select(protocol, host string) *Proxy {
	for i := range s.proxies {
		p := &s.proxies[i]
		if !strings.EqualFold(p.Protocol, protocol) {
			continue
		}
		if hostExcluded(host, p.NonProxyHosts) {
			continue
		}
		return p
	}
	return nil
}

// hostExcluded reports whether host matches any pattern in the
// nonProxyHosts list. Patterns are separated by "|" or ",". A leading
// "*." matches any subdomain of the remaining suffix; any other
// pattern is an exact host match. Comparison is case-insensitive.
func hostExcluded(host, nonProxyHosts string) bool {
	if nonProxyHosts == "" {
		return false
	}
	host = strings.ToLower(host)
	split := func(r rune) bool { return r == '|' || r == ',' }
	for _, pattern := range strings.FieldsFunc(nonProxyHosts, split) {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}
