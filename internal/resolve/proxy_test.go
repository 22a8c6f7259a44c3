package resolve

import (
	"testing"
)

func TestProxySelectorProtocol(t *testing.T) {
	t.Parallel()

	s := NewProxySelector([]Proxy{
		{Protocol: "https", Host: "proxy.example.com", Port: 3128},
	})

	if p := s.Select("https", "repo.maven.org"); p == nil {
		t.Error("https should select the proxy")
	}
	if p := s.Select("HTTPS", "repo.maven.org"); p == nil {
		t.Error("protocol comparison should be case-insensitive")
	}
	if p := s.Select("http", "repo.maven.org"); p != nil {
		t.Errorf("http should not select an https proxy, got %q", p.Host)
	}
}

func TestProxySelectorNonProxyHosts(t *testing.T) {
	t.Parallel()

	s := NewProxySelector([]Proxy{
		{Protocol: "https", Host: "proxy.example.com", Port: 3128,
			NonProxyHosts: "*.internal.example.com"},
	})

	if p := s.Select("https", "build.internal.example.com"); p != nil {
		t.Errorf("build.internal.example.com should be excluded, got %q", p.Host)
	}
	if p := s.Select("https", "build.example.com"); p == nil {
		t.Error("build.example.com should not be excluded")
	}
}

func TestProxySelectorNonProxyHostsSeparators(t *testing.T) {
	t.Parallel()

	// "|" and "," both separate patterns; exact matches are
	// case-insensitive
	s := NewProxySelector([]Proxy{
		{Protocol: "http", Host: "proxy.example.com", Port: 8080,
			NonProxyHosts: "localhost|*.corp.example.com,repo.internal"},
	})

	for _, host := range []string{"localhost", "nexus.corp.example.com", "repo.internal", "REPO.INTERNAL"} {
		if p := s.Select("http", host); p != nil {
			t.Errorf("host %q should be excluded, got proxy %q", host, p.Host)
		}
	}
	for _, host := range []string{"corp.example.com", "repo.internal.example.com", "example.com"} {
		if p := s.Select("http", host); p == nil {
			t.Errorf("host %q should not be excluded", host)
		}
	}
}

func TestProxySelectorFirstEligibleWins(t *testing.T) {
	t.Parallel()

	s := NewProxySelector([]Proxy{
		{Protocol: "http", Host: "first.example.com", Port: 8080, NonProxyHosts: "*.skip.example.com"},
		{Protocol: "http", Host: "second.example.com", Port: 8080},
	})

	p := s.Select("http", "repo.maven.org")
	if p == nil {
		t.Fatal("no proxy selected")
	}
	if p.Host != "first.example.com" {
		t.Errorf("selected %q, want first registered", p.Host)
	}

	// first proxy excludes the host, so the second becomes eligible
	p = s.Select("http", "build.skip.example.com")
	if p == nil {
		t.Fatal("no proxy selected for excluded host")
	}
	if p.Host != "second.example.com" {
		t.Errorf("selected %q, want second proxy", p.Host)
	}
}

func TestProxySelectorNoProxies(t *testing.T) {
	t.Parallel()

	s := NewProxySelector(nil)
	if p := s.Select("https", "repo.maven.org"); p != nil {
		t.Errorf("empty selector returned %q", p.Host)
	}
}
