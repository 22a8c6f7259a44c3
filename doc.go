/*
Package resolvectl builds the configuration session that a dependency
resolution engine uses to fetch artifacts from remote repositories.

resolvectl turns a build request's raw settings (local repository path,
mirrors, proxies, server credentials, checksum/update/cache policies)
into queryable selector structures and a merged property bag:
  - Mirror selection with a small pattern language (ids, "*",
    "external:*", "!id")
  - Proxy selection with nonProxyHosts exclusion patterns
  - Per-server authentication binding
  - Resolution error and update policy derivation
  - Mirror/proxy/authentication injection into repository lists

The main packages are:

	github.com/resolvectl/resolvectl/internal/resolve   - Session core and selectors
	github.com/resolvectl/resolvectl/internal/settings  - TOML settings and credential decryption
	github.com/resolvectl/resolvectl/cmd/resolvectl     - Command-line interface
*/
package resolvectl
