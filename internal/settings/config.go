package settings

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/resolvectl/resolvectl/internal/resolve"
)

type tomlURL struct {
	*url.URL
}

func (u *tomlURL) UnmarshalText(text []byte) error {
	parsedURL, err := url.Parse(string(text))
	if err != nil {
		return err
	}
	switch parsedURL.Scheme {
	case "http", "https", "file":
	default:
		return errors.New("unsupported scheme: " + parsedURL.Scheme)
	}
	u.URL = parsedURL
	return nil
}

// MirrorConfig is an auxiliary struct for Config.
type MirrorConfig struct {
	ID              string  `toml:"id"`
	URL             tomlURL `toml:"url"`
	Layout          string  `toml:"layout,omitempty"`
	MirrorOf        string  `toml:"mirror-of"`
	MirrorOfLayouts string  `toml:"mirror-of-layouts,omitempty"`
}

// Check validates a mirror entry.
func (mirrorConfig *MirrorConfig) Check() error {
	if mirrorConfig.ID == "" {
		return errors.New("mirror id is not set")
	}
	if mirrorConfig.URL.URL == nil {
		return errors.New("mirror url is not set")
	}
	if mirrorConfig.MirrorOf == "" {
		return errors.New("mirror-of is not set")
	}
	return nil
}

// ProxyConfig is an auxiliary struct for Config.
type ProxyConfig struct {
	Protocol      string `toml:"protocol"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Username      string `toml:"username,omitempty"`
	Password      string `toml:"password,omitempty"`
	NonProxyHosts string `toml:"non-proxy-hosts,omitempty"`
}

// Check validates a proxy entry.
func (proxyConfig *ProxyConfig) Check() error {
	if proxyConfig.Protocol == "" {
		return errors.New("proxy protocol is not set")
	}
	if proxyConfig.Host == "" {
		return errors.New("proxy host is not set")
	}
	if proxyConfig.Port <= 0 || proxyConfig.Port > 65535 {
		return errors.New("proxy port out of range")
	}
	return nil
}

// ServerConfig is an auxiliary struct for Config.
type ServerConfig struct {
	ID                   string         `toml:"id"`
	Username             string         `toml:"username,omitempty"`
	Password             string         `toml:"password,omitempty"`
	PrivateKey           string         `toml:"private-key,omitempty"`
	Passphrase           string         `toml:"passphrase,omitempty"`
	FilePermissions      string         `toml:"file-permissions,omitempty"`
	DirectoryPermissions string         `toml:"directory-permissions,omitempty"`
	Config               map[string]any `toml:"config,omitempty"`
}

// Check validates a server entry.
func (serverConfig *ServerConfig) Check() error {
	if serverConfig.ID == "" {
		return errors.New("server id is not set")
	}
	return nil
}

// RepositoryConfig is an auxiliary struct for Config.
type RepositoryConfig struct {
	ID     string  `toml:"id"`
	URL    tomlURL `toml:"url"`
	Layout string  `toml:"layout,omitempty"`
}

// Check validates a repository entry.
func (repositoryConfig *RepositoryConfig) Check() error {
	if repositoryConfig.ID == "" {
		return errors.New("repository id is not set")
	}
	if repositoryConfig.URL.URL == nil {
		return errors.New("repository url is not set")
	}
	return nil
}

// LogConfig represents slog configuration options.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Apply configures the global slog logger based on the configuration.
func (logConfig *LogConfig) Apply() error {
	var level slog.Level
	switch strings.ToLower(logConfig.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return errors.New("invalid log level: " + logConfig.Level)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(logConfig.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "plain", "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return errors.New("invalid log format: " + logConfig.Format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// Config is a struct to read TOML settings.
//
// Use https://github.com/BurntSushi/toml as follows:
//
//	config := settings.NewConfig()
//	md, err := toml.DecodeFile("/path/to/settings.toml", config)
//	if err != nil {
//	    ...
//	}
type Config struct {
	LocalRepository    string              `toml:"local-repository"`
	Offline            bool                `toml:"offline"`
	Interactive        bool                `toml:"interactive"`
	ChecksumPolicy     string              `toml:"checksum-policy,omitempty"`
	NoSnapshotUpdates  bool                `toml:"no-snapshot-updates"`
	UpdateSnapshots    bool                `toml:"update-snapshots"`
	CacheNotFound      bool                `toml:"cache-not-found"`
	CacheTransferError bool                `toml:"cache-transfer-error"`
	MasterKeyPath      string              `toml:"master-key-path,omitempty"`
	Log                LogConfig           `toml:"log"`
	Mirrors            []*MirrorConfig     `toml:"mirrors"`
	Proxies            []*ProxyConfig      `toml:"proxies"`
	Servers            []*ServerConfig     `toml:"servers"`
	Repositories       []*RepositoryConfig `toml:"repositories"`
	PluginRepositories []*RepositoryConfig `toml:"plugin-repositories"`
}

// NewConfig creates Config with default values.
func NewConfig() *Config {
	return &Config{
		Interactive:   true,
		CacheNotFound: true,
	}
}

// Check validates the configuration.
func (c *Config) Check() error {
	if c.LocalRepository == "" {
		return errors.New("local-repository is not set")
	}
	if !filepath.IsAbs(c.LocalRepository) {
		return errors.New("local-repository must be an absolute path")
	}
	switch c.ChecksumPolicy {
	case "", resolve.ChecksumPolicyFail, resolve.ChecksumPolicyWarn, resolve.ChecksumPolicyIgnore:
	default:
		return errors.New("invalid checksum-policy: " + c.ChecksumPolicy)
	}
	if c.MasterKeyPath != "" && !filepath.IsAbs(c.MasterKeyPath) {
		return errors.New("master-key-path must be an absolute path")
	}
	for _, mirror := range c.Mirrors {
		if err := mirror.Check(); err != nil {
			return errors.Wrap(err, "mirror "+mirror.ID)
		}
	}
	for _, proxy := range c.Proxies {
		if err := proxy.Check(); err != nil {
			return errors.Wrap(err, "proxy "+proxy.Host)
		}
	}
	for _, server := range c.Servers {
		if err := server.Check(); err != nil {
			return errors.Wrap(err, "server "+server.ID)
		}
	}
	for _, repo := range c.Repositories {
		if err := repo.Check(); err != nil {
			return errors.Wrap(err, "repository "+repo.ID)
		}
	}
	for _, repo := range c.PluginRepositories {
		if err := repo.Check(); err != nil {
			return errors.Wrap(err, "plugin repository "+repo.ID)
		}
	}
	return nil
}

// Request converts the settings into a resolution request.
func (c *Config) Request() *resolve.Request {
	req := &resolve.Request{
		LocalRepositoryPath: c.LocalRepository,
		Offline:             c.Offline,
		Interactive:         c.Interactive,
		ChecksumPolicy:      c.ChecksumPolicy,
		NoSnapshotUpdates:   c.NoSnapshotUpdates,
		UpdateSnapshots:     c.UpdateSnapshots,
		CacheNotFound:       c.CacheNotFound,
		CacheTransferError:  c.CacheTransferError,
	}
	for _, mirror := range c.Mirrors {
		req.Mirrors = append(req.Mirrors, resolve.Mirror{
			ID:              mirror.ID,
			URL:             mirror.URL.String(),
			Layout:          mirror.Layout,
			MirrorOf:        mirror.MirrorOf,
			MirrorOfLayouts: mirror.MirrorOfLayouts,
		})
	}
	for _, proxy := range c.Proxies {
		req.Proxies = append(req.Proxies, resolve.Proxy{
			Protocol: proxy.Protocol,
			Host:     proxy.Host,
			Port:     proxy.Port,
			Auth: &resolve.Authentication{
				Username: proxy.Username,
				Password: proxy.Password,
			},
			NonProxyHosts: proxy.NonProxyHosts,
		})
	}
	for _, server := range c.Servers {
		req.Servers = append(req.Servers, resolve.Server{
			ID:                   server.ID,
			Username:             server.Username,
			Password:             server.Password,
			PrivateKey:           server.PrivateKey,
			Passphrase:           server.Passphrase,
			Configuration:        server.Config,
			FilePermissions:      server.FilePermissions,
			DirectoryPermissions: server.DirectoryPermissions,
		})
	}
	req.RemoteRepositories = repositoryList(c.Repositories)
	req.PluginRepositories = repositoryList(c.PluginRepositories)
	return req
}

func repositoryList(configs []*RepositoryConfig) []*resolve.RemoteRepository {
	var repos []*resolve.RemoteRepository
	for _, config := range configs {
		layout := config.Layout
		if layout == "" {
			layout = "default"
		}
		repos = append(repos, &resolve.RemoteRepository{
			ID:     config.ID,
			URL:    config.URL.String(),
			Layout: layout,
		})
	}
	return repos
}
