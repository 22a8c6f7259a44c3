// Package main implements the resolvectl command-line tool for
// inspecting repository resolution sessions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/resolvectl/resolvectl/internal/resolve"
	"github.com/resolvectl/resolvectl/internal/settings"
)

const (
	defaultConfigPath = "/etc/resolvectl/settings.toml"
)

var (
	// Build information - can be set via build flags
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"

	// Command-line flags
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "resolvectl",
	Short: "Inspect dependency resolution sessions",
	Long: `resolvectl assembles the resolution session a dependency engine would
use for a build: it applies mirror, proxy, and authentication rules to
the configured repositories and shows the effective endpoints.

Find more information at: https://github.com/resolvectl/resolvectl`,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	Long:  `Validate the settings file and report any issues.`,
	Run:   runValidate,
}

var effectiveCmd = &cobra.Command{
	Use:   "effective",
	Short: "Show effective repositories after injection",
	Long: `Builds a resolution session from the settings file and prints each
repository with the mirror, proxy, and authentication that would apply.

Usage:
  # Show effective repositories for the default settings
  resolvectl effective

  # Use a custom settings file
  resolvectl effective --config /path/to/settings.toml

  # Override the log level
  resolvectl effective --log-level debug

Credential values are never printed; only their presence is shown.`,
	Run: runEffective,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information including build details",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("resolvectl %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(effectiveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func loadConfig() (*settings.Config, error) {
	config := settings.NewConfig()
	md, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode "+configPath)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Newf("unknown keys in %s: %v", configPath, undecoded)
	}
	if err := config.Check(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	if logLevel != "" {
		config.Log.Level = logLevel
	}
	if err := config.Log.Apply(); err != nil {
		return nil, err
	}
	return config, nil
}

func runValidate(_ *cobra.Command, _ []string) {
	if _, err := loadConfig(); err != nil {
		slog.Error("settings validation failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("settings OK")
}

func runEffective(_ *cobra.Command, _ []string) {
	config, err := loadConfig()
	if err != nil {
		slog.Error("cannot load settings", "error", err)
		os.Exit(1)
	}

	env := &resolve.Environment{Decrypter: settings.PlainDecrypter{}}
	if config.MasterKeyPath != "" {
		decrypter, err := settings.NewPGPDecrypter(config.MasterKeyPath, nil)
		if err != nil {
			slog.Error("cannot load master key", "error", err)
			os.Exit(1)
		}
		env.Decrypter = decrypter
	}

	req := config.Request()
	session, err := resolve.NewSession(req, env)
	if err != nil {
		slog.Error("cannot build session", "error", err)
		os.Exit(1)
	}

	fmt.Printf("local repository: %s\n", session.LocalRepositoryManager.Basedir())
	if session.UpdatePolicy != "" {
		fmt.Printf("update policy: %s\n", session.UpdatePolicy)
	}
	printRepositories("repositories", req.RemoteRepositories)
	printRepositories("plugin repositories", req.PluginRepositories)
}

func printRepositories(heading string, repos []*resolve.RemoteRepository) {
	fmt.Printf("%s:\n", heading)
	for _, repo := range repos {
		fmt.Printf("  %s: %s\n", repo.ID, repo.URL)
		if repo.MirroredFrom != nil {
			fmt.Printf("    mirror of: %s (%s)\n", repo.MirroredFrom.ID, repo.MirroredFrom.URL)
		}
		if repo.Proxy != nil {
			fmt.Printf("    proxy: %s://%s:%d\n", repo.Proxy.Protocol, repo.Proxy.Host, repo.Proxy.Port)
		}
		if repo.Auth != nil {
			fmt.Printf("    authentication: %s\n", maskAuth(repo.Auth))
		}
	}
}

// maskAuth summarizes credentials without revealing their values.
func maskAuth(auth *resolve.Authentication) string {
	switch {
	case auth.PrivateKey != "":
		return auth.Username + " (private key)"
	case auth.Password != "":
		return auth.Username + " (password set)"
	default:
		return auth.Username
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
