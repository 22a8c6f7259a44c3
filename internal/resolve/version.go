package resolve

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
)

const (
	productName    = "Resolvectl"
	unknownVersion = "unknown-version"
)

// userAgent returns the user-agent string placed into the session
// property bag, of the form
// "Resolvectl/<version> (Go <goVersion>; <os> <arch>)".
func userAgent() string {
	return fmt.Sprintf("%s/%s (Go %s; %s %s)",
		productName, productVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// productVersion reads the module version from the build info.
// Lookup failure is non-fatal and falls back to "unknown-version".
func productVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		slog.Debug("failed to read build info for version")
		return unknownVersion
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		slog.Debug("module version not stamped in build info")
		return unknownVersion
	}
	return version
}
