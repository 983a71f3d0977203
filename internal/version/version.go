// Package version provides version information for shellgateway.
// The Version variable is set at build time via ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the current version of shellgateway.
// Set at build time via: -ldflags "-X github.com/Frost26/ShellGateway/internal/version.Version=v1.0.0"
// Defaults to "dev" for development builds.
var Version = "dev"

// Name is the server name reported to protocol clients.
const Name = "shellgateway"

// String returns the version line printed by --version.
func String() string {
	s := fmt.Sprintf("%s %s (%s, %s/%s)", Name, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if rev := revision(); rev != "" {
		s += " " + rev
	}
	return s
}

// revision returns the short VCS revision embedded by the Go toolchain.
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 12 {
			return setting.Value[:12]
		}
	}
	return ""
}
