package config

import (
	"fmt"
	"os"

	"github.com/Frost26/ShellGateway/internal/pathutil"
)

// Dir returns the configuration directory, $XDG_CONFIG_HOME/shellgateway/
// or ~/.config/shellgateway/. The returned path has a trailing slash.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "~/.config"
	}
	return pathutil.ExpandHome(base) + "/shellgateway/"
}

// EnsureDir creates the configuration directory with 0700 permissions.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return Dir() + "config.yaml"
}
