// Package pathutil expands user-supplied paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading ~ in path with the user's home directory.
// If the home directory cannot be determined, the path is returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ExpandEnv replaces $VAR and ${VAR} references with their values.
// References to unset variables are left as written.
func ExpandEnv(path string) string {
	return os.Expand(path, func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

// ExpandPath expands environment variables and then a leading ~.
func ExpandPath(path string) string {
	return ExpandHome(ExpandEnv(path))
}
