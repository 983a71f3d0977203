package executor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Frost26/ShellGateway/internal/pathutil"
)

// Sentinel errors for request validation.
var (
	ErrEmptyCommand      = errors.New("command is empty")
	ErrEmptyPath         = errors.New("path is empty")
	ErrDirectoryNotFound = errors.New("directory does not exist")
	ErrNotDirectory      = errors.New("not a directory")
)

// checkCommand rejects commands that are empty or only whitespace.
func checkCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}
	return nil
}

// resolveDirectory expands ~ and environment variables in p and makes it
// absolute. Relative paths are joined to base; with an empty base they are
// resolved against the process working directory.
func resolveDirectory(p, base string) (string, error) {
	expanded := pathutil.ExpandPath(p)
	if expanded == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	if base == "" {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		return abs, nil
	}
	return filepath.Join(base, expanded), nil
}

// checkDirectory verifies that dir exists and is a directory.
func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}

// probeReadable lists one entry of dir to confirm it can be read.
func probeReadable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// directoryMessage renders a directory validation error for the caller.
func directoryMessage(dir string, err error) string {
	switch {
	case errors.Is(err, ErrDirectoryNotFound):
		return fmt.Sprintf("Error: Directory '%s' does not exist", dir)
	case errors.Is(err, ErrNotDirectory):
		return fmt.Sprintf("Error: '%s' is not a directory", dir)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("Error: Permission denied accessing '%s'", dir)
	case errors.Is(err, ErrEmptyPath):
		return "Error: Path cannot be empty"
	default:
		return fmt.Sprintf("Error accessing directory '%s': %v", dir, err)
	}
}
