package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDefault writes the commented default configuration to path, or to
// DefaultPath when path is empty. An existing file is left untouched and
// reported through the returned bool.
func WriteDefault(path string) (created bool, err error) {
	if path == "" {
		if err := EnsureDir(); err != nil {
			return false, err
		}
		path = DefaultPath()
	} else if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}

	_, err = os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}

const defaultConfigTemplate = `# shellgateway configuration
# Durations use Go syntax: 500ms, 30s, 5m.

executor:
  # Interpreter invoked as "<shell> -c <command>".
  shell: /bin/sh

  # Limit for ordinary commands.
  default_timeout: 30s

  # Limit for commands that name a long-running utility anywhere in the
  # command line (after pipes, &&, ; and so on).
  max_timeout: 5m

  # Characters kept per stream; the rest is replaced by a truncation notice.
  max_output_size: 50000

  # How long successful results of cacheable commands are reused.
  # 0s disables the cache.
  cache_max_age: 60s

  # Wait between the termination and kill signals on timeout.
  kill_grace: 1s

  long_running_commands:
    - find
    - grep
    - rg
    - locate
    - du
    - tar
    - zip
    - unzip
    - gzip
    - gunzip
    - xz
    - 7z
    - rsync
    - scp
    - cp
    - mv
    - dd
    - wget
    - curl
    - git
    - apt
    - apt-get
    - yum
    - dnf
    - pip
    - npm
    - make
    - docker

  # Only the first word of a command is checked.
  cacheable_commands:
    - pwd
    - ls
    - whoami
    - id
    - hostname
    - uname
    - which
    - df

server:
  # Default socket for "serve --socket".
  # socket: ~/.local/state/shellgateway/gateway.sock

log:
  # debug, info, warn, error
  level: info
  # file: ~/.local/state/shellgateway/shellgateway.log

audit:
  # One line per command event. Empty disables the audit log.
  # file: ~/.local/state/shellgateway/audit.log
`
