package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/pathutil"
)

// Load reads the configuration file at path, or DefaultPath when path is
// empty. A missing file yields Default(). The result is validated, has its
// unset fields filled and its paths expanded.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = pathutil.ExpandHome(path)
	clog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clog.Debug("config: %s not found, using defaults", path)
			cfg := Default()
			expandPaths(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := parseFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	applyDefaults(cfg)
	expandPaths(cfg)
	return cfg, nil
}

func expandPaths(cfg *Config) {
	cfg.Executor.Shell = pathutil.ExpandHome(cfg.Executor.Shell)
	cfg.Server.Socket = pathutil.ExpandPath(cfg.Server.Socket)
	cfg.Log.File = pathutil.ExpandPath(cfg.Log.File)
	cfg.Audit.File = pathutil.ExpandPath(cfg.Audit.File)
}
