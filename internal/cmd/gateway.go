package cmd

import (
	"fmt"

	"github.com/Frost26/ShellGateway/internal/audit"
	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
)

// gateway holds what every executor built by one command shares.
type gateway struct {
	settings executor.Config
	cache    *executor.ResultCache
	audit    *audit.Logger
}

// newGateway builds the shared pieces from the loaded configuration. The
// returned gateway must be closed.
func newGateway() (*gateway, error) {
	settings, err := cfg.ExecutorSettings()
	if err != nil {
		return nil, err
	}
	g := &gateway{
		settings: settings,
		cache:    executor.NewResultCache(settings.CacheMaxAge, settings.CacheableCommands),
	}

	if cfg.Audit.File != "" {
		f, err := clog.OpenLogFile(cfg.Audit.File)
		if err != nil {
			return nil, fmt.Errorf("open audit log %s: %w", cfg.Audit.File, err)
		}
		g.audit = audit.NewLogger(f)
		clog.Info("audit logging enabled: %s", cfg.Audit.File)
	}
	return g, nil
}

// newExecutor creates an executor sharing the gateway cache and audit log.
// dir, when set, is the starting directory.
func (g *gateway) newExecutor(dir string) (*executor.Executor, error) {
	opts := []executor.Option{
		executor.WithCache(g.cache),
		executor.WithAuditLogger(g.audit),
	}
	if dir != "" {
		opts = append(opts, executor.WithInitialDirectory(dir))
	}
	exec, err := executor.New(g.settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("create executor: %w", err)
	}
	return exec, nil
}

func (g *gateway) Close() error {
	if g.audit != nil {
		return g.audit.Close()
	}
	return nil
}
