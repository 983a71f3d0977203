package config

import (
	"github.com/Frost26/ShellGateway/internal/executor"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	def := executor.DefaultConfig()
	return &Config{
		Executor: ExecutorConfig{
			Shell:               def.Shell,
			DefaultTimeout:      "30s",
			MaxTimeout:          "5m",
			MaxOutputSize:       def.MaxOutputSize,
			CacheMaxAge:         "60s",
			KillGrace:           "1s",
			LongRunningCommands: def.LongRunningCommands,
			CacheableCommands:   def.CacheableCommands,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills every unset field from Default. An explicitly empty
// command list in the file is kept; a missing one takes the defaults.
func applyDefaults(cfg *Config) {
	def := Default()
	e := &cfg.Executor
	if e.Shell == "" {
		e.Shell = def.Executor.Shell
	}
	if e.DefaultTimeout == "" {
		e.DefaultTimeout = def.Executor.DefaultTimeout
	}
	if e.MaxTimeout == "" {
		e.MaxTimeout = def.Executor.MaxTimeout
	}
	if e.MaxOutputSize == 0 {
		e.MaxOutputSize = def.Executor.MaxOutputSize
	}
	if e.CacheMaxAge == "" {
		e.CacheMaxAge = def.Executor.CacheMaxAge
	}
	if e.KillGrace == "" {
		e.KillGrace = def.Executor.KillGrace
	}
	if e.LongRunningCommands == nil {
		e.LongRunningCommands = def.Executor.LongRunningCommands
	}
	if e.CacheableCommands == nil {
		e.CacheableCommands = def.Executor.CacheableCommands
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
