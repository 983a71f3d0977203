// Package config loads the gateway configuration file.
package config

// Config is the top-level configuration file.
type Config struct {
	Executor ExecutorConfig `yaml:"executor,omitempty" toml:"executor,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty" toml:"server,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty" toml:"log,omitempty"`
	Audit    AuditConfig    `yaml:"audit,omitempty" toml:"audit,omitempty"`
}

// ExecutorConfig holds command execution limits. Durations are Go
// duration strings ("30s", "5m").
type ExecutorConfig struct {
	Shell          string `yaml:"shell,omitempty" toml:"shell,omitempty"`
	DefaultTimeout string `yaml:"default_timeout,omitempty" toml:"default_timeout,omitempty"`
	MaxTimeout     string `yaml:"max_timeout,omitempty" toml:"max_timeout,omitempty"`
	MaxOutputSize  int    `yaml:"max_output_size,omitempty" toml:"max_output_size,omitempty"`
	// CacheMaxAge of "0s" disables the result cache.
	CacheMaxAge string `yaml:"cache_max_age,omitempty" toml:"cache_max_age,omitempty"`
	KillGrace   string `yaml:"kill_grace,omitempty" toml:"kill_grace,omitempty"`

	LongRunningCommands []string `yaml:"long_running_commands,omitempty" toml:"long_running_commands,omitempty"`
	CacheableCommands   []string `yaml:"cacheable_commands,omitempty" toml:"cacheable_commands,omitempty"`
}

// ServerConfig configures `serve`.
type ServerConfig struct {
	// Socket is the Unix socket path used by `serve --socket` when the flag
	// has no value.
	Socket string `yaml:"socket,omitempty" toml:"socket,omitempty"`
}

// LogConfig configures the diagnostic log.
type LogConfig struct {
	File  string `yaml:"file,omitempty" toml:"file,omitempty"`
	Level string `yaml:"level,omitempty" toml:"level,omitempty"`
}

// AuditConfig configures the command audit log. An empty File disables it.
type AuditConfig struct {
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}
