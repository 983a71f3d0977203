package config

import (
	"fmt"
	"time"

	"github.com/Frost26/ShellGateway/internal/executor"
)

// ExecutorSettings converts the executor section into executor limits.
// It expects a Config returned by Load, with defaults applied.
func (c *Config) ExecutorSettings() (executor.Config, error) {
	e := c.Executor
	var out executor.Config
	var err error

	out.Shell = e.Shell
	if out.DefaultTimeout, err = durationField(e.DefaultTimeout, "executor.default_timeout"); err != nil {
		return executor.Config{}, err
	}
	if out.MaxTimeout, err = durationField(e.MaxTimeout, "executor.max_timeout"); err != nil {
		return executor.Config{}, err
	}
	if out.CacheMaxAge, err = durationField(e.CacheMaxAge, "executor.cache_max_age"); err != nil {
		return executor.Config{}, err
	}
	if out.KillGrace, err = durationField(e.KillGrace, "executor.kill_grace"); err != nil {
		return executor.Config{}, err
	}
	out.MaxOutputSize = e.MaxOutputSize
	out.LongRunningCommands = append([]string(nil), e.LongRunningCommands...)
	out.CacheableCommands = append([]string(nil), e.CacheableCommands...)
	if e.LongRunningCommands != nil && out.LongRunningCommands == nil {
		out.LongRunningCommands = []string{}
	}
	if e.CacheableCommands != nil && out.CacheableCommands == nil {
		out.CacheableCommands = []string{}
	}
	return out, nil
}

func durationField(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
