package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Frost26/ShellGateway/internal/clog"
)

// Validate checks a parsed Config. Empty fields are accepted; they are
// filled from the defaults at load time.
func Validate(cfg *Config) error {
	e := cfg.Executor

	defaultTimeout, err := parseDuration(e.DefaultTimeout, "executor.default_timeout", false)
	if err != nil {
		return err
	}
	maxTimeout, err := parseDuration(e.MaxTimeout, "executor.max_timeout", false)
	if err != nil {
		return err
	}
	if defaultTimeout > 0 && maxTimeout > 0 && maxTimeout < defaultTimeout {
		return fmt.Errorf("executor.max_timeout: %s is less than executor.default_timeout %s", maxTimeout, defaultTimeout)
	}
	if _, err := parseDuration(e.CacheMaxAge, "executor.cache_max_age", true); err != nil {
		return err
	}
	if _, err := parseDuration(e.KillGrace, "executor.kill_grace", false); err != nil {
		return err
	}
	if e.MaxOutputSize < 0 {
		return fmt.Errorf("executor.max_output_size: must be positive, got %d", e.MaxOutputSize)
	}
	if err := validateNames(e.LongRunningCommands, "executor.long_running_commands"); err != nil {
		return err
	}
	if err := validateNames(e.CacheableCommands, "executor.cacheable_commands"); err != nil {
		return err
	}

	if _, err := clog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// parseDuration parses s if set. Zero is only accepted when allowZero is
// true; negative values never are.
func parseDuration(s, field string, allowZero bool) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, s, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, s)
	}
	return d, nil
}

func validateNames(names []string, field string) error {
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%s[%d]: empty command name", field, i)
		}
		if strings.ContainsAny(n, " \t") {
			return fmt.Errorf("%s[%d]: %q is not a single command name", field, i, n)
		}
	}
	return nil
}
