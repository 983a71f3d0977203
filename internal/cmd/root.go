// Package cmd implements the shellgateway CLI.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/config"
	"github.com/Frost26/ShellGateway/internal/term"
	"github.com/Frost26/ShellGateway/internal/version"
)

// Persistent flag values.
var (
	configPath string
	debug      bool
	logFile    string
	silent     bool
)

// cfg is the configuration loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "shellgateway",
	Short: "Run shell commands for LLM tool clients",
	Long: `shellgateway runs shell commands on this host on behalf of a tool-calling
client and returns their output, exit code and working directory.

Each command runs through the configured shell in its own process group with
a time limit (longer for search, archive, copy and package tools) and a
per-stream output limit. A timed-out command is terminated, then killed,
together with everything it started. Successful results of read-only commands
such as pwd and ls are reused for a short time.

Use "serve" to speak the tool protocol on stdin/stdout or a Unix socket, or
"exec" and "shell" to run commands directly.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetVersionTemplate(version.String() + "\n")
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shellgateway/config.yaml)")
	flags.BoolVar(&debug, "debug", false, "log at debug level")
	flags.StringVar(&logFile, "log-file", "", "diagnostic log file (default $XDG_STATE_HOME/shellgateway/shellgateway.log)")
	flags.BoolVarP(&silent, "silent", "s", false, "suppress informational output")
}

// setup loads the configuration and configures logging. serve switches the
// logger to daemon mode itself.
func setup(cmd *cobra.Command, args []string) error {
	term.SetSilent(silent)

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := clog.Effective(cfg.Log.Level, debug)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	path := logFile
	if path == "" {
		path = cfg.Log.File
	}
	if path == "" {
		path = clog.DefaultLogPath()
	}
	if err := clog.Configure(level, path, false); err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	clog.RedirectStdLog()
	clog.Debug("%s starting: %s", version.String(), cmd.CommandPath())
	return nil
}

// Execute runs the root command and returns any error. Errors other than
// an ExitCodeError are printed to stderr.
func Execute() error {
	defer clog.Close()

	err := rootCmd.Execute()
	if err != nil && !isExitCode(err) {
		term.Error("%v", err)
	}
	return err
}
