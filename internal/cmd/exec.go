package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Frost26/ShellGateway/internal/executor"
	"github.com/Frost26/ShellGateway/internal/term"
)

var (
	execDir  string
	execJSON bool
)

var execCmd = &cobra.Command{
	Use:   "exec [--dir DIR] -- COMMAND...",
	Short: "Run one command and print the result",
	Long: `Run a single command with the same limits and output shaping as the
execute_command tool, print the result and exit with the command's exit code.

The arguments are joined with spaces and passed to the shell, so quote
anything the shell should see as one word:

  shellgateway exec -- 'ls -la | head'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execDir, "dir", "C", "", "working directory (default: current directory)")
	execCmd.Flags().BoolVar(&execJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := newGateway()
	if err != nil {
		return err
	}
	defer g.Close()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	exec, err := g.newExecutor(wd)
	if err != nil {
		return err
	}

	res := exec.Execute(ctx, executor.Request{
		Command:          strings.Join(args, " "),
		WorkingDirectory: execDir,
	})
	if err := printResult(res, execJSON); err != nil {
		return err
	}
	if res.Failed {
		return NewExitCodeError(exitCodeFor(res.ExitCode))
	}
	return nil
}

func printResult(res executor.Result, asJSON bool) error {
	if !asJSON {
		term.Println(res.Output)
		return nil
	}
	enc := json.NewEncoder(term.Stdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
