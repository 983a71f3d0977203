package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
	"github.com/Frost26/ShellGateway/internal/term"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run commands interactively",
	Long: `Read commands line by line and run each one through the executor.

"cd PATH" and "pwd" change and print the gateway's current directory, just as
the change_directory and get_current_directory tools do; "cd" alone goes to
the home directory. "exit" or end of input leaves the shell. Ctrl-C stops the
running command, not the shell.

A prompt is printed only when input is a terminal, so commands can also be
piped in.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
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

	in := cmd.InOrStdin()
	interactive := term.IsTerminal(in)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	last := 0
	for {
		if interactive {
			term.Printf("%s $ ", exec.Dir())
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		res := runShellLine(cmd.Context(), exec, line)
		term.Println(res.Output)
		last = 0
		if res.Failed {
			last = exitCodeFor(res.ExitCode)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if interactive {
		term.Println()
	}
	if last != 0 {
		return NewExitCodeError(last)
	}
	return nil
}

// runShellLine handles the cd and pwd builtins and runs anything else. An
// interrupt during the command cancels only that command.
func runShellLine(parent context.Context, exec *executor.Executor, line string) executor.Result {
	switch {
	case line == "pwd":
		return exec.CurrentDirectory()
	case line == "cd":
		return exec.ChangeDirectory("~")
	case strings.HasPrefix(line, "cd "):
		return exec.ChangeDirectory(unquote(strings.TrimSpace(line[3:])))
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	clog.Debug("shell: %s", line)
	return exec.Execute(ctx, executor.Request{Command: line})
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
