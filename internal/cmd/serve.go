package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
	"github.com/Frost26/ShellGateway/internal/mcp"
)

var serveSocket string

// socketFlagDefault marks --socket given without a value.
const socketFlagDefault = "-"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool protocol",
	Long: `Serve execute_command, change_directory and get_current_directory as
JSON-RPC tools.

By default the protocol runs on stdin/stdout for a single client, and
diagnostic logs go only to the log file. With --socket the server listens on
a Unix socket instead; each connection gets its own current directory and all
connections share the result cache. --socket without a value uses
server.socket from the config file, or $XDG_STATE_HOME/shellgateway/gateway.sock.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSocket, "socket", "", "listen on a Unix socket at `PATH`")
	serveCmd.Flags().Lookup("socket").NoOptDefVal = socketFlagDefault
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := newGateway()
	if err != nil {
		return err
	}
	defer g.Close()

	if serveSocket != "" {
		return serveSocketServer(ctx, g, resolveSocketPath(serveSocket))
	}

	// stdout carries the protocol; keep stderr quiet too.
	clog.SetDaemonMode(true)
	exec, err := g.newExecutor("")
	if err != nil {
		return err
	}
	clog.Info("serving on stdio from %s", exec.Dir())
	if err := mcp.NewSession(exec).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	clog.Info("stdio session ended")
	return nil
}

func resolveSocketPath(flag string) string {
	if flag != socketFlagDefault {
		return flag
	}
	if cfg.Server.Socket != "" {
		return cfg.Server.Socket
	}
	return mcp.DefaultSocketPath()
}

func serveSocketServer(ctx context.Context, g *gateway, path string) error {
	server := mcp.NewSocketServer(path, func() (*executor.Executor, error) {
		return g.newExecutor("")
	})
	if err := server.Start(); err != nil {
		return fmt.Errorf("start socket server: %w", err)
	}
	clog.Info("listening on %s", server.SocketPath())

	<-ctx.Done()
	clog.Info("shutting down socket server")
	if err := server.Stop(); err != nil {
		clog.Warn("socket server shutdown: %v", err)
	}
	return nil
}
