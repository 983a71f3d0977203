package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Frost26/ShellGateway/internal/executor"
	"github.com/Frost26/ShellGateway/internal/testutil"
)

func startTestServer(t *testing.T, runner executor.Runner) (*SocketServer, string) {
	t.Helper()
	testutil.CaptureLogs(t)

	dir := testutil.ShortTempDir(t)
	cache := executor.NewResultCache(time.Minute, executor.DefaultCacheableCommands)
	factory := func() (*executor.Executor, error) {
		return executor.New(executor.DefaultConfig(),
			executor.WithRunner(runner),
			executor.WithCache(cache),
			executor.WithInitialDirectory(dir),
		)
	}

	server := NewSocketServer(filepath.Join(dir, "gw.sock"), factory)
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = server.Stop() })
	return server, dir
}

// dial connects an SDK client to the socket server.
func dial(t *testing.T, path string) *sdk.ClientSession {
	t.Helper()
	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	cs, err := sdk.NewClient(testClient, nil).Connect(context.Background(), &sdk.IOTransport{Reader: conn, Writer: conn}, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestSocketServer_StartStop(t *testing.T) {
	server, _ := startTestServer(t, &countingRunner{})

	info, err := os.Stat(server.SocketPath())
	if err != nil {
		t.Fatalf("socket not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("socket permissions = %o, want 600", perm)
	}

	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if _, err := os.Stat(server.SocketPath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("socket file not removed after Stop()")
	}
	select {
	case <-server.Done():
	default:
		t.Error("Done() not closed after Stop()")
	}
	if err := server.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestSocketServer_CreatesDirectory(t *testing.T) {
	testutil.CaptureLogs(t)

	path := filepath.Join(testutil.ShortTempDir(t), "a", "b", "gw.sock")
	server := NewSocketServer(path, func() (*executor.Executor, error) { return nil, errors.New("unused") })
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer server.Stop()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("socket not created in nested directory: %v", err)
	}
}

func TestSocketServer_PerConnectionDirectory(t *testing.T) {
	server, dir := startTestServer(t, &countingRunner{})

	a := dial(t, server.SocketPath())
	b := dial(t, server.SocketPath())

	if text, isErr := callText(t, a, ToolChangeDirectory, map[string]any{"path": "/"}); isErr {
		t.Fatalf("change_directory = %q", text)
	}

	if text, _ := callText(t, a, ToolGetCurrentDirectory, nil); text != "Current directory: /" {
		t.Errorf("client a = %q", text)
	}
	if text, _ := callText(t, b, ToolGetCurrentDirectory, nil); text != "Current directory: "+dir {
		t.Errorf("client b = %q, want unaffected by client a", text)
	}
}

func TestSocketServer_SharedCache(t *testing.T) {
	runner := &countingRunner{}
	server, _ := startTestServer(t, runner)

	a := dial(t, server.SocketPath())
	b := dial(t, server.SocketPath())

	callText(t, a, ToolExecuteCommand, map[string]any{"command": "pwd"})
	text, _ := callText(t, b, ToolExecuteCommand, map[string]any{"command": "pwd"})

	if !strings.HasSuffix(text, executor.CacheMarker) {
		t.Errorf("second client output = %q, want cache marker", text)
	}
	if runner.count() != 1 {
		t.Errorf("runner called %d times, want 1", runner.count())
	}
}

func TestSocketServer_MultipleConnections(t *testing.T) {
	runner := &countingRunner{}
	server, _ := startTestServer(t, runner)

	const n = 5
	var wg sync.WaitGroup
	errs := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("unix", server.SocketPath())
			if err != nil {
				errs <- err.Error()
				return
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			cs, err := sdk.NewClient(testClient, nil).Connect(ctx, &sdk.IOTransport{Reader: conn, Writer: conn}, nil)
			if err != nil {
				errs <- err.Error()
				return
			}
			defer cs.Close()

			res, err := cs.CallTool(ctx, &sdk.CallToolParams{
				Name:      ToolExecuteCommand,
				Arguments: map[string]any{"command": fmt.Sprintf("echo hi %d", i)},
			})
			if err != nil {
				errs <- err.Error()
				return
			}
			text, ok := res.Content[0].(*sdk.TextContent)
			if !ok || !strings.Contains(text.Text, fmt.Sprintf("echo hi %d", i)) {
				errs <- fmt.Sprintf("unexpected result: %+v", res.Content)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
	if runner.count() != n {
		t.Errorf("runner called %d times, want %d", runner.count(), n)
	}
}

func TestSocketServer_StopClosesIdleConnections(t *testing.T) {
	server, _ := startTestServer(t, &countingRunner{})
	cs := dial(t, server.SocketPath())

	// Make sure the handler is running before stopping.
	if err := cs.Ping(context.Background(), nil); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- server.Stop() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() blocked on an idle connection")
	}

	closed := make(chan struct{})
	go func() {
		_ = cs.Wait()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Error("client session still open after Stop()")
	}
}
