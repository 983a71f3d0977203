//go:build e2e

package e2e

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// gatewayEnv returns an environment with HOME and the XDG directories
// isolated under a temp directory, plus a config file written from cfg.
func gatewayEnv(t *testing.T, cfg string) (env []string, home string) {
	t.Helper()
	home = t.TempDir()
	configDir := filepath.Join(home, ".config", "shellgateway")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if cfg != "" {
		if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(cfg), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_STATE_HOME="+filepath.Join(home, ".local", "state"),
	)
	return env, home
}

// rpcClient speaks newline-delimited JSON-RPC to `shellgateway serve`
// over its stdio or a socket connection.
type rpcClient struct {
	stdin  io.WriteCloser
	reader *bufio.Reader
	nextID int
}

// startStdio runs `shellgateway serve` and connects to its stdin and stdout.
func startStdio(t *testing.T, env []string) *rpcClient {
	t.Helper()
	cmd := exec.Command(binaryPath, "serve")
	cmd.Env = env
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start serve: %v", err)
	}

	c := &rpcClient{stdin: stdin, reader: bufio.NewReader(stdout)}
	t.Cleanup(func() {
		stdin.Close()
		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = cmd.Process.Kill()
			t.Error("serve did not exit after stdin closed")
		}
	})
	return c
}

type reply struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func (c *rpcClient) call(t *testing.T, method string, params any) reply {
	t.Helper()
	c.nextID++
	msg := map[string]any{"jsonrpc": "2.0", "id": c.nextID, "method": method}
	if params != nil {
		msg["params"] = params
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.stdin.Write(append(data, '\n')); err != nil {
		t.Fatalf("write request: %v", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var r reply
	if err := json.Unmarshal(line, &r); err != nil {
		t.Fatalf("response %q: %v", line, err)
	}
	if r.ID != c.nextID {
		t.Fatalf("response id = %d, want %d", r.ID, c.nextID)
	}
	return r
}

// initialize performs the protocol handshake.
func (c *rpcClient) initialize(t *testing.T) {
	t.Helper()
	r := c.call(t, "initialize", map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "e2e", "version": "1"},
	})
	if r.Error != nil {
		t.Fatalf("initialize: %s", r.Error.Message)
	}
	if _, err := c.stdin.Write([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")); err != nil {
		t.Fatalf("write initialized: %v", err)
	}
}

func (c *rpcClient) tool(t *testing.T, name string, args map[string]any) toolResult {
	t.Helper()
	r := c.call(t, "tools/call", map[string]any{"name": name, "arguments": args})
	if r.Error != nil {
		t.Fatalf("tools/call %s: %s", name, r.Error.Message)
	}
	var res toolResult
	if err := json.Unmarshal(r.Result, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("tools/call %s returned %d content blocks", name, len(res.Content))
	}
	return res
}
