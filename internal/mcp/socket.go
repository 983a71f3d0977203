package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
)

// DefaultSocketPath returns the socket path used when none is configured.
func DefaultSocketPath() string {
	return filepath.Join(clog.StateDir(), "gateway.sock")
}

// ExecutorFactory creates the executor for a new connection.
type ExecutorFactory func() (*executor.Executor, error)

// SocketServer serves the tool protocol on a Unix socket. Each connection
// is its own Session with its own Executor, so current directories are
// per client; the factory decides what the executors share.
type SocketServer struct {
	socketPath  string
	newExecutor ExecutorFactory

	listener net.Listener
	wg       sync.WaitGroup
	shutdown chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	conns    map[net.Conn]struct{}
	mu       sync.Mutex // protects listener, conns and shutdown state
}

// NewSocketServer creates a SocketServer listening at socketPath.
func NewSocketServer(socketPath string, newExecutor ExecutorFactory) *SocketServer {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SocketServer{
		socketPath:  socketPath,
		newExecutor: newExecutor,
		shutdown:    make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		conns:       make(map[net.Conn]struct{}),
	}
}

// Start begins listening. It creates the parent directory, replaces a
// stale socket file and restricts the socket to the owner.
func (s *SocketServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	s.listener = listener
	clog.Info("mcp: listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every open connection, stops running
// commands, and waits for the handlers to return.
func (s *SocketServer) Stop() error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		return nil
	default:
	}
	close(s.shutdown)
	err := s.listener.Close()
	s.cancel()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	os.Remove(s.socketPath)
	clog.Info("mcp: socket server stopped")
	return err
}

// Done is closed when Stop has been called.
func (s *SocketServer) Done() <-chan struct{} {
	return s.shutdown
}

// SocketPath returns the path to the Unix socket.
func (s *SocketServer) SocketPath() string {
	return s.socketPath
}

func (s *SocketServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				clog.Warn("mcp: accept: %v", err)
				continue
			}
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// track registers conn unless the server is shutting down.
func (s *SocketServer) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdown:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *SocketServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	exec, err := s.newExecutor()
	if err != nil {
		clog.Error("mcp: create executor: %v", err)
		return
	}

	clog.Debug("mcp: connection opened")
	if err := NewSession(exec).Serve(s.ctx, conn, conn); err != nil && s.ctx.Err() == nil {
		clog.Warn("mcp: session ended: %v", err)
	}
	clog.Debug("mcp: connection closed")
}
