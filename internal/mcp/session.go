package mcp

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
)

// Session serves the tool protocol for one client with its own Executor.
type Session struct {
	server *sdk.Server
}

// NewSession creates a session backed by exec.
func NewSession(exec *executor.Executor) *Session {
	return &Session{server: newServer(exec)}
}

// Serve speaks newline-delimited JSON-RPC on r and w until the client
// hangs up or ctx ends. A client closing its end is a clean shutdown and
// returns nil; cancelling ctx returns ctx.Err() and stops any running
// command. r and w are closed on return when they are closers.
func (s *Session) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	in := &eofReader{r: r}
	transport := &sdk.IOTransport{Reader: in, Writer: writeCloser(w)}

	err := s.server.Run(ctx, transport)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil && (in.seenEOF() || errors.Is(err, io.EOF)) {
		clog.Debug("mcp: client closed the session: %v", err)
		return nil
	}
	return err
}

// eofReader records whether the client closed its end.
type eofReader struct {
	r   io.Reader
	eof atomic.Bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		e.eof.Store(true)
	}
	return n, err
}

func (e *eofReader) Close() error {
	if c, ok := e.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *eofReader) seenEOF() bool {
	return e.eof.Load()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func writeCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}
