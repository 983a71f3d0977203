//go:build unix

package executor

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// groupSignaler starts each command in its own process group and signals
// the whole group, so descendants of the shell are stopped too.
type groupSignaler struct{}

func newSignaler() signaler {
	return groupSignaler{}
}

func (groupSignaler) prepare(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func (groupSignaler) terminate(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

func (groupSignaler) kill(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

// signalGroup sends sig to the process group led by p. If the group cannot
// be signalled, it falls back to signalling p alone.
func signalGroup(p *os.Process, sig syscall.Signal) error {
	err := unix.Kill(-p.Pid, sig)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	if perr := p.Signal(sig); perr != nil && !errors.Is(perr, os.ErrProcessDone) {
		return perr
	}
	return nil
}
