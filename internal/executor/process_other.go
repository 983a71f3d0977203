//go:build !unix

package executor

import (
	"errors"
	"os"
	"os/exec"
)

// processSignaler stops only the direct child. Platforms without process
// groups or SIGTERM get an immediate kill for both steps.
type processSignaler struct{}

func newSignaler() signaler {
	return processSignaler{}
}

func (processSignaler) prepare(*exec.Cmd) {}

func (processSignaler) terminate(p *os.Process) error {
	return killProcess(p)
}

func (processSignaler) kill(p *os.Process) error {
	return killProcess(p)
}

func killProcess(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
