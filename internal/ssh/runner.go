package ssh

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/yoanbernabeu/sshrun/internal/constants"
)

// ExecRunner starts real processes with os/exec
type ExecRunner struct {
	waitDelay time.Duration
}

// NewExecRunner creates a runner using constants.KillWaitDelay
func NewExecRunner() *ExecRunner {
	return &ExecRunner{waitDelay: constants.KillWaitDelay}
}

// Start launches inv with stdout and stderr captured in memory.
// Stdin is not connected.
func (r *ExecRunner) Start(inv Invocation) (Process, error) {
	cmd := exec.Command(inv.Program, inv.Args...)

	p := &execProcess{cmd: cmd}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	// A grandchild (ssh under sh or sshpass) may keep the pipes open after
	// the direct child is gone; do not let it block Wait forever.
	cmd.WaitDelay = r.waitDelay

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	exited atomic.Bool
}

func (p *execProcess) Wait() (ProcessResult, error) {
	err := p.cmd.Wait()
	p.exited.Store(true)

	result := ProcessResult{
		Stdout:   p.stdout.Bytes(),
		Stderr:   p.stderr.Bytes(),
		ExitCode: -1,
	}
	if p.cmd.ProcessState != nil {
		result.ExitCode = p.cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		// Non-zero exit or killed by a signal
		return result, nil
	case errors.Is(err, exec.ErrWaitDelay):
		// Exited, but a leftover process held the output pipes
		return result, nil
	default:
		return result, err
	}
}

func (p *execProcess) Kill() error {
	if p.exited.Load() || p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
