package ssh

import (
	"fmt"
	"strings"
	"time"
)

// SpawnError is returned when the ssh client process could not be started
// (missing executable or shell, permission denied).
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// RemoteExecutionError is returned when the process ran and exited non-zero.
// A remote command failure and an ssh connection or authentication failure
// are not told apart: both only surface as an exit code and stderr text.
type RemoteExecutionError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RemoteExecutionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return fmt.Sprintf("remote command failed (exit %d)", e.ExitCode)
	}
	return fmt.Sprintf("remote command failed (exit %d): %s", e.ExitCode, msg)
}

func (e *RemoteExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the deadline elapsed, or the caller's
// context ended, before the process completed.
type TimeoutError struct {
	Deadline time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Deadline > 0 {
		return fmt.Sprintf("ssh command timed out after %s", e.Deadline)
	}
	return fmt.Sprintf("ssh command interrupted: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
