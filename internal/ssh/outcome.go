package ssh

import (
	"time"

	"github.com/yoanbernabeu/sshrun/internal/constants"
)

// OutcomeKind is the terminal state of one invocation
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRemoteFailure
	OutcomeSpawnFailure
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRemoteFailure:
		return "remote failure"
	case OutcomeSpawnFailure:
		return "spawn failure"
	case OutcomeTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Outcome is the result of one invocation. It is never retried.
type Outcome struct {
	Kind OutcomeKind
	// Stdout and Stderr hold the full captured output of the process
	Stdout string
	Stderr string
	// ExitCode is the process exit code, -1 when unknown
	ExitCode int
	Duration time.Duration

	err error
}

// Success reports whether the remote command exited 0
func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

// Err returns a *RemoteExecutionError, *SpawnError or *TimeoutError
// for the failure kinds, and nil on success.
func (o Outcome) Err() error {
	return o.err
}

// Output returns what should be shown to an operator: stdout on success,
// stderr otherwise.
func (o Outcome) Output() string {
	if o.Kind == OutcomeSuccess {
		return o.Stdout
	}
	return o.Stderr
}

// ExitStatus maps the outcome to a shell-style exit status:
// 0 on success, the remote exit code (or 1) on failure, 127 when the
// process could not start, 124 on timeout.
func (o Outcome) ExitStatus() int {
	switch o.Kind {
	case OutcomeSuccess:
		return constants.ExitSuccess
	case OutcomeSpawnFailure:
		return constants.ExitSpawnFailure
	case OutcomeTimedOut:
		return constants.ExitTimedOut
	default:
		if o.ExitCode > 0 {
			return o.ExitCode
		}
		return constants.ExitRemoteFailure
	}
}
