package ssh

import (
	"context"
	"time"
)

// ProcessResult is what a finished process leaves behind
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Process is a started child process
type Process interface {
	// Wait blocks until the process exits and its output is fully captured.
	// A non-zero exit is reported through ProcessResult.ExitCode, not as an error.
	Wait() (ProcessResult, error)
	// Kill forcibly terminates the process. Killing a finished process is a no-op.
	Kill() error
}

// Runner starts processes. It abstracts os/exec for testability.
type Runner interface {
	Start(inv Invocation) (Process, error)
}

// Executor runs invocations with an optional deadline and classifies
// the result. It holds no per-call state and is safe for concurrent use.
type Executor struct {
	runner Runner
}

// NewExecutor creates an executor. A nil runner selects ExecRunner.
func NewExecutor(runner Runner) *Executor {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Executor{runner: runner}
}

type waitResult struct {
	result ProcessResult
	err    error
}

// Execute starts inv and waits for it. A deadline <= 0 waits without bound.
// When the deadline elapses or ctx ends first, the process is killed and the
// outcome is OutcomeTimedOut without waiting for the process to exit.
func (e *Executor) Execute(ctx context.Context, inv Invocation, deadline time.Duration) Outcome {
	start := time.Now()

	proc, err := e.runner.Start(inv)
	if err != nil {
		return Outcome{
			Kind:     OutcomeSpawnFailure,
			ExitCode: -1,
			Duration: time.Since(start),
			err:      &SpawnError{Program: inv.Program, Err: err},
		}
	}

	var timeout <-chan time.Time
	if deadline > 0 {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		timeout = timer.C
	}

	done := make(chan waitResult, 1)
	go func() {
		res, err := proc.Wait()
		done <- waitResult{result: res, err: err}
	}()

	// The child never outlives Execute unless it already finished
	finished := false
	defer func() {
		if !finished {
			_ = proc.Kill()
		}
	}()

	select {
	case w := <-done:
		finished = true
		return classify(w, time.Since(start))
	case <-timeout:
		return timedOut(deadline, context.DeadlineExceeded, time.Since(start))
	case <-ctx.Done():
		return timedOut(0, ctx.Err(), time.Since(start))
	}
}

func classify(w waitResult, elapsed time.Duration) Outcome {
	out := Outcome{
		Stdout:   string(w.result.Stdout),
		Stderr:   string(w.result.Stderr),
		ExitCode: w.result.ExitCode,
		Duration: elapsed,
	}

	if w.err == nil && w.result.ExitCode == 0 {
		out.Kind = OutcomeSuccess
		return out
	}

	out.Kind = OutcomeRemoteFailure
	out.err = &RemoteExecutionError{
		ExitCode: w.result.ExitCode,
		Stderr:   out.Stderr,
		Err:      w.err,
	}
	return out
}

func timedOut(deadline time.Duration, cause error, elapsed time.Duration) Outcome {
	return Outcome{
		Kind:     OutcomeTimedOut,
		ExitCode: -1,
		Duration: elapsed,
		err:      &TimeoutError{Deadline: deadline, Err: cause},
	}
}
