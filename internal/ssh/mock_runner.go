package ssh

import (
	"errors"
	"sync"
	"time"
)

// MockRunner is a test double that records invocations and returns
// configured processes.
type MockRunner struct {
	StartFunc func(inv Invocation) (Process, error)

	mu          sync.Mutex
	invocations []Invocation
}

// Start records the invocation and delegates to StartFunc. Without a
// StartFunc it returns a process that exits 0 with no output.
func (m *MockRunner) Start(inv Invocation) (Process, error) {
	m.mu.Lock()
	m.invocations = append(m.invocations, inv)
	m.mu.Unlock()

	if m.StartFunc != nil {
		return m.StartFunc(inv)
	}
	return &MockProcess{}, nil
}

// Invocations returns the invocations started so far
func (m *MockRunner) Invocations() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Invocation(nil), m.invocations...)
}

// ErrMockKilled is returned by MockProcess.Wait after Kill
var ErrMockKilled = errors.New("signal: killed")

// MockProcess is a fake child process. It finishes after Delay with
// Result and WaitErr, or never when Hang is set, unless killed first.
type MockProcess struct {
	Result  ProcessResult
	WaitErr error
	Delay   time.Duration
	Hang    bool

	once   sync.Once
	killed chan struct{}
	mu     sync.Mutex
	kills  int
}

func (p *MockProcess) init() {
	p.once.Do(func() {
		p.killed = make(chan struct{})
	})
}

func (p *MockProcess) Wait() (ProcessResult, error) {
	p.init()

	var finish <-chan time.Time
	if !p.Hang {
		finish = time.After(p.Delay)
	}

	select {
	case <-finish:
		return p.Result, p.WaitErr
	case <-p.killed:
		return ProcessResult{ExitCode: -1}, ErrMockKilled
	}
}

func (p *MockProcess) Kill() error {
	p.init()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.kills == 0 {
		close(p.killed)
	}
	p.kills++
	return nil
}

// Killed reports whether Kill was called
func (p *MockProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kills > 0
}
