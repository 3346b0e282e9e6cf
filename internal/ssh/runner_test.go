//go:build unix

package ssh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func shInvocation(script string) Invocation {
	return Invocation{Program: "sh", Args: []string{"-c", script}}
}

func TestExecRunner_Success(t *testing.T) {
	out := NewExecutor(nil).Execute(context.Background(), shInvocation("printf 'Linux test'"), 0)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("Kind = %v, want success (err: %v)", out.Kind, out.Err())
	}
	if out.Stdout != "Linux test" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "Linux test")
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
}

func TestExecRunner_CapturesStderrOnFailure(t *testing.T) {
	out := NewExecutor(nil).Execute(context.Background(), shInvocation("echo out; echo boom >&2; exit 3"), time.Minute)

	if out.Kind != OutcomeRemoteFailure {
		t.Fatalf("Kind = %v, want remote failure", out.Kind)
	}
	if out.Stderr != "boom\n" {
		t.Errorf("Stderr = %q, want %q", out.Stderr, "boom\n")
	}
	if out.Stdout != "out\n" {
		t.Errorf("Stdout = %q, want %q", out.Stdout, "out\n")
	}
	if out.ExitStatus() != 3 {
		t.Errorf("ExitStatus() = %d, want 3", out.ExitStatus())
	}
}

func TestExecRunner_LargeOutput(t *testing.T) {
	// Larger than a pipe buffer
	out := NewExecutor(nil).Execute(context.Background(), shInvocation("i=0; while [ $i -lt 20000 ]; do echo 0123456789; i=$((i+1)); done"), time.Minute)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("Kind = %v, want success (err: %v)", out.Kind, out.Err())
	}
	if len(out.Stdout) != 20000*11 {
		t.Errorf("len(Stdout) = %d, want %d", len(out.Stdout), 20000*11)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	start := time.Now()
	out := NewExecutor(nil).Execute(context.Background(), shInvocation("sleep 30"), 200*time.Millisecond)
	elapsed := time.Since(start)

	if out.Kind != OutcomeTimedOut {
		t.Fatalf("Kind = %v, want timed out", out.Kind)
	}
	if elapsed > 5*time.Second {
		t.Errorf("timeout returned after %v, want close to 200ms", elapsed)
	}
}

func TestExecRunner_KillsChildOnTimeout(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "finished")

	// exec replaces sh so the killed process is the sleeping one
	script := "exec sh -c 'sleep 1; touch " + marker + "'"
	out := NewExecutor(nil).Execute(context.Background(), shInvocation(script), 100*time.Millisecond)
	if out.Kind != OutcomeTimedOut {
		t.Fatalf("Kind = %v, want timed out", out.Kind)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Error("child kept running after timeout")
	}
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	for _, deadline := range []time.Duration{0, time.Second} {
		inv := Invocation{Program: "/nonexistent/sshrun-test-ssh", Args: []string{"-o", "x"}}
		out := NewExecutor(nil).Execute(context.Background(), inv, deadline)

		if out.Kind != OutcomeSpawnFailure {
			t.Fatalf("Kind = %v, want spawn failure", out.Kind)
		}
		var spawnErr *SpawnError
		if !errors.As(out.Err(), &spawnErr) {
			t.Fatalf("Err() = %T, want *SpawnError", out.Err())
		}
	}
}

func TestExecRunner_KillAfterExitIsNoop(t *testing.T) {
	proc, err := NewExecRunner().Start(shInvocation("true"))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := proc.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if err := proc.Kill(); err != nil {
		t.Errorf("Kill() after exit = %v, want nil", err)
	}
}

// writeFakeClient installs an executable named name in dir that prints
// its own name and arguments, one per line.
func writeFakeClient(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\necho " + name + "\nfor a in \"$@\"; do echo \"$a\"; done\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake %s: %v", name, err)
	}
	return path
}

func TestRunRemoteCommand_FakeClients(t *testing.T) {
	dir := t.TempDir()
	writeFakeClient(t, dir, "ssh")
	writeFakeClient(t, dir, "sshpass")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	tests := []struct {
		name     string
		password string
		expected []string
	}{
		{
			name:     "key based",
			password: "",
			expected: []string{"ssh", "-o", "StrictHostKeyChecking=no", "root@10.0.0.5", "uname -a"},
		},
		{
			name:     "password",
			password: "secret",
			expected: []string{"sshpass", "-p", "secret", "ssh", "-o", "StrictHostKeyChecking=no", "root@10.0.0.5", "uname -a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password := tt.password
			out, err := RunRemoteCommand(context.Background(), Request{
				User:     "root",
				Host:     "10.0.0.5",
				Command:  "uname -a",
				Password: &password,
				Timeout:  10 * time.Second,
			}, Options{GOOS: "linux"})
			if err != nil {
				t.Fatalf("RunRemoteCommand() error = %v", err)
			}
			if out.Kind != OutcomeSuccess {
				t.Fatalf("Kind = %v, want success (err: %v, stderr: %q)", out.Kind, out.Err(), out.Stderr)
			}

			got := strings.Split(strings.TrimSuffix(out.Stdout, "\n"), "\n")
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("client saw %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRunRemoteCommand_NativeExecutable(t *testing.T) {
	path := writeFakeClient(t, t.TempDir(), "ssh")
	password := "ignored"

	out, err := RunRemoteCommand(context.Background(), Request{
		User:           "admin",
		Host:           "win-host",
		Command:        "dir",
		Password:       &password,
		ExecutablePath: path,
	}, Options{GOOS: "windows"})
	if err != nil {
		t.Fatalf("RunRemoteCommand() error = %v", err)
	}
	if out.Kind != OutcomeSuccess {
		t.Fatalf("Kind = %v, want success (err: %v)", out.Kind, out.Err())
	}
	want := "ssh\n-o\nStrictHostKeyChecking=no\nadmin@win-host\ndir\n"
	if out.Stdout != want {
		t.Errorf("Stdout = %q, want %q", out.Stdout, want)
	}
}
