package constants

import "time"

// SSH client programs
const (
	// DefaultWindowsSSHExe is the OpenSSH client shipped with Windows 10+
	DefaultWindowsSSHExe = `C:\Windows\System32\OpenSSH\ssh.exe`
	ShellProgram         = "sh"
	ShellFlag            = "-c"
	SSHProgram           = "ssh"
	SSHPassProgram       = "sshpass"
)

// HostKeyPolicy disables host key verification for every invocation.
// sshrun targets trusted or ephemeral hosts; hardening this changes behavior
// for every caller and must be done explicitly.
const HostKeyPolicy = "StrictHostKeyChecking=no"

// Exit statuses reported for each outcome, following shell conventions
const (
	ExitSuccess       = 0
	ExitRemoteFailure = 1
	ExitTimedOut      = 124
	ExitSpawnFailure  = 127
)

// Process handling
const (
	// KillWaitDelay bounds how long Wait keeps draining pipes after the
	// child was killed or exited while a grandchild still holds them.
	KillWaitDelay = 2 * time.Second
)

// Global configuration
const (
	ConfigDirName  = "sshrun"
	ConfigFileName = "config.yaml"

	EnvSSHExe  = "SSHRUN_SSH_EXE"
	EnvTimeout = "SSHRUN_TIMEOUT"
)
