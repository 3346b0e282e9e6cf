package ssh

import "github.com/yoanbernabeu/sshrun/internal/constants"

// PlatformKind selects how the ssh client is invoked
type PlatformKind int

const (
	// PlatformShell runs ssh (or sshpass) through sh -c
	PlatformShell PlatformKind = iota
	// PlatformNative runs an OpenSSH executable directly, without a shell
	PlatformNative
)

func (k PlatformKind) String() string {
	switch k {
	case PlatformNative:
		return "native"
	default:
		return "shell"
	}
}

// Platform describes the invocation shape of the host. Values are only
// built through NativePlatform, ShellPlatform or DetectPlatform; the zero
// value is the shell platform.
type Platform struct {
	kind           PlatformKind
	executablePath string
}

// NativePlatform returns a platform that runs path directly.
// An empty path selects constants.DefaultWindowsSSHExe.
func NativePlatform(path string) Platform {
	if path == "" {
		path = constants.DefaultWindowsSSHExe
	}
	return Platform{kind: PlatformNative, executablePath: path}
}

// ShellPlatform returns the sh -c based platform
func ShellPlatform() Platform {
	return Platform{kind: PlatformShell}
}

// DetectPlatform maps an operating system name (runtime.GOOS) to a platform.
// Windows ships a native OpenSSH client and no POSIX shell; every other
// system goes through sh.
func DetectPlatform(goos, executablePath string) Platform {
	if goos == "windows" {
		return NativePlatform(executablePath)
	}
	return ShellPlatform()
}

// Kind returns the platform kind
func (p Platform) Kind() PlatformKind {
	return p.kind
}

// ExecutablePath returns the ssh executable used on the native platform.
// It is empty for the shell platform.
func (p Platform) ExecutablePath() string {
	return p.executablePath
}

func (p Platform) String() string {
	if p.kind == PlatformNative {
		return "native (" + p.executablePath + ")"
	}
	return p.kind.String()
}
