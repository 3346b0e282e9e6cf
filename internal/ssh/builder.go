package ssh

import (
	"fmt"

	"github.com/yoanbernabeu/sshrun/internal/constants"
	"github.com/yoanbernabeu/sshrun/internal/security"
)

// QuoteMode controls how the command and password are embedded in the
// shell script of the shell platform.
type QuoteMode int

const (
	// QuoteLegacy wraps values in single quotes without escaping. A value
	// containing a single quote ends the quoted string early and the rest
	// is interpreted by the local shell.
	QuoteLegacy QuoteMode = iota
	// QuoteStrict escapes embedded single quotes ('\''). The script text
	// differs from QuoteLegacy whenever a value contains a quote.
	QuoteStrict
)

func (m QuoteMode) String() string {
	if m == QuoteStrict {
		return "strict"
	}
	return "legacy"
}

// Build constructs the invocation for target and command with legacy quoting.
// It has no side effects: the same inputs always give the same invocation.
func Build(target Target, command, credential string, platform Platform) Invocation {
	return BuildWithQuoting(target, command, credential, platform, QuoteLegacy)
}

// BuildWithQuoting is Build with an explicit QuoteMode.
//
// Host key checking is always disabled (constants.HostKeyPolicy). The
// native platform never receives the credential: it relies on keys or an
// agent.
func BuildWithQuoting(target Target, command, credential string, platform Platform, mode QuoteMode) Invocation {
	if platform.Kind() == PlatformNative {
		return Invocation{
			Program: platform.ExecutablePath(),
			Args: []string{
				"-o", constants.HostKeyPolicy,
				target.String(),
				command,
			},
		}
	}

	return Invocation{
		Program: constants.ShellProgram,
		Args:    []string{constants.ShellFlag, shellScript(target, command, credential, mode)},
		secret:  credential,
	}
}

// shellScript renders the ssh pipeline run by sh -c
func shellScript(target Target, command, credential string, mode QuoteMode) string {
	sshCmd := fmt.Sprintf("%s -o %s %s %s",
		constants.SSHProgram, constants.HostKeyPolicy, target.String(), quote(command, mode))

	if credential == "" {
		return sshCmd
	}
	return fmt.Sprintf("%s -p %s %s", constants.SSHPassProgram, quote(credential, mode), sshCmd)
}

func quote(s string, mode QuoteMode) string {
	if mode == QuoteStrict {
		return security.ShellEscape(s)
	}
	return "'" + s + "'"
}
