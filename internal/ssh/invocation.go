package ssh

import (
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/constants"
	"github.com/yoanbernabeu/sshrun/internal/security"
)

// Invocation is a ready-to-run process: a program and its arguments.
// On the shell platform Args is always {"-c", script}.
type Invocation struct {
	Program string
	Args    []string

	// secret is only kept to redact it from String
	secret string
}

// Script returns the shell script argument of a shell invocation,
// or "" for a direct invocation.
func (i Invocation) Script() string {
	if i.Program == constants.ShellProgram && len(i.Args) == 2 && i.Args[0] == constants.ShellFlag {
		return i.Args[1]
	}
	return ""
}

// IsShell reports whether the invocation goes through sh -c
func (i Invocation) IsShell() bool {
	return i.Script() != ""
}

// String renders the invocation for logs with the password masked
func (i Invocation) String() string {
	var b strings.Builder
	b.WriteString(i.Program)
	for _, arg := range i.Args {
		b.WriteByte(' ')
		if strings.ContainsAny(arg, " \t") && arg != i.Script() {
			b.WriteString(security.ShellEscape(arg))
			continue
		}
		b.WriteString(arg)
	}
	return security.SanitizeCommandForLog(security.Redact(b.String(), i.secret))
}

// GoString keeps %#v from printing the password
func (i Invocation) GoString() string {
	return "ssh.Invocation{" + i.String() + "}"
}
