package ssh

import (
	"context"
	"runtime"
	"time"

	"github.com/yoanbernabeu/sshrun/internal/credential"
)

// Request describes one remote command run
type Request struct {
	User    string
	Host    string
	Command string
	// Password is prompted for when nil. An empty string means key-based
	// or passwordless authentication.
	Password *string
	// ExecutablePath overrides the native ssh executable (Windows only)
	ExecutablePath string
	// Timeout bounds execution; <= 0 means no deadline. Prompting for the
	// password is not covered by it.
	Timeout time.Duration
}

// Options injects the collaborators of RunRemoteCommand. The zero value
// prompts on the terminal, spawns real processes and detects the platform
// from runtime.GOOS with legacy quoting.
type Options struct {
	Provider credential.Provider
	Runner   Runner
	GOOS     string
	Quoting  QuoteMode
	// OnInvocation, when set, is called with the built invocation before it runs
	OnInvocation func(Invocation)
}

// RunRemoteCommand resolves the password, builds the invocation for the
// host platform and executes it, strictly in that order.
//
// The returned error is non-nil only when the password could not be read
// (*credential.CredentialReadError); every other failure is reported
// through the Outcome.
func RunRemoteCommand(ctx context.Context, req Request, opts Options) (Outcome, error) {
	password, err := credential.Resolve(req.User, req.Host, req.Password, opts.Provider)
	if err != nil {
		return Outcome{}, err
	}

	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	target := Target{User: req.User, Host: req.Host}
	platform := DetectPlatform(goos, req.ExecutablePath)
	inv := BuildWithQuoting(target, req.Command, password, platform, opts.Quoting)

	if opts.OnInvocation != nil {
		opts.OnInvocation(inv)
	}

	return NewExecutor(opts.Runner).Execute(ctx, inv, req.Timeout), nil
}
