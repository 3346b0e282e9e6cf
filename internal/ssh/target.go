package ssh

import (
	"fmt"
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/security"
)

// Target identifies the remote endpoint of one invocation
type Target struct {
	User string
	Host string
}

// String returns the user@host form passed to the ssh client
func (t Target) String() string {
	return t.User + "@" + t.Host
}

// Validate rejects users and hosts that could break out of the
// generated command line or be parsed as ssh options.
func (t Target) Validate() error {
	if err := security.ValidateRemoteUser(t.User); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if err := security.ValidateHost(t.Host); err != nil {
		return fmt.Errorf("invalid host: %w", err)
	}
	return nil
}

// ParseTarget parses user@host. When the user part is missing,
// defaultUser is used.
func ParseTarget(spec, defaultUser string) (Target, error) {
	if spec == "" {
		return Target{}, fmt.Errorf("target cannot be empty")
	}

	idx := strings.LastIndex(spec, "@")
	if idx == -1 {
		if defaultUser == "" {
			return Target{}, fmt.Errorf("invalid target %q, use user@host", spec)
		}
		return Target{User: defaultUser, Host: spec}, nil
	}

	user, host := spec[:idx], spec[idx+1:]
	if user == "" || host == "" {
		return Target{}, fmt.Errorf("invalid target %q, use user@host", spec)
	}
	return Target{User: user, Host: host}, nil
}
