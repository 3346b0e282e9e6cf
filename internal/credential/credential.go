// Package credential obtains the password used for one SSH invocation,
// either from the caller or from a hidden terminal prompt.
package credential

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Provider displays a password prompt and reads hidden input.
// Both calls may block indefinitely.
type Provider interface {
	Prompt(user, host string) error
	ReadHidden() (string, error)
}

// ErrNotTerminal is returned when a prompt is needed but stdin is not a terminal
var ErrNotTerminal = errors.New("stdin is not a terminal")

// ErrPromptDisabled is returned by DisabledProvider
var ErrPromptDisabled = errors.New("password prompt disabled (non-interactive mode)")

// CredentialReadError means the password could not be obtained.
// The invocation is aborted; it is never retried.
type CredentialReadError struct {
	User string
	Host string
	Err  error
}

func (e *CredentialReadError) Error() string {
	return fmt.Sprintf("failed to read password for %s@%s: %v", e.User, e.Host, e.Err)
}

func (e *CredentialReadError) Unwrap() error {
	return e.Err
}

// Resolve returns the supplied password unchanged when it is non-nil,
// including the empty string which selects key-based authentication.
// Otherwise it prompts through provider; a nil provider selects the terminal.
func Resolve(user, host string, supplied *string, provider Provider) (string, error) {
	if supplied != nil {
		return *supplied, nil
	}

	if provider == nil {
		provider = NewTerminalProvider()
	}

	if err := provider.Prompt(user, host); err != nil {
		return "", &CredentialReadError{User: user, Host: host, Err: err}
	}

	password, err := provider.ReadHidden()
	if err != nil {
		return "", &CredentialReadError{User: user, Host: host, Err: err}
	}
	return password, nil
}

// TerminalProvider prompts on the controlling terminal without echo
type TerminalProvider struct {
	fd  int
	out io.Writer
}

// NewTerminalProvider reads from stdin and writes the prompt to stderr,
// keeping stdout for the remote command's output.
func NewTerminalProvider() *TerminalProvider {
	return &TerminalProvider{fd: int(os.Stdin.Fd()), out: os.Stderr}
}

func (p *TerminalProvider) Prompt(user, host string) error {
	if !term.IsTerminal(p.fd) {
		return ErrNotTerminal
	}
	_, err := fmt.Fprintf(p.out, "Enter SSH password for %s@%s: ", user, host)
	return err
}

func (p *TerminalProvider) ReadHidden() (string, error) {
	password, err := term.ReadPassword(p.fd)
	// The user's Enter is not echoed
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// DisabledProvider refuses to prompt. Used when interaction is not allowed.
type DisabledProvider struct{}

func (DisabledProvider) Prompt(user, host string) error {
	return ErrPromptDisabled
}

func (DisabledProvider) ReadHidden() (string, error) {
	return "", ErrPromptDisabled
}
