package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/credential"
	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal and --yes flag is not set
func IsInteractive() bool {
	if IsYesMode() {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// passwordProvider picks how a missing password is obtained.
// Non-interactive runs refuse instead of blocking on a prompt.
func passwordProvider() credential.Provider {
	if !IsInteractive() {
		return credential.DisabledProvider{}
	}
	return credential.NewTerminalProvider()
}

// readPasswordLine reads the first line of r, without its line ending.
// An empty line is a valid (empty) password.
func readPasswordLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: no input")
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
