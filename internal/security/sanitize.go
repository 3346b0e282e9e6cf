package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// serverNameRegex validates server configuration names
	// Allows: letters, numbers, underscores, hyphens
	// Length: 1-64 characters
	serverNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]{0,62}[a-zA-Z0-9])?$`)

	// remoteUserRegex validates login names on the remote host
	// More permissive than POSIX (uppercase and dots are common, e.g. "john.doe")
	// Length: 1-64 characters
	remoteUserRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]{0,63}$`)

	// hostRegex validates hostnames, IPv4 and IPv6 literals
	// Allows: letters, numbers, dots, hyphens, colons, brackets, zone '%'
	hostRegex = regexp.MustCompile(`^[A-Za-z0-9\[:][A-Za-z0-9._:%\[\]-]{0,252}$`)

	// sensitiveLogPatterns are flags or assignments whose value is a secret
	sensitiveLogPatterns = []string{
		"sshpass -p ",
		"SSHPASS=",
	}
)

// ValidateServerName validates a server configuration name
func ValidateServerName(name string) error {
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("server name too long (max 64 characters)")
	}
	if !serverNameRegex.MatchString(name) {
		return fmt.Errorf("server name must contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

// ValidateRemoteUser validates the login name used in user@host.
// A leading hyphen would be parsed as an option by ssh.
func ValidateRemoteUser(user string) error {
	if user == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(user) > 64 {
		return fmt.Errorf("username too long (max 64 characters)")
	}
	if !remoteUserRegex.MatchString(user) {
		return fmt.Errorf("username must start with a letter, digit or underscore, followed by letters, digits, dots, underscores, or hyphens")
	}
	return nil
}

// ValidateHost validates a hostname or IP literal
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if len(host) > 253 {
		return fmt.Errorf("host too long (max 253 characters)")
	}
	if !hostRegex.MatchString(host) {
		return fmt.Errorf("host must be a hostname or IP address")
	}
	return nil
}

// ShellEscape escapes a string for safe use in shell commands by wrapping it
// in single quotes and escaping any internal single quotes using the POSIX
// pattern: ' → '\''
func ShellEscape(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// Redact replaces every occurrence of the given secrets with ****.
// Empty secrets are ignored.
func Redact(s string, secrets ...string) string {
	result := s
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		result = strings.ReplaceAll(result, secret, "****")
		// Strict quoting rewrites ' as '\'' inside the script
		if escaped := strings.ReplaceAll(secret, "'", "'\\''"); escaped != secret {
			result = strings.ReplaceAll(result, escaped, "****")
		}
	}
	return result
}

// SanitizeCommandForLog masks sensitive values in commands before logging.
// This prevents secrets from leaking into verbose output or log files.
func SanitizeCommandForLog(cmd string) string {
	result := cmd

	for _, pattern := range sensitiveLogPatterns {
		searchFrom := 0
		for {
			idx := strings.Index(result[searchFrom:], pattern)
			if idx == -1 {
				break
			}
			absIdx := searchFrom + idx
			// Find the end of the value (next space or end of string)
			valueStart := absIdx + len(pattern)
			valueEnd := findValueEnd(result, valueStart)
			masked := "****"
			result = result[:valueStart] + masked + result[valueEnd:]
			// Advance past the replacement to avoid infinite loop
			searchFrom = valueStart + len(masked)
		}
	}

	return result
}

// findValueEnd finds where a shell value ends (handles quoted and unquoted values)
func findValueEnd(s string, start int) int {
	if start >= len(s) {
		return start
	}

	// Handle single-quoted value, including '\'' continuations
	if s[start] == '\'' {
		i := start + 1
		for {
			end := strings.IndexByte(s[i:], '\'')
			if end == -1 {
				return len(s)
			}
			i += end + 1
			if strings.HasPrefix(s[i:], "\\''") {
				i += 3
				continue
			}
			return i
		}
	}

	// Handle double-quoted value
	if s[start] == '"' {
		end := strings.Index(s[start+1:], "\"")
		if end == -1 {
			return len(s)
		}
		return start + end + 2
	}

	// Unquoted: find next whitespace
	for i := start; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '\n' {
			return i
		}
	}
	return len(s)
}
