package config

import (
	"fmt"
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/security"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateGlobalConfig validates the global configuration
func ValidateGlobalConfig(config *GlobalConfig) ValidationErrors {
	var errors ValidationErrors

	if config.DefaultTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "default_timeout",
			Message: "default_timeout cannot be negative",
		})
	}

	if config.DefaultUser != "" {
		if err := security.ValidateRemoteUser(config.DefaultUser); err != nil {
			errors = append(errors, ValidationError{
				Field:   "default_user",
				Message: err.Error(),
			})
		}
	}

	for _, name := range config.ListServers() {
		if err := security.ValidateServerName(name); err != nil {
			errors = append(errors, ValidationError{
				Field:   "servers." + name,
				Message: err.Error(),
			})
			continue
		}
		server := config.Servers[name]
		for _, e := range ValidateServerConfig(&server) {
			e.Field = "servers." + name + "." + e.Field
			errors = append(errors, e)
		}
	}

	return errors
}

// ValidateServerConfig validates a server configuration
func ValidateServerConfig(config *ServerConfig) ValidationErrors {
	var errors ValidationErrors

	if config.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "host",
			Message: "server host is required",
		})
	} else if err := security.ValidateHost(config.Host); err != nil {
		errors = append(errors, ValidationError{
			Field:   "host",
			Message: err.Error(),
		})
	}

	if config.User == "" {
		errors = append(errors, ValidationError{
			Field:   "user",
			Message: "server user is required",
		})
	} else if err := security.ValidateRemoteUser(config.User); err != nil {
		errors = append(errors, ValidationError{
			Field:   "user",
			Message: err.Error(),
		})
	}

	if config.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "timeout",
			Message: "timeout cannot be negative",
		})
	}

	return errors
}
