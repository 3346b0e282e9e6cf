package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/yoanbernabeu/sshrun/internal/constants"
	"gopkg.in/yaml.v3"
)

// GetGlobalConfigPath returns the path to the global config file
func GetGlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, constants.ConfigDirName, constants.ConfigFileName), nil
}

// LoadGlobalConfig loads the global configuration from path, or from
// the default location when path is empty. A missing file yields defaults.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	if path == "" {
		var err error
		path, err = GetGlobalConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGlobalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}

	if config.Servers == nil {
		config.Servers = make(map[string]ServerConfig)
	}

	if errors := ValidateGlobalConfig(&config); errors.HasErrors() {
		return nil, fmt.Errorf("invalid global config %s: %w", path, errors)
	}

	return &config, nil
}

// SaveGlobalConfig saves the global configuration to path, or to the
// default location when path is empty.
func SaveGlobalConfig(config *GlobalConfig, path string) error {
	if path == "" {
		var err error
		path, err = GetGlobalConfigPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	// SECURITY: Use 0700 to restrict directory access to owner only
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// SECURITY: Use 0600, the file lists hosts and users
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from SSHRUN_SSH_EXE and SSHRUN_TIMEOUT
func (c *GlobalConfig) ApplyEnv() error {
	if exe := os.Getenv(constants.EnvSSHExe); exe != "" {
		c.SSHExe = exe
	}
	if raw := os.Getenv(constants.EnvTimeout); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return fmt.Errorf("%s must be a non-negative number of seconds, got %q", constants.EnvTimeout, raw)
		}
		c.DefaultTimeout = seconds
	}
	return nil
}

// GetServer retrieves a server configuration by name
func (c *GlobalConfig) GetServer(name string) (*ServerConfig, error) {
	server, ok := c.Servers[name]
	if !ok {
		return nil, fmt.Errorf("server '%s' not found", name)
	}
	return &server, nil
}

// AddServer adds a new server to the configuration
func (c *GlobalConfig) AddServer(name string, server ServerConfig) error {
	if _, exists := c.Servers[name]; exists {
		return fmt.Errorf("server '%s' already exists", name)
	}

	if server.User == "" {
		server.User = c.DefaultUser
	}

	c.Servers[name] = server
	return nil
}

// RemoveServer removes a server from the configuration
func (c *GlobalConfig) RemoveServer(name string) error {
	if _, exists := c.Servers[name]; !exists {
		return fmt.Errorf("server '%s' not found", name)
	}

	delete(c.Servers, name)
	return nil
}

// ListServers returns all server names, sorted
func (c *GlobalConfig) ListServers() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutFor returns the execution deadline for a server, falling back
// to the global default. 0 means no deadline.
func (c *GlobalConfig) TimeoutFor(server *ServerConfig) time.Duration {
	if server != nil && server.Timeout > 0 {
		return time.Duration(server.Timeout) * time.Second
	}
	return time.Duration(c.DefaultTimeout) * time.Second
}

// SSHExeFor returns the native executable override for a server,
// falling back to the global one.
func (c *GlobalConfig) SSHExeFor(server *ServerConfig) string {
	if server != nil && server.SSHExe != "" {
		return server.SSHExe
	}
	return c.SSHExe
}
