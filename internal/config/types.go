package config

// GlobalConfig represents the global ~/.config/sshrun/config.yaml.
// It never holds passwords.
type GlobalConfig struct {
	Servers map[string]ServerConfig `yaml:"servers"`
	// SSHExe overrides the native ssh executable (Windows)
	SSHExe string `yaml:"ssh_exe,omitempty"`
	// DefaultTimeout in seconds, 0 for no deadline
	DefaultTimeout int    `yaml:"default_timeout,omitempty"`
	DefaultUser    string `yaml:"default_user,omitempty"`
	// StrictQuoting escapes quotes in commands and passwords
	StrictQuoting bool `yaml:"strict_quoting,omitempty"`
}

// ServerConfig represents a named target
type ServerConfig struct {
	Host    string `yaml:"host"`
	User    string `yaml:"user"`
	SSHExe  string `yaml:"ssh_exe,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
}

// DefaultGlobalConfig returns a default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Servers: make(map[string]ServerConfig),
	}
}
