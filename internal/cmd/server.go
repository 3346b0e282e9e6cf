package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/config"
	"github.com/yoanbernabeu/sshrun/internal/security"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage named targets",
	Long:  `Commands to add, inspect and remove named targets for 'sshrun exec'.`,
}

var serverAddCmd = &cobra.Command{
	Use:   "add <name> <user@host>",
	Short: "Add a new server",
	Long: `Adds a new server to the global configuration.
Passwords are never stored.

Example:
  sshrun server add production deploy@my-vps.com
  sshrun server add staging staging.example.com --timeout 30`,
	Args: cobra.ExactArgs(2),
	RunE: runServerAdd,
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers",
	RunE:  runServerList,
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a server",
	Args:  cobra.ExactArgs(1),
	RunE:  runServerRemove,
}

var serverSetCmd = &cobra.Command{
	Use:   "set <server> <key> <value>",
	Short: "Set a server configuration value",
	Long: `Sets a configuration value for a server.

Available keys:
  host     Remote host name or address
  user     Remote user
  timeout  Execution timeout in seconds (0 for the global default)
  ssh_exe  Native ssh executable (Windows)

Examples:
  sshrun server set prod timeout 60
  sshrun server set prod user deploy`,
	Args: cobra.ExactArgs(3),
	RunE: runServerSet,
}

var serverTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Check that a server accepts commands",
	Long: `Runs 'true' on the server to check the connection and authentication.
Only key or agent authentication is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runServerTest,
}

var (
	serverTimeout int
	serverSSHExe  string
)

const serverTestTimeout = 15 * time.Second

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverRemoveCmd)
	serverCmd.AddCommand(serverSetCmd)
	serverCmd.AddCommand(serverTestCmd)

	serverAddCmd.Flags().IntVar(&serverTimeout, "timeout", 0, "Execution timeout in seconds (0 for the global default)")
	serverAddCmd.Flags().StringVar(&serverSSHExe, "ssh-exe", "", "Native ssh executable (Windows)")
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Validate server name
	if err := security.ValidateServerName(name); err != nil {
		return fmt.Errorf("invalid server name: %w", err)
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load global config: %w", err)
	}

	target, err := ssh.ParseTarget(args[1], globalCfg.DefaultUser)
	if err != nil {
		return err
	}

	serverCfg := config.ServerConfig{
		Host:    target.Host,
		User:    target.User,
		SSHExe:  serverSSHExe,
		Timeout: serverTimeout,
	}

	if errors := config.ValidateServerConfig(&serverCfg); errors.HasErrors() {
		return fmt.Errorf("invalid server configuration: %w", errors)
	}

	if err := globalCfg.AddServer(name, serverCfg); err != nil {
		return err
	}

	if err := config.SaveGlobalConfig(globalCfg, GetConfigFile()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	PrintSuccess("Added server '%s' (%s)", name, target)
	PrintInfo("Run a command with: sshrun exec %s -- uptime", name)
	return nil
}

func runServerList(cmd *cobra.Command, args []string) error {
	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	servers := globalCfg.ListServers()
	if len(servers) == 0 {
		PrintInfo("No servers configured")
		PrintInfo("Add a server with: sshrun server add <name> <user@host>")
		return nil
	}

	fmt.Fprintln(out, "Configured servers:")
	fmt.Fprintln(out)
	for _, name := range servers {
		server := globalCfg.Servers[name]
		fmt.Fprintf(out, "  %s\n", name)
		fmt.Fprintf(out, "    Host:    %s@%s\n", server.User, server.Host)
		if server.Timeout > 0 {
			fmt.Fprintf(out, "    Timeout: %ds\n", server.Timeout)
		}
		if server.SSHExe != "" {
			fmt.Fprintf(out, "    SSH exe: %s\n", server.SSHExe)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func runServerRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Validate server name
	if err := security.ValidateServerName(name); err != nil {
		return fmt.Errorf("invalid server name: %w", err)
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}

	if err := globalCfg.RemoveServer(name); err != nil {
		return err
	}

	if err := config.SaveGlobalConfig(globalCfg, GetConfigFile()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	PrintSuccess("Removed server '%s'", name)
	return nil
}

func runServerSet(cmd *cobra.Command, args []string) error {
	serverName := args[0]
	key := args[1]
	value := args[2]

	// Validate server name
	if err := security.ValidateServerName(serverName); err != nil {
		return fmt.Errorf("invalid server name: %w", err)
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}

	server, err := globalCfg.GetServer(serverName)
	if err != nil {
		return err
	}

	if err := applyServerSetting(server, key, value); err != nil {
		return err
	}

	if errors := config.ValidateServerConfig(server); errors.HasErrors() {
		return fmt.Errorf("invalid server configuration: %w", errors)
	}

	globalCfg.Servers[serverName] = *server

	if err := config.SaveGlobalConfig(globalCfg, GetConfigFile()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	PrintSuccess("Set %s=%s for server '%s'", key, value, serverName)
	return nil
}

// applyServerSetting updates one field of server from its string form
func applyServerSetting(server *config.ServerConfig, key, value string) error {
	switch key {
	case "host":
		server.Host = value
	case "user":
		server.User = value
	case "ssh_exe":
		server.SSHExe = value
	case "timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return fmt.Errorf("invalid value for timeout: must be a non-negative number of seconds")
		}
		server.Timeout = seconds
	default:
		return fmt.Errorf("unknown key '%s'. Available keys: host, user, timeout, ssh_exe", key)
	}
	return nil
}

func runServerTest(cmd *cobra.Command, args []string) error {
	name := args[0]

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}
	if err := globalCfg.ApplyEnv(); err != nil {
		return err
	}

	server, err := globalCfg.GetServer(name)
	if err != nil {
		return err
	}

	timeout := globalCfg.TimeoutFor(server)
	if timeout <= 0 {
		timeout = serverTestTimeout
	}

	noPassword := ""
	PrintInfo("Testing SSH connection to %s@%s...", server.User, server.Host)
	outcome, err := ssh.RunRemoteCommand(cmd.Context(), ssh.Request{
		User:           server.User,
		Host:           server.Host,
		Command:        "true",
		Password:       &noPassword,
		ExecutablePath: globalCfg.SSHExeFor(server),
		Timeout:        timeout,
	}, ssh.Options{
		GOOS: runtime.GOOS,
		OnInvocation: func(inv ssh.Invocation) {
			PrintVerboseCommand(inv.String())
		},
	})
	if err != nil {
		return err
	}

	if !outcome.Success() {
		PrintError("SSH connection failed: %v", outcome.Err())
		if outcome.Stderr != "" {
			PrintVerbose("%s", outcome.Stderr)
		}
		return &ExitError{Code: outcome.ExitStatus()}
	}

	PrintSuccess("SSH connection successful (%s)", outcome.Duration.Round(time.Millisecond))
	return nil
}
