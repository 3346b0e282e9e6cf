package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/security"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	verbose bool
	cfgFile string
	yesFlag bool // CI/CD: never prompt
)

// logOut receives every Print helper message. Stdout is reserved for the
// remote command's output.
var logOut io.Writer = color.Error

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	verboseColor = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "sshrun",
	Short: "Run a single command on a remote host over SSH",
	Long: `sshrun runs one command on a remote host by delegating to the
system SSH client. On Windows it calls ssh.exe directly; elsewhere it goes
through sh, and through sshpass when a password is supplied.

Quick start:
  sshrun exec deploy@10.0.0.5 -- uptime
  sshrun server add prod root@10.0.0.5
  sshrun exec prod --timeout 30s -- df -h

Commands:
  exec          Run a command on a remote host
  server        Manage named targets
  keys          List local SSH private keys

Environment Variables:
  SSHRUN_SSH_EXE   Native ssh executable (Windows)
  SSHRUN_TIMEOUT   Default timeout in seconds`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExitError carries the process exit status of a finished command.
// Its message has already been reported when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Execute runs the root command and returns the process exit status
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	PrintError("%v", err)
	return 1
}

// GetRootCmd returns the root command, used by the docs generator
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed logs")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/sshrun/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Never prompt (CI/CD mode)")

	rootCmd.SetVersionTemplate(`sshrun {{.Version}}
`)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsYesMode returns true if --yes flag is set (CI/CD mode)
func IsYesMode() bool {
	return yesFlag
}

// PrintError prints a formatted error message
func PrintError(msg string, args ...interface{}) {
	_, _ = errorColor.Fprintf(logOut, "❌ "+msg+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	_, _ = successColor.Fprintf(logOut, "✅ "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	_, _ = infoColor.Fprintf(logOut, "ℹ️  "+msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	_, _ = warningColor.Fprintf(logOut, "⚠️  "+msg+"\n", args...)
}

// PrintVerbose prints a message only in verbose mode
func PrintVerbose(msg string, args ...interface{}) {
	if verbose {
		_, _ = verboseColor.Fprintf(logOut, "   "+msg+"\n", args...)
	}
}

// PrintVerboseCommand prints a command in verbose mode with sensitive values masked
func PrintVerboseCommand(command string) {
	if verbose {
		_, _ = verboseColor.Fprintf(logOut, "   Running: %s\n", security.SanitizeCommandForLog(command))
	}
}
