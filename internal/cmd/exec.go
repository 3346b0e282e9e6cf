package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/config"
	"github.com/yoanbernabeu/sshrun/internal/credential"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

var (
	execPassword      string
	execPasswordStdin bool
	execNoPassword    bool
	execSSHExe        string
	execTimeout       time.Duration
	execStrictQuoting bool
)

var execCmd = &cobra.Command{
	Use:   "exec <user@host|server> -- <command...>",
	Short: "Run a command on a remote host",
	Long: `Runs one command on a remote host and prints its output.

The target is either user@host or the name of a server added with
'sshrun server add'. When no password flag is given, the password is
prompted for on the terminal. Use --no-password for key or agent based
authentication.

A single command word is sent as is, so it can carry pipes and quotes
for the remote shell. Several words are quoted and joined.

Exit status:
  0     the remote command succeeded
  1-255 the remote command's exit status (1 when unknown)
  124   the command timed out or was interrupted
  127   the ssh client could not be started

Examples:
  sshrun exec deploy@10.0.0.5 -- uptime
  sshrun exec prod --timeout 30s -- 'df -h | grep /var'
  echo "$PASS" | sshrun exec root@host --password-stdin -- systemctl restart app
  sshrun exec prod --no-password -- ls -la /var/www`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringVar(&execPassword, "password", "", "SSH password (may be empty)")
	execCmd.Flags().BoolVar(&execPasswordStdin, "password-stdin", false, "Read the SSH password from the first line of stdin")
	execCmd.Flags().BoolVar(&execNoPassword, "no-password", false, "Do not use a password (key or agent authentication)")
	execCmd.Flags().StringVar(&execSSHExe, "ssh-exe", "", "Path to the native ssh executable (Windows)")
	execCmd.Flags().DurationVar(&execTimeout, "timeout", 0, "Execution timeout, e.g. 30s or 2m (0 for none)")
	execCmd.Flags().BoolVar(&execStrictQuoting, "strict-quoting", false, "Escape single quotes in the command and password")
	execCmd.MarkFlagsMutuallyExclusive("password", "password-stdin", "no-password")
}

// execFlags is the parsed form of the exec command line
type execFlags struct {
	password      *string
	passwordStdin bool
	sshExe        string
	timeout       time.Duration
	timeoutSet    bool
	strictQuoting bool
}

// execEnv holds the collaborators of an exec run
type execEnv struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	provider credential.Provider
	runner   ssh.Runner
	goos     string
	keyDir   string
}

func runExec(cmd *cobra.Command, args []string) error {
	flags := execFlags{
		passwordStdin: execPasswordStdin,
		sshExe:        execSSHExe,
		timeout:       execTimeout,
		timeoutSet:    cmd.Flags().Changed("timeout"),
		strictQuoting: execStrictQuoting,
	}
	switch {
	case cmd.Flags().Changed("password"):
		flags.password = &execPassword
	case execNoPassword:
		empty := ""
		flags.password = &empty
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}
	if err := globalCfg.ApplyEnv(); err != nil {
		return err
	}

	keyDir, err := ssh.DefaultKeyDir()
	if err != nil {
		keyDir = ""
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := execEnv{
		stdin:    cmd.InOrStdin(),
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		provider: passwordProvider(),
		goos:     runtime.GOOS,
		keyDir:   keyDir,
	}
	return execRemote(ctx, globalCfg, args, flags, env)
}

// execRemote runs args[1:] on the target named by args[0] and reports
// the outcome. A failed remote command is returned as *ExitError.
func execRemote(ctx context.Context, globalCfg *config.GlobalConfig, args []string, flags execFlags, env execEnv) error {
	req, err := buildRequest(globalCfg, args, flags, env.stdin)
	if err != nil {
		return err
	}

	PrintVerbose("Target: %s@%s", req.User, req.Host)
	if req.Timeout > 0 {
		PrintVerbose("Timeout: %s", req.Timeout)
	}

	if needsKeyAuth(req, env.goos) && env.keyDir != "" && !ssh.KeyAuthAvailable(env.keyDir) {
		PrintWarning("No SSH agent or unencrypted key in %s, authentication may fail", env.keyDir)
	}

	quoting := ssh.QuoteLegacy
	if flags.strictQuoting || globalCfg.StrictQuoting {
		quoting = ssh.QuoteStrict
	}

	outcome, err := ssh.RunRemoteCommand(ctx, req, ssh.Options{
		Provider: env.provider,
		Runner:   env.runner,
		GOOS:     env.goos,
		Quoting:  quoting,
		OnInvocation: func(inv ssh.Invocation) {
			PrintVerboseCommand(inv.String())
		},
	})
	if err != nil {
		return fmt.Errorf("failed to get SSH password: %w", err)
	}

	return reportOutcome(outcome, env.stdout, env.stderr)
}

// buildRequest resolves the target, command and settings of one exec run
func buildRequest(globalCfg *config.GlobalConfig, args []string, flags execFlags, stdin io.Reader) (ssh.Request, error) {
	target, server, err := resolveTarget(globalCfg, args[0])
	if err != nil {
		return ssh.Request{}, err
	}

	command := joinCommand(args[1:])
	if strings.TrimSpace(command) == "" {
		return ssh.Request{}, fmt.Errorf("command cannot be empty")
	}

	req := ssh.Request{
		User:           target.User,
		Host:           target.Host,
		Command:        command,
		Password:       flags.password,
		ExecutablePath: globalCfg.SSHExeFor(server),
		Timeout:        globalCfg.TimeoutFor(server),
	}
	if flags.sshExe != "" {
		req.ExecutablePath = flags.sshExe
	}
	if flags.timeoutSet {
		req.Timeout = flags.timeout
	}

	if flags.passwordStdin {
		password, err := readPasswordLine(stdin)
		if err != nil {
			return ssh.Request{}, err
		}
		req.Password = &password
	}

	return req, nil
}

// resolveTarget accepts user@host, a bare host (with default_user) or a
// configured server name. The server is nil unless a name matched.
func resolveTarget(globalCfg *config.GlobalConfig, spec string) (ssh.Target, *config.ServerConfig, error) {
	if !strings.Contains(spec, "@") {
		if _, ok := globalCfg.Servers[spec]; ok {
			server, err := globalCfg.GetServer(spec)
			if err != nil {
				return ssh.Target{}, nil, err
			}
			target := ssh.Target{User: server.User, Host: server.Host}
			if err := target.Validate(); err != nil {
				return ssh.Target{}, nil, fmt.Errorf("server '%s': %w", spec, err)
			}
			return target, server, nil
		}
	}

	target, err := ssh.ParseTarget(spec, globalCfg.DefaultUser)
	if err != nil {
		return ssh.Target{}, nil, fmt.Errorf("%w (or a configured server name)", err)
	}
	if err := target.Validate(); err != nil {
		return ssh.Target{}, nil, err
	}
	return target, nil, nil
}

// joinCommand keeps a single word untouched and shell-quotes several
func joinCommand(words []string) string {
	if len(words) == 1 {
		return words[0]
	}
	return shellquote.Join(words...)
}

// needsKeyAuth reports whether the run cannot use a password: the native
// client never gets one, and an empty password means key authentication.
func needsKeyAuth(req ssh.Request, goos string) bool {
	if ssh.DetectPlatform(goos, req.ExecutablePath).Kind() == ssh.PlatformNative {
		return true
	}
	return req.Password != nil && *req.Password == ""
}

// reportOutcome writes the remote output verbatim: stdout on success,
// stderr otherwise. Labels are only added in verbose mode.
func reportOutcome(outcome ssh.Outcome, stdout, stderr io.Writer) error {
	switch outcome.Kind {
	case ssh.OutcomeSuccess:
		PrintVerbose("SSH Output: (%s)", outcome.Duration.Round(time.Millisecond))
		_, _ = io.WriteString(stdout, outcome.Stdout)
		return nil
	case ssh.OutcomeRemoteFailure:
		PrintVerbose("SSH Error: exit status %d", outcome.ExitCode)
		_, _ = io.WriteString(stderr, outcome.Stderr)
	case ssh.OutcomeSpawnFailure:
		PrintError("Failed to run SSH command: %v", outcome.Err())
	case ssh.OutcomeTimedOut:
		PrintError("SSH command timed out: %v", outcome.Err())
	}
	return &ExitError{Code: outcome.ExitStatus()}
}
