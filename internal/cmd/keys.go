package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

var keysDir string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List local SSH private keys",
	Long: `Lists the private keys found in ~/.ssh, most preferred first,
and whether an ssh-agent is available.

Key or agent authentication is what 'sshrun exec --no-password' and the
Windows ssh.exe rely on.`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().StringVar(&keysDir, "dir", "", "Directory to scan (default: ~/.ssh)")
}

func runKeys(cmd *cobra.Command, args []string) error {
	dir := keysDir
	if dir == "" {
		var err error
		dir, err = ssh.DefaultKeyDir()
		if err != nil {
			return err
		}
	}

	keys, err := ssh.DiscoverKeys(dir)
	if err != nil {
		return err
	}

	printKeys(cmd.OutOrStdout(), dir, keys)

	if ssh.AgentAvailable() {
		PrintSuccess("ssh-agent available (SSH_AUTH_SOCK)")
	} else {
		PrintInfo("No ssh-agent detected")
	}
	return nil
}

func printKeys(out io.Writer, dir string, keys []ssh.KeyInfo) {
	if len(keys) == 0 {
		fmt.Fprintf(out, "No private keys found in %s\n", dir)
		return
	}

	fmt.Fprintf(out, "Private keys in %s:\n", dir)
	for _, key := range keys {
		status := ""
		if key.IsEncrypted {
			status = " (passphrase protected)"
		}
		fmt.Fprintf(out, "  %-20s %s%s\n", key.Name, key.Type, status)
	}
}
