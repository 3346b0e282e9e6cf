package ssh

import (
	"fmt"
	"reflect"
	"testing"
)

func TestBuild_ShellPlatform(t *testing.T) {
	tests := []struct {
		name       string
		target     Target
		command    string
		credential string
		expected   string
	}{
		{
			name:       "empty credential uses ssh",
			target:     Target{User: "ubuntu", Host: "192.168.1.100"},
			command:    "whoami",
			credential: "",
			expected:   "ssh -o StrictHostKeyChecking=no ubuntu@192.168.1.100 'whoami'",
		},
		{
			name:       "password uses sshpass",
			target:     Target{User: "root", Host: "10.0.0.5"},
			command:    "uname -a",
			credential: "secret",
			expected:   "sshpass -p 'secret' ssh -o StrictHostKeyChecking=no root@10.0.0.5 'uname -a'",
		},
		{
			name:       "hostname target",
			target:     Target{User: "deploy", Host: "my-vps.example.com"},
			command:    "docker ps",
			credential: "",
			expected:   "ssh -o StrictHostKeyChecking=no deploy@my-vps.example.com 'docker ps'",
		},
		{
			name:       "command is not escaped",
			target:     Target{User: "root", Host: "h"},
			command:    "echo it's",
			credential: "p@ss word",
			expected:   "sshpass -p 'p@ss word' ssh -o StrictHostKeyChecking=no root@h 'echo it's'",
		},
		{
			name:       "empty command",
			target:     Target{User: "root", Host: "h"},
			command:    "",
			credential: "",
			expected:   "ssh -o StrictHostKeyChecking=no root@h ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Build(tt.target, tt.command, tt.credential, ShellPlatform())

			if inv.Program != "sh" {
				t.Errorf("Program = %q, want sh", inv.Program)
			}
			if len(inv.Args) != 2 || inv.Args[0] != "-c" {
				t.Fatalf("Args = %q, want [-c <script>]", inv.Args)
			}
			if got := inv.Script(); got != tt.expected {
				t.Errorf("Script() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuild_ShellPlatformProperty(t *testing.T) {
	users := []string{"root", "ubuntu", "ec2-user"}
	hosts := []string{"10.0.0.5", "example.com", "::1"}
	commands := []string{"uname -a", "ls -la /tmp", "true"}
	passwords := []string{"secret", "Arcserve@123", "x"}

	for _, user := range users {
		for _, host := range hosts {
			for _, command := range commands {
				target := Target{User: user, Host: host}

				got := Build(target, command, "", ShellPlatform()).Script()
				want := fmt.Sprintf("ssh -o StrictHostKeyChecking=no %s@%s '%s'", user, host, command)
				if got != want {
					t.Errorf("Script() = %q, want %q", got, want)
				}

				for _, password := range passwords {
					got := Build(target, command, password, ShellPlatform()).Script()
					want := fmt.Sprintf("sshpass -p '%s' ssh -o StrictHostKeyChecking=no %s@%s '%s'", password, user, host, command)
					if got != want {
						t.Errorf("Script() = %q, want %q", got, want)
					}
				}
			}
		}
	}
}

func TestBuild_NativePlatform(t *testing.T) {
	target := Target{User: "root", Host: "10.0.0.5"}

	tests := []struct {
		name       string
		platform   Platform
		credential string
		program    string
	}{
		{"default path without password", NativePlatform(""), "", `C:\Windows\System32\OpenSSH\ssh.exe`},
		{"default path ignores password", NativePlatform(""), "secret", `C:\Windows\System32\OpenSSH\ssh.exe`},
		{"override path", NativePlatform(`D:\tools\ssh.exe`), "secret", `D:\tools\ssh.exe`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Build(target, "uname -a", tt.credential, tt.platform)

			if inv.Program != tt.program {
				t.Errorf("Program = %q, want %q", inv.Program, tt.program)
			}
			want := []string{"-o", "StrictHostKeyChecking=no", "root@10.0.0.5", "uname -a"}
			if !reflect.DeepEqual(inv.Args, want) {
				t.Errorf("Args = %q, want %q", inv.Args, want)
			}
			if inv.Script() != "" {
				t.Errorf("native invocation should not have a script, got %q", inv.Script())
			}
		})
	}
}

func TestBuild_NativeIndependentOfCredential(t *testing.T) {
	target := Target{User: "admin", Host: "win-host"}
	a := Build(target, "dir", "", NativePlatform(""))
	b := Build(target, "dir", "hunter2", NativePlatform(""))

	if !reflect.DeepEqual(a, b) {
		t.Errorf("native invocations differ by credential: %#v vs %#v", a, b)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	target := Target{User: "root", Host: "10.0.0.5"}
	platforms := []Platform{ShellPlatform(), NativePlatform(""), NativePlatform("/usr/bin/ssh")}

	for _, platform := range platforms {
		for _, credential := range []string{"", "secret"} {
			a := Build(target, "uname -a", credential, platform)
			b := Build(target, "uname -a", credential, platform)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("Build() not idempotent on %s: %#v vs %#v", platform, a, b)
			}
		}
	}
}

func TestBuildWithQuoting_Strict(t *testing.T) {
	target := Target{User: "root", Host: "h"}

	tests := []struct {
		name       string
		command    string
		credential string
		expected   string
	}{
		{
			name:     "plain values match legacy",
			command:  "uname -a",
			expected: "ssh -o StrictHostKeyChecking=no root@h 'uname -a'",
		},
		{
			name:     "quote in command is escaped",
			command:  "echo it's",
			expected: "ssh -o StrictHostKeyChecking=no root@h 'echo it'\\''s'",
		},
		{
			name:       "quote in password is escaped",
			command:    "id",
			credential: "pa'ss",
			expected:   "sshpass -p 'pa'\\''ss' ssh -o StrictHostKeyChecking=no root@h 'id'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := BuildWithQuoting(target, tt.command, tt.credential, ShellPlatform(), QuoteStrict)
			if got := inv.Script(); got != tt.expected {
				t.Errorf("Script() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildWithQuoting_NativeUnaffected(t *testing.T) {
	target := Target{User: "root", Host: "h"}
	legacy := BuildWithQuoting(target, "echo it's", "", NativePlatform(""), QuoteLegacy)
	strict := BuildWithQuoting(target, "echo it's", "", NativePlatform(""), QuoteStrict)

	if !reflect.DeepEqual(legacy, strict) {
		t.Errorf("quoting mode should not change native invocations")
	}
}

func TestQuoteMode_String(t *testing.T) {
	if QuoteLegacy.String() != "legacy" || QuoteStrict.String() != "strict" {
		t.Errorf("unexpected QuoteMode names %q %q", QuoteLegacy, QuoteStrict)
	}
}
