package shellsetup

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectShellInternal(t *testing.T) {
	tests := []struct {
		name          string
		goos          string
		envShell      string
		envComspec    string
		parent        func() string
		expectedShell string
	}{
		{
			name:          "uses SHELL when set",
			goos:          "linux",
			envShell:      "/bin/zsh",
			expectedShell: "zsh",
		},
		{
			name:          "falls back to parent shell",
			goos:          "linux",
			parent:        func() string { return "/usr/bin/bash" },
			expectedShell: "bash",
		},
		{
			name:          "login shell prefix is dropped",
			goos:          "linux",
			parent:        func() string { return "-fish" },
			expectedShell: "fish",
		},
		{
			name:          "windows prefers COMSPEC",
			goos:          "windows",
			envComspec:    `C:\Windows\System32\cmd.exe`,
			expectedShell: "cmd",
		},
		{
			name:          "windows fallback",
			goos:          "windows",
			expectedShell: "pwsh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := func(key string) string {
				switch key {
				case "SHELL":
					return tt.envShell
				case "COMSPEC":
					return tt.envComspec
				default:
					return ""
				}
			}
			got := detectShellInternal(tt.goos, env, tt.parent)
			if got != tt.expectedShell {
				t.Fatalf("detectShellInternal() = %q, want %q", got, tt.expectedShell)
			}
		})
	}
}

func TestNormalizeShellName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"/bin/bash", "bash"},
		{`"C:\Program Files\PowerShell\pwsh.exe" -NoLogo`, "pwsh"},
		{"'/usr/local/bin/fish'", "fish"},
		{"zsh -l", "zsh"},
	}
	for _, tt := range tests {
		if got := normalizeShellName(tt.in); got != tt.want {
			t.Fatalf("normalizeShellName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteUsesChoosedir(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, shell, Config{Executable: "/opt/rfm/bin/rfm"}); err != nil {
				t.Fatalf("Write(%s): %v", shell, err)
			}
			out := buf.String()
			if !strings.Contains(out, "--choosedir") {
				t.Fatalf("snippet should pass --choosedir:\n%s", out)
			}
			if !strings.Contains(out, "/opt/rfm/bin/rfm") {
				t.Fatalf("snippet should call the configured executable:\n%s", out)
			}
		})
	}
}

func TestWriteRejectsUnsupportedShell(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "tcsh", Config{Executable: "rfm"}); err == nil {
		t.Fatalf("expected an error for tcsh")
	}
}

func TestWriteDetectsShellWhenUnset(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/fish")
	var buf bytes.Buffer
	if err := Write(&buf, "", Config{Executable: "rfm", DetectParent: func() string { return "" }}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "function rfm") {
		t.Fatalf("expected a fish function, got:\n%s", buf.String())
	}
}
