// Package shellsetup prints shell functions that run rfm and change into the
// directory it was quit in.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"text/template"
)

// ParentShellFunc names the shell that started rfm, or "".
type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable overrides the rfm path written into the snippet.
	Executable string
}

var posixTemplate = template.Must(template.New("posix").Parse(`rfm() {
    case "$1" in
        config|setup|help|completion|-h|--help)
            command {{.Exe}} "$@"
            return $?
            ;;
    esac

    rfm_choice=$(mktemp "${TMPDIR:-/tmp}/rfm.XXXXXX") || return 1
    command {{.Exe}} --choosedir "$rfm_choice" "$@"
    rfm_status=$?
    if [ -s "$rfm_choice" ]; then
        rfm_dest=$(cat "$rfm_choice")
        if [ -d "$rfm_dest" ] && [ "$rfm_dest" != "$PWD" ]; then
            cd -- "$rfm_dest" || rfm_status=$?
        fi
    fi
    rm -f "$rfm_choice"
    return $rfm_status
}
`))

var fishTemplate = template.Must(template.New("fish").Parse(`function rfm
    switch "$argv[1]"
        case config setup help completion -h --help
            command {{.Exe}} $argv
            return $status
    end
    set -l rfm_choice (mktemp)
    or return 1
    command {{.Exe}} --choosedir $rfm_choice $argv
    set -l rfm_status $status
    if test -s $rfm_choice
        set -l rfm_dest (cat $rfm_choice)
        if test -d "$rfm_dest"; and test "$rfm_dest" != "$PWD"
            builtin cd $rfm_dest
        end
    end
    rm -f $rfm_choice
    return $rfm_status
end
`))

var pwshTemplate = template.Must(template.New("pwsh").Parse(`function rfm {
    if ($args.Count -gt 0 -and @('config', 'setup', 'help', 'completion', '-h', '--help') -contains $args[0]) {
        & {{.Exe}} @args
        return
    }
    $choice = [System.IO.Path]::GetTempFileName()
    try {
        & {{.Exe}} --choosedir $choice @args
        $dest = Get-Content $choice -Raw -ErrorAction SilentlyContinue
        if ($dest -and (Test-Path $dest -PathType Container)) {
            Set-Location $dest
        }
    } finally {
        Remove-Item $choice -ErrorAction SilentlyContinue
    }
}
`))

// Write prints the integration snippet for shell, or for the detected shell
// when shell is empty.
func Write(w io.Writer, shell string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	name := canonicalShellName(normalizeShellName(shell))
	if name == "" {
		name = detectShellInternal(runtime.GOOS, os.Getenv, parent)
	}

	exe := cfg.Executable
	if exe == "" {
		if p, err := os.Executable(); err == nil {
			exe = p
		} else {
			exe = "rfm"
		}
	}
	data := struct{ Exe string }{Exe: strconv.Quote(exe)}

	switch name {
	case "bash", "zsh", "sh", "ksh", "dash":
		return posixTemplate.Execute(w, data)
	case "fish":
		return fishTemplate.Execute(w, data)
	case "pwsh":
		data.Exe = "'" + strings.ReplaceAll(exe, "'", "''") + "'"
		return pwshTemplate.Execute(w, data)
	default:
		return fmt.Errorf("unsupported shell %q (want bash, zsh, sh, ksh, fish or pwsh)", name)
	}
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}
	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}
	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell == "pwsh" || shell == "cmd" {
			return shell
		}
		return "pwsh"
	}
	return "bash"
}

func canonicalShellName(name string) string {
	if name == "powershell" {
		return "pwsh"
	}
	return name
}

// normalizeShellName reduces a path or command line to a lower-case
// executable name without extension.
func normalizeShellName(value string) string {
	value = extractExecutable(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(strings.Trim(value, `"'`), "\\", "/")
	base := strings.ToLower(path.Base(value))
	// Login shells show up as "-zsh" in process listings.
	base = strings.TrimPrefix(base, "-")
	return strings.TrimSpace(strings.TrimSuffix(base, ".exe"))
}

func extractExecutable(value string) string {
	if value == "" {
		return ""
	}
	for _, q := range []string{`"`, `'`} {
		if rest, ok := strings.CutPrefix(value, q); ok {
			if idx := strings.Index(rest, q); idx >= 0 {
				return rest[:idx]
			}
			return rest
		}
	}
	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}
	return value
}
