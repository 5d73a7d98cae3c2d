package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// fallbackEditors are tried in order when neither $VISUAL nor $EDITOR names
// an editor on PATH.
var fallbackEditors = map[string][]string{
	"windows": {"notepad++.exe", "notepad.exe"},
	"":        {"vim", "vi", "nano"},
}

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	var candidates [][]string
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if args := parseEditorCommand(getenv(env)); len(args) > 0 {
			candidates = append(candidates, args)
		}
	}
	fallbacks, ok := fallbackEditors[goos]
	if !ok {
		fallbacks = fallbackEditors[""]
	}
	for _, name := range fallbacks {
		candidates = append(candidates, []string{name})
	}

	for _, args := range candidates {
		if resolved, err := lookPath(args[0]); err == nil && resolved != "" {
			return append([]string{resolved}, args[1:]...), true
		}
	}
	return nil, false
}

// parseEditorCommand splits a command line on spaces outside quotes and
// expands a leading ~ in the program name.
func parseEditorCommand(cmd string) []string {
	var args []string
	var word strings.Builder
	var quote rune
	inWord := false
	for _, r := range cmd {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote, inWord = r, true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, word.String())
	}
	if len(args) > 0 {
		args[0] = expandHome(args[0])
	}
	return args
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '\\') {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
