package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rfm/internal/state"
)

// buildPromptHelpText returns the key hints shown next to an open prompt.
func buildPromptHelpText(state *statepkg.AppState) string {
	parts := buildPromptHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

func buildPromptHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}
	switch state.Mode {
	case statepkg.ModeFilter:
		return []string{
			"↵: keep filter",
			"Esc: clear",
			"↑↓: move",
			"re:/glob/text",
		}
	case statepkg.ModeGoto:
		return []string{
			"↵: go",
			"Esc: cancel",
			"~ and relative paths ok",
		}
	default:
		return nil
	}
}

func promptPrefix(mode statepkg.InputMode) string {
	switch mode {
	case statepkg.ModeFilter:
		return "/"
	case statepkg.ModeGoto:
		return "goto: "
	default:
		return ""
	}
}
