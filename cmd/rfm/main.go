package main

import (
	"os"

	"github.com/gdamore/tcell/v2"
)

func main() {
	// Fall back to UTF-8 when the locale does not name an encoding.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
