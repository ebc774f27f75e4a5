//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// path and list separators
const badNameRunes = "/:"

// leading dot makes file invisible
const dotHidesFile = true

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
