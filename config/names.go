package config

import (
	"strings"
	"unicode"
)

const badFileName = "_bad_file_name_"

// CleanFileName removes characters not allowed in file names on this
// platform together with control characters. Result is never empty.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(badNameRunes, sym) {
			return -1
		}
		return sym
	}, in)
	if dotHidesFile {
		out = strings.TrimLeft(out, ".")
	}
	if len(out) == 0 {
		out = badFileName
	}
	return out
}
