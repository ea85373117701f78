package golang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// exportedName converts a snake_case or mixed identifier to an exported Go
// identifier: "transfer_keep_alive" becomes "TransferKeepAlive".
func exportedName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		return "X" + out
	}
	return out
}

// packageName lowercases a module identifier for use as a package clause.
func packageName(module string) string {
	return strings.ToLower(module)
}
