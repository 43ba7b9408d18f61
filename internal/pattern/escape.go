package pattern

import (
	"fmt"
	"unicode/utf8"
)

// Escape renders a single character for use in regex source, both inside
// and outside brackets. Every ASCII character that is neither a letter nor
// a digit is backslash-escaped; control whitespace uses its escape letter.
func Escape(r rune) string {
	switch r {
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	}

	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return string(r)
	case r >= ' ' && r < utf8.RuneSelf-1:
		return `\` + string(r)
	case r < ' ' || r == utf8.RuneSelf-1:
		return fmt.Sprintf(`\x{%x}`, r)
	default:
		return string(r)
	}
}
