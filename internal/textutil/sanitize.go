package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a performer name into a file name that is valid on
// common filesystems. Path separators, colons and asterisks become dashes,
// other reserved and control characters are dropped, runs of whitespace
// collapse to one space, and leading dots are trimmed so the name can neither
// hide the file nor climb out of the output directory. An empty result means
// the name has no usable characters.
func SanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == ':', r == '*':
			return '-'
		case strings.ContainsRune(`?"<>|`, r):
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	cleaned := strings.Join(strings.Fields(mapped), " ")
	return strings.TrimSpace(strings.TrimLeft(cleaned, "."))
}
