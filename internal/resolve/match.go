package resolve

import (
	"path/filepath"
	"strings"

	"booklet/internal/textutil"
)

// ExcludePrefix marks a token that vetoes files containing the rest of it.
const ExcludePrefix = "^"

// Qualifies reports whether a file base name is selected by tokens: at least
// one inclusion token occurs in it and no exclusion token does. Matching is a
// case-insensitive substring test. An exclusion stops the scan, so it wins
// regardless of where it appears in the token list.
func Qualifies(basename string, tokens []string) bool {
	name := textutil.Fold(basename)
	matched := false
	for _, token := range tokens {
		if rest, ok := strings.CutPrefix(token, ExcludePrefix); ok {
			if strings.Contains(name, textutil.Fold(rest)) {
				return false
			}
		}
		if strings.Contains(name, textutil.Fold(token)) {
			matched = true
		}
	}
	return matched
}

// Filter returns the paths whose base names qualify for tokens, keeping order.
func Filter(paths, tokens []string) []string {
	var out []string
	for _, p := range paths {
		if Qualifies(filepath.Base(p), tokens) {
			out = append(out, p)
		}
	}
	return out
}

func basenames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
