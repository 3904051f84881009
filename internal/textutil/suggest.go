package textutil

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit candidates that fuzzily resemble target, best
// match first. Blank candidates and exact matches are skipped.
func Suggest(target string, candidates []string, limit int) []string {
	target = strings.TrimSpace(target)
	if target == "" || limit <= 0 {
		return nil
	}
	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || c == target {
			continue
		}
		pool = append(pool, c)
	}
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	add := func(s string) {
		if _, ok := seen[s]; ok || len(out) >= limit {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, c := range pool {
		if strings.EqualFold(c, target) {
			add(c)
		}
	}
	for _, m := range fuzzy.Find(target, pool) {
		add(m.Str)
	}
	return out
}
