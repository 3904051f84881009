package resolve

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"booklet/internal/textutil"
)

// TieBreaker picks one path from a non-empty candidate list.
type TieBreaker func(performer string, candidates []string) string

// Strategy names.
const (
	Shortest  = "shortest"
	Longest   = "longest"
	Performer = "performer"
)

// Strategy returns the tie-breaker registered under name.
func Strategy(name string) (TieBreaker, error) {
	switch name {
	case Shortest:
		return ShortestPath, nil
	case Longest:
		return LongestPath, nil
	case Performer:
		return PreferPerformer, nil
	default:
		return nil, fmt.Errorf("unknown tie-break strategy %q", name)
	}
}

// ShortestPath picks the path with the fewest characters, the earliest one on
// ties. It stands in for "the simplest file of the song" when choosing a donor
// page.
func ShortestPath(_ string, candidates []string) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if utf8.RuneCountInString(c) < utf8.RuneCountInString(best) {
			best = c
		}
	}
	return best
}

// LongestPath picks the path with the most characters, the latest one on ties.
// It stands in for "the most specific match".
func LongestPath(_ string, candidates []string) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if utf8.RuneCountInString(c) >= utf8.RuneCountInString(best) {
			best = c
		}
	}
	return best
}

// PreferPerformer narrows the candidates to files named after the performer
// and falls back to LongestPath.
func PreferPerformer(performer string, candidates []string) string {
	var own []string
	if performer != "" {
		for _, c := range candidates {
			if textutil.ContainsFold(filepath.Base(c), performer) {
				own = append(own, c)
			}
		}
	}
	if len(own) > 0 {
		return LongestPath(performer, own)
	}
	return LongestPath(performer, candidates)
}
