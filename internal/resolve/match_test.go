package resolve

import (
	"reflect"
	"testing"
)

func TestQualifies(t *testing.T) {
	tests := []struct {
		name     string
		basename string
		tokens   []string
		want     bool
	}{
		{"substring", "Part1_Henrik.pdf", []string{"Henrik"}, true},
		{"case insensitive", "PART1_HENRIK.PDF", []string{"henrik"}, true},
		{"no inclusion", "Part1_Anna.pdf", []string{"Henrik"}, false},
		{"exclusion after inclusion", "Henrik_alt.pdf", []string{"Henrik", "^alt"}, false},
		{"exclusion before inclusion", "Henrik_alt.pdf", []string{"^alt", "Henrik"}, false},
		{"exclusion not present", "Henrik_take1.pdf", []string{"Henrik", "^alt"}, true},
		{"exclusion case insensitive", "Henrik_ALT.pdf", []string{"Henrik", "^Alt"}, false},
		{"exclusion only", "Henrik_take1.pdf", []string{"^alt"}, false},
		{"any inclusion suffices", "Bass.pdf", []string{"Guitar", "bass"}, true},
		{"unicode folding", "Bjørn_Straße.pdf", []string{"STRASSE"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualifies(tt.basename, tt.tokens); got != tt.want {
				t.Fatalf("Qualifies(%q, %v) = %v, want %v", tt.basename, tt.tokens, got, tt.want)
			}
		})
	}
}

func TestFilterMatchesOnBaseNameOnly(t *testing.T) {
	paths := []string{
		"/songs/Henrik/Act1/Overture/Score.pdf",
		"/songs/Act1/Overture/Henrik_take1.pdf",
		"/songs/Act1/Overture/Henrik_alt.pdf",
	}
	got := Filter(paths, []string{"Henrik", "^alt"})
	want := []string{"/songs/Act1/Overture/Henrik_take1.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
}
