package resolve

import (
	"strings"

	"booklet/internal/sheet"
)

// PageMode selects how many pages of the source a placement contributes.
type PageMode int

const (
	// AllPages copies every page of the source (the performer plays).
	AllPages PageMode = iota
	// FirstPageOnly copies the donor page of a song the performer rests in.
	FirstPageOnly
)

func (m PageMode) String() string {
	if m == FirstPageOnly {
		return "first-page"
	}
	return "all-pages"
}

// MarshalText renders the mode name.
func (m PageMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Placement is the resolved source for one song plus its annotation text.
type Placement struct {
	Song       string   `json:"song" yaml:"song"`
	SourcePath string   `json:"source_path" yaml:"source_path"`
	Mode       PageMode `json:"mode" yaml:"mode"`
	// Candidates is the number of files that qualified before the tie-break.
	Candidates int `json:"candidates" yaml:"candidates"`

	Cue     string `json:"cue,omitempty" yaml:"cue,omitempty"`
	Tempo   string `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Patch   string `json:"patch,omitempty" yaml:"patch,omitempty"`
	EndNote string `json:"end_note,omitempty" yaml:"end_note,omitempty"`
}

// Rest reports whether the placement is a single donor page.
func (p Placement) Rest() bool {
	return p.Mode == FirstPageOnly
}

// annotate copies the annotation text of rec onto p.
func annotate(p Placement, rec sheet.SongRecord) Placement {
	p.Cue = CueText(rec.StartingPerformer, rec.CueText)
	p.Tempo = rec.Tempo
	p.Patch = rec.Patch
	p.EndNote = rec.EndNote
	if p.EndNote == "" {
		p.EndNote = rec.GlobalEndNote
	}
	return p
}

// CueText renders the cue annotation as `starter "cue"` without surrounding
// whitespace.
func CueText(startingPerformer, cue string) string {
	return strings.TrimSpace(startingPerformer + ` "` + cue + `"`)
}
