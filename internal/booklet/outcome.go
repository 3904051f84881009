package booklet

import (
	"time"

	"github.com/dustin/go-humanize"

	"booklet/internal/assemble"
	"booklet/internal/resolve"
	"booklet/internal/services"
)

// Outcome summarizes one performer build.
type Outcome struct {
	Performer  string
	RunID      string
	OutputPath string
	Songs      int
	Pages      int
	Contents   []assemble.SongPages // pages each song contributed, in booklet order
	Bytes      int64
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the booklet was written.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Size renders the output size for humans.
func (o Outcome) Size() string {
	if o.Bytes <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(o.Bytes))
}

// FailureClass returns the failure class of a failed build.
func (o Outcome) FailureClass() string {
	return services.Classify(o.Err)
}

// Plan is the dry-run result for one performer.
type Plan struct {
	Performer  string              `json:"performer" yaml:"performer"`
	OutputPath string              `json:"output_path" yaml:"output_path"`
	Placements []resolve.Placement `json:"placements" yaml:"placements"`
}

// Rests counts the placements that contribute a single donor page.
func (p Plan) Rests() int {
	n := 0
	for _, pl := range p.Placements {
		if pl.Rest() {
			n++
		}
	}
	return n
}
