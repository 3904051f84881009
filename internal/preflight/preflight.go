package preflight

import (
	"context"

	"booklet/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// When performers are given, each one is looked up in the spreadsheet header.
func RunAll(ctx context.Context, cfg *config.Config, performers ...string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckReadableDirectory("Repertoire directory", cfg.Paths.RepertoireDir))
	results = append(results, CheckSpreadsheet(cfg.Paths.Spreadsheet, cfg.DelimiterRune()))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	results = append(results, CheckAnnotations(cfg.Annotations))
	for _, performer := range performers {
		if ctx.Err() != nil {
			break
		}
		results = append(results, CheckPerformer(cfg.Paths.Spreadsheet, cfg.DelimiterRune(), performer))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
