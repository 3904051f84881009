package main

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"booklet/internal/assemble"
	"booklet/internal/booklet"
)

func TestRenderTableWrapsAndPads(t *testing.T) {
	out := renderTable([]column{
		{title: "Song"},
		{title: "Note", maxWidth: 11},
		{title: "Pages", align: alignRight},
	}, [][]string{{"Overture", "alpha beta gamma delta"}}, nil)

	if !strings.Contains(out, "Overture") {
		t.Fatalf("missing row in %s", out)
	}
	if strings.Contains(out, "beta gamma") {
		t.Fatalf("expected note to wrap at 11 columns:\n%s", out)
	}
	if !strings.Contains(out, "gamma delta") {
		t.Fatalf("expected wrapped remainder:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table for no columns")
	}
}

func TestRenderOutcomesTotals(t *testing.T) {
	single := renderOutcomes([]booklet.Outcome{{Performer: "Henrik", OutputPath: "/out/Henrik.pdf", Songs: 2, Pages: 4, Bytes: 2048, Duration: time.Second}})
	if strings.Contains(strings.ToUpper(single), "1 PERFORMER") {
		t.Fatalf("single outcome should not render totals:\n%s", single)
	}

	out := renderOutcomes([]booklet.Outcome{
		{Performer: "Henrik", OutputPath: "/out/Henrik.pdf", Songs: 2, Pages: 4, Bytes: 2000},
		{Performer: "Anna", OutputPath: "/out/Anna.pdf", Songs: 2, Pages: 5, Bytes: 3000},
	})
	upper := strings.ToUpper(out)
	for _, want := range []string{"2 PERFORMERS", "0 FAILED", "5.0 KB"} {
		if !strings.Contains(upper, want) {
			t.Fatalf("expected %q in totals:\n%s", want, out)
		}
	}
}

func TestRenderContents(t *testing.T) {
	out := renderContents([]booklet.Outcome{
		{Performer: "Henrik", Contents: []assemble.SongPages{
			{Song: "Overture", Source: "/songs/overture/Part1.pdf", Pages: 3},
			{Song: "Finale", Source: "/songs/finale/Part1.pdf", Pages: 1},
		}},
		{Performer: "Anna", Err: errors.New("boom"), Contents: []assemble.SongPages{
			{Song: "Interlude", Source: "/songs/interlude/Anna.pdf", Pages: 2},
		}},
	})
	for _, want := range []string{"Overture", "1-3", "Finale", "/songs/finale/Part1.pdf"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in contents:\n%s", want, out)
		}
	}
	if !regexp.MustCompile(`Finale\s*│\s*4\s*│`).MatchString(out) {
		t.Fatalf("expected Finale on page 4:\n%s", out)
	}
	if strings.Contains(out, "Interlude") {
		t.Fatalf("failed builds should not be listed:\n%s", out)
	}
	if got := renderContents([]booklet.Outcome{{Performer: "Anna", Err: errors.New("boom")}}); got != "" {
		t.Fatalf("expected no contents table, got:\n%s", got)
	}
}
