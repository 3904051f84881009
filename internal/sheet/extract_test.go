package sheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"booklet/internal/services"
)

var testHeader = []string{"type", "folder", "prior", "nick", "cue", "end", "tempo", "starter", "Henrik", "", "", "Anna", "", ""}

func tsv(rows ...[]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, "\t")
	}
	return strings.Join(lines, "\n") + "\n"
}

func metaRow() []string {
	return []string{"meta", "", "", "", "", "", "", "", "patches", "", "", "patches", "", ""}
}

func parse(t *testing.T, content, performer string, opts Options) ([]SongRecord, error) {
	t.Helper()
	return Parse(context.Background(), strings.NewReader(content), "plan.tsv", performer, opts)
}

func TestParseExtractsPerformerColumns(t *testing.T) {
	content := tsv(
		testHeader,
		metaRow(),
		[]string{"Act1", "Overture", "", "ov", "Enter", "Fade out", "120", "Henrik", "Part1|^alt||", "Piano 1", "", "-", "Strings", "hold"},
		[]string{"Act1", "Finale", "Overture", "fin", "", "", "96", "", "-", "Organ", "ring", "Anna", "Pad", ""},
	)

	records, err := parse(t, content, "Henrik", Options{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	want := SongRecord{
		Row:               3,
		Category:          "Act1",
		SongFolder:        "Overture",
		Nickname:          "ov",
		CueText:           "Enter",
		GlobalEndNote:     "Fade out",
		Tempo:             "120",
		StartingPerformer: "Henrik",
		FileTokens:        []string{"Part1", "^alt"},
		Patch:             "Piano 1",
		EndNote:           "",
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected first record:\n got %+v\nwant %+v", first, want)
	}
	if first.Rests() {
		t.Fatal("expected first song to be played")
	}
	if first.Label() != "Act1/Overture" {
		t.Fatalf("unexpected label %q", first.Label())
	}

	second := records[1]
	if !second.Rests() || second.Patch != "Organ" || second.EndNote != "ring" || second.Row != 4 {
		t.Fatalf("unexpected second record: %+v", second)
	}

	anna, err := parse(t, content, "Anna", Options{})
	if err != nil {
		t.Fatalf("Parse(Anna) returned error: %v", err)
	}
	if !anna[0].Rests() || anna[0].Patch != "Strings" || anna[1].FileTokens[0] != "Anna" {
		t.Fatalf("unexpected Anna records: %+v", anna)
	}
}

func TestParseDefersMissingPerformerUntilFirstDataRow(t *testing.T) {
	headerOnly := tsv(testHeader, metaRow())
	records, err := parse(t, headerOnly, "Nobody", Options{})
	if err != nil {
		t.Fatalf("expected deferred failure to stay silent without data rows, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}

	withData := tsv(testHeader, metaRow(),
		[]string{"Act1", "Overture", "", "", "", "", "", "", "x", "", "", "y", "", ""})
	_, err = parse(t, withData, "Nobody", Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error at first data row, got %v", err)
	}
	if !strings.Contains(err.Error(), `did not find performer "Nobody" in file plan.tsv`) {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestParseFailFastReportsMissingPerformerAtHeader(t *testing.T) {
	_, err := parse(t, tsv(testHeader), "Henrk", Options{FailFast: true})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "Henrik"`) {
		t.Fatalf("expected suggestion in %v", err)
	}
}

func TestParseRejectsIncompleteRows(t *testing.T) {
	cases := map[string][]string{
		"short row":        {"Act1", "Overture", "", "", "", "", "", "", "Part1", "Piano"},
		"fixed only":       {"Act1", "Overture", "", "", "", ""},
		"empty tokens":     {"Act1", "Overture", "", "", "", "", "", "", "", "Piano", ""},
		"separators only":  {"Act1", "Overture", "", "", "", "", "", "", "||", "Piano", ""},
		"single cell line": {"Act1"},
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, tsv(testHeader, metaRow(), row), "Henrik", Options{})
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			msg := err.Error()
			for _, fragment := range []string{"failed to parse plan.tsv", `performer "Henrik"`, "line 3"} {
				if !strings.Contains(msg, fragment) {
					t.Fatalf("expected %q in %q", fragment, msg)
				}
			}
		})
	}
}

func TestParseRejectsPerformerColumnOverlap(t *testing.T) {
	header := []string{"type", "folder", "prior", "nick", "Henrik", "end", "tempo", "starter", "x"}
	row := []string{"Act1", "Overture", "", "", "", "", "", "", "", "", ""}

	_, err := parse(t, tsv(header, metaRow(), row), "Henrik", Options{})
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("expected overlap validation error, got %v", err)
	}
}

func TestParseDuplicateHeaderUsesLastColumn(t *testing.T) {
	header := []string{"type", "folder", "prior", "nick", "cue", "end", "tempo", "starter", "Henrik", "", "", "Henrik", "", ""}
	row := []string{"Act1", "Overture", "", "", "", "", "", "", "first", "p1", "", "second", "p2", "e2"}

	records, err := parse(t, tsv(header, metaRow(), row), "Henrik", Options{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	got := records[0]
	if !reflect.DeepEqual(got.FileTokens, []string{"second"}) || got.Patch != "p2" || got.EndNote != "e2" {
		t.Fatalf("expected last header column to win, got %+v", got)
	}
}

func TestAssignRowFixedRolesWinOverlappingColumns(t *testing.T) {
	cells := []string{"Act1", "Song", "prior", "nick", "cue", "end", "tempo", "starter", "c8", "c9"}

	rec, missing := assignRow(cells, 6)
	if rec.Tempo != "tempo" || rec.StartingPerformer != "starter" {
		t.Fatalf("expected fixed columns to keep their roles, got %+v", rec)
	}
	if rec.EndNote != "c8" {
		t.Fatalf("expected column 8 to feed the end note, got %q", rec.EndNote)
	}
	if !reflect.DeepEqual(missing, []string{"file names", "patch"}) {
		t.Fatalf("unexpected missing fields: %v", missing)
	}

	rec, missing = assignRow(cells, 8)
	if len(missing) != 1 || missing[0] != "end note" {
		t.Fatalf("expected only the end note missing, got %v", missing)
	}
	if !reflect.DeepEqual(rec.FileTokens, []string{"c8"}) || rec.Patch != "c9" {
		t.Fatalf("unexpected performer fields: %+v", rec)
	}
}

func TestParseHonoursDelimiterAndQuotes(t *testing.T) {
	header := strings.Join(testHeader, ",")
	content := header + "\nmeta\n" +
		`Act1,Overture,,,Shout "now",,120,Henrik,Part1,"Piano, soft",` + "\n"

	records, err := parse(t, content, "Henrik", Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if records[0].CueText != `Shout "now"` {
		t.Fatalf("expected lazy quotes to keep inner quotes, got %q", records[0].CueText)
	}
	if records[0].Patch != "Piano, soft" {
		t.Fatalf("expected quoted delimiter to stay in the cell, got %q", records[0].Patch)
	}
}

func TestParseStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, strings.NewReader(tsv(testHeader)), "plan.tsv", "Henrik", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tsv")
	content := tsv(testHeader, metaRow(),
		[]string{"Act1", "Overture", "", "", "", "", "", "", "Part1", "", "", "-", "", ""})
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	records, err := Extract(context.Background(), path, "Henrik", Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 1 || records[0].FileTokens[0] != "Part1" {
		t.Fatalf("unexpected records: %+v", records)
	}

	_, err = Extract(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"), "Henrik", Options{})
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestParseCountsBlankLinesAsRows(t *testing.T) {
	overture := []string{"Act1", "Overture", "", "ov", "", "", "120", "", "Part1", "Piano", "", "-", "", ""}
	finale := []string{"Act1", "Finale", "", "fin", "", "", "96", "", "Part2", "Organ", "", "-", "", ""}

	t.Run("blank metadata row", func(t *testing.T) {
		content := tsv(testHeader) + "\n" + tsv(overture, finale)
		records, err := parse(t, content, "Henrik", Options{})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if len(records) != 2 || records[0].SongFolder != "Overture" || records[1].SongFolder != "Finale" {
			t.Fatalf("expected both songs after a blank metadata row, got %+v", records)
		}
		if records[0].Row != 3 || records[1].Row != 4 {
			t.Fatalf("expected rows 3 and 4, got %d and %d", records[0].Row, records[1].Row)
		}
	})

	t.Run("blank data row", func(t *testing.T) {
		content := tsv(testHeader, metaRow(), overture) + "\n" + tsv(finale)
		_, err := parse(t, content, "Henrik", Options{})
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation error for blank row, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 4") {
			t.Fatalf("expected blank row reported at line 4, got %v", err)
		}
	})

	t.Run("trailing blank lines", func(t *testing.T) {
		content := tsv(testHeader, metaRow(), overture) + "\n\n"
		records, err := parse(t, content, "Henrik", Options{})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
	})

	t.Run("multi-line quoted cell", func(t *testing.T) {
		quoted := strings.Join([]string{"Act1", "Overture", "", "ov", "", "", "120", "", "Part1", "\"Piano\nsoft\"", "", "-", "", ""}, "\t")
		content := tsv(testHeader, metaRow()) + quoted + "\n" + tsv(finale)
		records, err := parse(t, content, "Henrik", Options{})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if len(records) != 2 || records[0].Patch != "Piano\nsoft" {
			t.Fatalf("unexpected records %+v", records)
		}
		if records[1].Row != 5 {
			t.Fatalf("expected second song to start at line 5, got %d", records[1].Row)
		}
	})
}
