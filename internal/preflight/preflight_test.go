package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"booklet/internal/config"
	"booklet/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableDirectory_Empty(t *testing.T) {
	if result := CheckReadableDirectory("Repertoire directory", ""); result.Passed {
		t.Fatal("expected failure for unconfigured path")
	}
}

var header = []string{"Category", "Folder", "Prior", "Nick", "Cue", "End", "Tempo", "Starter", "Henrik", "", "", "Anna"}

func TestCheckSpreadsheet(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSheet(header, []string{"meta"}))
	if result := CheckSpreadsheet(cfg.Paths.Spreadsheet, '\t'); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	narrow := filepath.Join(testsupport.BaseDir(cfg), "narrow.tsv")
	testsupport.WriteSheet(t, narrow, '\t', header[:8])
	if result := CheckSpreadsheet(narrow, '\t'); result.Passed {
		t.Fatal("expected failure for header without performer columns")
	}

	if result := CheckSpreadsheet(filepath.Join(testsupport.BaseDir(cfg), "missing.tsv"), '\t'); result.Passed {
		t.Fatal("expected failure for missing spreadsheet")
	}
}

func TestCheckPerformer(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSheet(header))
	if result := CheckPerformer(cfg.Paths.Spreadsheet, '\t', "Anna"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	result := CheckPerformer(cfg.Paths.Spreadsheet, '\t', "henrik")
	if result.Passed {
		t.Fatal("expected failure for case mismatch")
	}
	if !strings.Contains(result.Detail, `"Henrik"`) {
		t.Fatalf("expected suggestion in detail, got: %s", result.Detail)
	}
}

func TestCheckAnnotations(t *testing.T) {
	if result := CheckAnnotations(config.DefaultAnnotations()); !result.Passed {
		t.Fatalf("expected defaults to pass, got: %s", result.Detail)
	}
	a := config.DefaultAnnotations()
	a.Fonts.Sans = "Arial"
	result := CheckAnnotations(a)
	if result.Passed || !strings.Contains(result.Detail, "Arial") {
		t.Fatalf("expected Arial to be rejected, got: %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSheet(header, []string{"meta"}))
	results := RunAll(context.Background(), cfg, "Henrik", "Nobody")

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	want := `Repertoire directory|Spreadsheet|Output directory|State directory|Annotation fonts|Performer "Henrik"|Performer "Nobody"`
	if got := strings.Join(names, "|"); got != want {
		t.Fatalf("checks = %s\nwant %s", got, want)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != `Performer "Nobody"` {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	cfg.History.Enabled = false
	if got := len(RunAll(context.Background(), cfg)); got != 4 {
		t.Fatalf("expected 4 checks without history, got %d", got)
	}
}
