package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"booklet/internal/services"
)

func TestReadHeaderAndCheckPerformer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.tsv")
	content := "Category\tFolder\tPrior\tNick\tCue\tEnd\tTempo\tStarter\tHenrik\t\t\tAnna\n" +
		"meta\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	header, err := ReadHeader(path, '\t')
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if len(header) != 12 || header[8] != "Henrik" {
		t.Fatalf("unexpected header %q", header)
	}

	if err := CheckPerformer(path, header, "Anna"); err != nil {
		t.Fatalf("CheckPerformer(Anna) returned error: %v", err)
	}
	err = CheckPerformer(path, header, "Henrk")
	if !errors.Is(err, services.ErrNotFound) || !strings.Contains(err.Error(), `"Henrik"`) {
		t.Fatalf("expected not found with suggestion, got %v", err)
	}
	if err := CheckPerformer(path, header, "Tempo"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected overlap validation error, got %v", err)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadHeader(filepath.Join(dir, "missing.tsv"), '\t'); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	empty := filepath.Join(dir, "empty.tsv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(empty, '\t'); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReadHeaderBlankFirstLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.tsv")
	if err := os.WriteFile(path, []byte("\nCategory\tFolder\tPrior\tNick\tCue\tEnd\tTempo\tStarter\tHenrik\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	header, err := ReadHeader(path, '\t')
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if len(header) != 1 || header[0] != "" {
		t.Fatalf("expected empty header for blank first line, got %q", header)
	}
	if err := CheckPerformer(path, header, "Henrik"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected performer not found, got %v", err)
	}
}
