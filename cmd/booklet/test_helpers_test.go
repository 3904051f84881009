package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"booklet/internal/config"
	"booklet/internal/testsupport"
)

var sheetRows = [][]string{
	{"Category", "Folder", "Prior", "Nick", "Cue", "End", "Tempo", "Starter", "Henrik", "", "", "Anna", "", ""},
	{"", "", "", "", "", "", "", "", "file", "patch", "end", "file", "patch", "end"},
	{"Act1", "Overture", "", "Ov", "Enter", "Fade out", "120", "Henrik", "Henrik", "Piano", "", "-", "Rest", "Hold"},
	{"Act1", "Finale", "Overture", "Fin", "Bow", "Curtain", "90", "Anna", "-", "Organ", "", "Anna|^alt", "Strings", ""},
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithSheet(sheetRows...)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BOOKLET_SPREADSHEET", "")
	t.Setenv("BOOKLET_REPERTOIRE", "")
	t.Chdir(base)

	root := cfg.Paths.RepertoireDir
	testsupport.WritePDF(t, filepath.Join(root, "Act1", "Overture", "Henrik.pdf"), 3, 612, 792)
	testsupport.WritePDF(t, filepath.Join(root, "Act1", "Overture", "Anna_part.pdf"), 2, 612, 792)
	testsupport.WritePDF(t, filepath.Join(root, "Act1", "Finale", "Score.pdf"), 2, 595, 842)
	testsupport.WritePDF(t, filepath.Join(root, "Act1", "Finale", "Anna.pdf"), 4, 595, 842)

	configPath := filepath.Join(base, "booklet-test.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
