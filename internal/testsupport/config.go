package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"booklet/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The repertoire, output and state directories exist; the spreadsheet path is
// set but the file is only written by WithSheet.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RepertoireDir = filepath.Join(base, "repertoire")
	cfgVal.Paths.Spreadsheet = filepath.Join(base, "songs.tsv")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "debug"

	for _, dir := range []string{cfgVal.Paths.RepertoireDir, cfgVal.Paths.OutputDir, cfgVal.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSheet writes rows as the spreadsheet using the configured delimiter.
func WithSheet(rows ...[]string) ConfigOption {
	return func(b *configBuilder) {
		WriteSheet(b.t, b.cfg.Paths.Spreadsheet, b.cfg.DelimiterRune(), rows...)
	}
}

// WithStopOnError aborts batches at the first failing performer.
func WithStopOnError() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.StopOnError = true
	}
}

// WithoutHistory disables the run ledger.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
