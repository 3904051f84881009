package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output locations.
type Paths struct {
	RepertoireDir string `toml:"repertoire_dir"`
	Spreadsheet   string `toml:"spreadsheet"`
	OutputDir     string `toml:"output_dir"`
	StateDir      string `toml:"state_dir"`
}

// Spreadsheet controls how the performance spreadsheet is read.
type Spreadsheet struct {
	Delimiter string `toml:"delimiter"`
	// FailFast reports a missing performer column right after the header row
	// instead of at the first data row.
	FailFast bool `toml:"fail_fast"`
}

// Resolve selects the tie-break strategies used when picking PDFs.
type Resolve struct {
	RestStrategy  string `toml:"rest_strategy"`
	MatchStrategy string `toml:"match_strategy"`
}

// Batch controls multi-performer runs.
type Batch struct {
	StopOnError bool `toml:"stop_on_error"`
}

// History controls the run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Watch controls the rebuild-on-change loop.
type Watch struct {
	DebounceMillis int `toml:"debounce_millis"`
}

// Fonts maps font roles to PDF base font names.
type Fonts struct {
	Regular string `toml:"regular"`
	Italic  string `toml:"italic"`
	Sans    string `toml:"sans"`
}

// Annotation describes how one annotation role is drawn. X and Y are fractions
// of the page width and height measured from the bottom-left corner.
type Annotation struct {
	Font   string  `toml:"font"`
	Color  string  `toml:"color"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Size   float64 `toml:"size"`
	Prefix string  `toml:"prefix"`
}

// Annotations groups the font table and per-role styling.
type Annotations struct {
	Fonts   Fonts      `toml:"fonts"`
	Tempo   Annotation `toml:"tempo"`
	Cue     Annotation `toml:"cue"`
	Patch   Annotation `toml:"patch"`
	EndNote Annotation `toml:"end_note"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for booklet.
//
// Configuration sections by subsystem:
//   - Paths: repertoire root, spreadsheet, output and state directories
//   - Spreadsheet: delimiter and header validation timing
//   - Resolve: tie-break strategies for rest and playing rows
//   - Batch: error isolation across performers
//   - History: SQLite run ledger
//   - Watch: debounce for the rebuild loop
//   - Annotations: fonts, colours and positions of stamped text
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Spreadsheet Spreadsheet `toml:"spreadsheet"`
	Resolve     Resolve     `toml:"resolve"`
	Batch       Batch       `toml:"batch"`
	History     History     `toml:"history"`
	Watch       Watch       `toml:"watch"`
	Annotations Annotations `toml:"annotations"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/booklet/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, describeDecodeError(resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// describeDecodeError points at the offending line, and lists unknown keys
// so misspelled settings are not silently ignored.
func describeDecodeError(path string, err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("parse config %s: unknown keys\n%s", path, strict.String())
	}
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("parse config %s: line %d, column %d: %w", path, row, col, err)
	}
	return fmt.Errorf("parse config %s: %w", path, err)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("booklet.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ApplyOverrides replaces input and output paths with non-empty command-line
// values, applying the same expansion rules as the config file.
func (c *Config) ApplyOverrides(repertoireDir, spreadsheet, outputDir string) error {
	overrides := []struct {
		key   string
		value string
		dst   *string
	}{
		{"repertoire_dir", repertoireDir, &c.Paths.RepertoireDir},
		{"spreadsheet", spreadsheet, &c.Paths.Spreadsheet},
		{"output_dir", outputDir, &c.Paths.OutputDir},
	}
	for _, o := range overrides {
		value := strings.TrimSpace(o.value)
		if value == "" {
			continue
		}
		expanded, err := expandPath(value)
		if err != nil {
			return fmt.Errorf("paths.%s: %w", o.key, err)
		}
		*o.dst = expanded
	}
	return nil
}

// EnsureDirectories creates the output and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run ledger database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the location of the persistent log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "booklet.log")
}

// DelimiterRune returns the spreadsheet column separator.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Spreadsheet.Delimiter {
		return r
	}
	return '\t'
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
