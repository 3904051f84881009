package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpreadsheet()
	c.normalizeResolve()
	c.normalizeAnnotations()
	c.normalizeLogging()
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = defaultDebounceMillis
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.RepertoireDir) == "" {
		if value, ok := os.LookupEnv("BOOKLET_REPERTOIRE"); ok {
			c.Paths.RepertoireDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.Spreadsheet) == "" {
		if value, ok := os.LookupEnv("BOOKLET_SPREADSHEET"); ok {
			c.Paths.Spreadsheet = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}

	var err error
	if c.Paths.RepertoireDir, err = expandPath(strings.TrimSpace(c.Paths.RepertoireDir)); err != nil {
		return fmt.Errorf("paths.repertoire_dir: %w", err)
	}
	if c.Paths.Spreadsheet, err = expandPath(strings.TrimSpace(c.Paths.Spreadsheet)); err != nil {
		return fmt.Errorf("paths.spreadsheet: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpreadsheet() {
	switch strings.ToLower(strings.TrimSpace(c.Spreadsheet.Delimiter)) {
	case "", "tab", `\t`:
		c.Spreadsheet.Delimiter = defaultDelimiter
	case "comma":
		c.Spreadsheet.Delimiter = ","
	case "semicolon":
		c.Spreadsheet.Delimiter = ";"
	}
}

func (c *Config) normalizeResolve() {
	c.Resolve.RestStrategy = strings.ToLower(strings.TrimSpace(c.Resolve.RestStrategy))
	if c.Resolve.RestStrategy == "" {
		c.Resolve.RestStrategy = defaultRestStrategy
	}
	c.Resolve.MatchStrategy = strings.ToLower(strings.TrimSpace(c.Resolve.MatchStrategy))
	if c.Resolve.MatchStrategy == "" {
		c.Resolve.MatchStrategy = defaultMatchStrategy
	}
}

func (c *Config) normalizeAnnotations() {
	defaults := DefaultAnnotations()
	fonts := &c.Annotations.Fonts
	fonts.Regular = fallback(fonts.Regular, defaults.Fonts.Regular)
	fonts.Italic = fallback(fonts.Italic, defaults.Fonts.Italic)
	fonts.Sans = fallback(fonts.Sans, defaults.Fonts.Sans)

	normalizeAnnotation(&c.Annotations.Tempo, defaults.Tempo)
	normalizeAnnotation(&c.Annotations.Cue, defaults.Cue)
	normalizeAnnotation(&c.Annotations.Patch, defaults.Patch)
	normalizeAnnotation(&c.Annotations.EndNote, defaults.EndNote)
}

func normalizeAnnotation(a *Annotation, defaults Annotation) {
	a.Font = strings.ToLower(fallback(a.Font, defaults.Font))
	a.Color = strings.ToLower(fallback(a.Color, defaults.Color))
	if a.Size == 0 {
		a.Size = defaults.Size
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(fallback(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(fallback(c.Logging.Level, defaultLogLevel))
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
