package config

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Validate ensures the configuration is usable. Repertoire and spreadsheet
// paths may be supplied on the command line, so their absence is not an error
// here; see RequireInputs.
func (c *Config) Validate() error {
	if err := c.validateSpreadsheet(); err != nil {
		return err
	}
	if err := c.validateResolve(); err != nil {
		return err
	}
	if err := c.validateAnnotations(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireInputs reports whether the spreadsheet and repertoire paths are set.
func (c *Config) RequireInputs() error {
	if c.Paths.Spreadsheet == "" {
		return errors.New("paths.spreadsheet must be set (use --csv or BOOKLET_SPREADSHEET)")
	}
	if c.Paths.RepertoireDir == "" {
		return errors.New("paths.repertoire_dir must be set (use --folder or BOOKLET_REPERTOIRE)")
	}
	return nil
}

func (c *Config) validateSpreadsheet() error {
	if utf8.RuneCountInString(c.Spreadsheet.Delimiter) != 1 {
		return fmt.Errorf("spreadsheet.delimiter must be a single character, got %q", c.Spreadsheet.Delimiter)
	}
	switch c.Spreadsheet.Delimiter {
	case "\"", "\r", "\n":
		return fmt.Errorf("spreadsheet.delimiter %q is not allowed", c.Spreadsheet.Delimiter)
	}
	return nil
}

func (c *Config) validateResolve() error {
	for key, value := range map[string]string{
		"resolve.rest_strategy":  c.Resolve.RestStrategy,
		"resolve.match_strategy": c.Resolve.MatchStrategy,
	} {
		switch value {
		case StrategyShortest, StrategyLongest, StrategyPerformer:
		default:
			return fmt.Errorf("%s: unsupported strategy %q (use shortest, longest, or performer)", key, value)
		}
	}
	return nil
}

func (c *Config) validateAnnotations() error {
	roles := []struct {
		name string
		a    Annotation
	}{
		{"tempo", c.Annotations.Tempo},
		{"cue", c.Annotations.Cue},
		{"patch", c.Annotations.Patch},
		{"end_note", c.Annotations.EndNote},
	}
	for _, role := range roles {
		key := "annotations." + role.name
		switch role.a.Font {
		case FontRegular, FontItalic, FontSans:
		default:
			return fmt.Errorf("%s.font: unknown font role %q (use regular, italic, or sans)", key, role.a.Font)
		}
		if !hexColorPattern.MatchString(role.a.Color) {
			return fmt.Errorf("%s.color: expected #rrggbb, got %q", key, role.a.Color)
		}
		if role.a.X < 0 || role.a.X > 1 {
			return fmt.Errorf("%s.x must be between 0 and 1", key)
		}
		if role.a.Y < 0 || role.a.Y > 1 {
			return fmt.Errorf("%s.y must be between 0 and 1", key)
		}
		if role.a.Size <= 0 {
			return fmt.Errorf("%s.size must be positive", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
