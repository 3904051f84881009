package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"booklet/internal/booklet"
	"booklet/internal/config"
	"booklet/internal/history"
	"booklet/internal/logging"
)

type globalFlags struct {
	config      string
	spreadsheet string
	repertoire  string
	output      string
	verbose     bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.ApplyOverrides(c.flags.repertoire, c.flags.spreadsheet, c.flags.output); err != nil {
			c.configErr = err
			return
		}
		if c.flags.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openBuilder wires a builder with the run ledger when history is enabled.
// The returned close function releases the ledger.
func (c *commandContext) openBuilder() (*booklet.Builder, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireInputs(); err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	opts := []booklet.Option{booklet.WithLogger(logger)}
	closeFn := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logger.Warn("run history disabled",
				logging.String(logging.FieldEventType, "history_open_failed"),
				logging.String(logging.FieldErrorHint, "delete the history database or set history.enabled = false"),
				logging.Error(err),
			)
		} else {
			opts = append(opts, booklet.WithRecorder(store))
			closeFn = func() { _ = store.Close() }
		}
	}

	builder, err := booklet.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return builder, closeFn, nil
}

// performersFrom merges --performer flags and positional arguments, dropping
// blanks and duplicates while keeping order.
func performersFrom(flagValues, args []string) ([]string, error) {
	seen := map[string]struct{}{}
	var performers []string
	for _, p := range append(append([]string{}, flagValues...), args...) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		performers = append(performers, p)
	}
	if len(performers) == 0 {
		return nil, errors.New("at least one performer is required (use --performer)")
	}
	return performers, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
