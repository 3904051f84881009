package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"booklet/internal/logging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var performers []string

	cmd := &cobra.Command{
		Use:   "watch [performer...]",
		Short: "Rebuild booklets whenever the spreadsheet or repertoire changes",
		Long: `Build the booklets once, then rebuild all of them whenever the spreadsheet
or any file under the repertoire folder changes. Bursts of changes are
coalesced using watch.debounce_millis. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := performersFrom(performers, args)
			if err != nil {
				return err
			}
			builder, closeFn, err := ctx.openBuilder()
			if err != nil {
				return err
			}
			defer closeFn()
			cfg, _ := ctx.ensureConfig()
			logger, _ := ctx.ensureLogger()

			outputs := make([]string, 0, len(names))
			for _, name := range names {
				outputs = append(outputs, builder.OutputPath(name))
			}
			loop := &rebuildLoop{
				spreadsheet: cfg.Paths.Spreadsheet,
				root:        cfg.Paths.RepertoireDir,
				outputs:     outputs,
				debounce:    time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
				logger:      logging.NewComponentLogger(logger, "watch"),
				rebuild: func(runCtx context.Context) {
					outcomes, _ := builder.BuildAll(runCtx, names)
					if len(outcomes) > 0 {
						fmt.Fprintln(cmd.OutOrStdout(), renderOutcomes(outcomes))
					}
				},
			}
			return loop.Run(cmd.Context())
		},
	}

	cmd.Flags().StringArrayVarP(&performers, "performer", "p", nil, "Performer to build (repeatable)")
	return cmd
}

// rebuildLoop runs rebuild once and again after every quiet period that
// follows a relevant filesystem change. Every rebuild is a full one.
type rebuildLoop struct {
	spreadsheet string
	root        string
	outputs     []string
	debounce    time.Duration
	logger      *slog.Logger
	rebuild     func(context.Context)
}

func (l *rebuildLoop) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(l.spreadsheet)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(l.spreadsheet), err)
	}
	if err := l.addTree(watcher, l.root); err != nil {
		return err
	}

	l.rebuild(ctx)
	l.logger.Info("watching for changes",
		logging.String("spreadsheet", l.spreadsheet),
		logging.String("repertoire", l.root),
		logging.Duration("debounce", l.debounce),
	)

	timer := time.NewTimer(l.debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("watch error",
				logging.String(logging.FieldEventType, "watch_error"),
				logging.String(logging.FieldErrorHint, "changes may be missed; restart watch if rebuilds stop"),
				logging.Error(err),
			)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !l.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := l.addTree(watcher, ev.Name); err != nil {
						l.logger.Warn("watch new folder failed", logging.String("path", ev.Name), logging.Error(err))
					}
				}
			}
			l.logger.Debug("change detected", logging.String("path", ev.Name), logging.String("op", ev.Op.String()))
			timer.Reset(l.debounce)
		case <-timer.C:
			l.logger.Info("rebuilding after changes")
			l.rebuild(ctx)
		}
	}
}

func (l *rebuildLoop) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether ev may change a booklet. Writes of the booklets
// themselves are ignored so an output folder inside the watched tree does not
// trigger endless rebuilds.
func (l *rebuildLoop) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	for _, out := range l.outputs {
		if ev.Name == out || ev.Name == out+".lock" {
			return false
		}
		if filepath.Dir(ev.Name) == filepath.Dir(out) &&
			strings.HasPrefix(filepath.Base(ev.Name), "."+filepath.Base(out)+".") {
			return false
		}
	}
	if ev.Name == l.spreadsheet {
		return true
	}
	rel, err := filepath.Rel(l.root, ev.Name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
